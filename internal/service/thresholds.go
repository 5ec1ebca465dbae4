package service

import (
	"fmt"
	"sort"
)

type BadgeThreshold struct {
	Code   string
	Points int64
}

// BadgeThresholds is the badge code -> required points mapping, loaded once
// at startup and shared read-only.
type BadgeThresholds struct {
	byCode  map[string]int64
	ordered []BadgeThreshold
}

func NewBadgeThresholds(m map[string]int64) (*BadgeThresholds, error) {
	bt := &BadgeThresholds{byCode: make(map[string]int64, len(m))}
	for code, pts := range m {
		if code == "" {
			return nil, fmt.Errorf("badge threshold with empty code")
		}
		if pts <= 0 {
			return nil, fmt.Errorf("badge %q: threshold must be positive, got %d", code, pts)
		}
		bt.byCode[code] = pts
		bt.ordered = append(bt.ordered, BadgeThreshold{Code: code, Points: pts})
	}
	sort.Slice(bt.ordered, func(i, j int) bool {
		if bt.ordered[i].Points != bt.ordered[j].Points {
			return bt.ordered[i].Points < bt.ordered[j].Points
		}
		return bt.ordered[i].Code < bt.ordered[j].Code
	})
	return bt, nil
}

func (b *BadgeThresholds) Lookup(code string) (int64, bool) {
	p, ok := b.byCode[code]
	return p, ok
}

// Ordered returns thresholds ascending by points, then code.
func (b *BadgeThresholds) Ordered() []BadgeThreshold {
	out := make([]BadgeThreshold, len(b.ordered))
	copy(out, b.ordered)
	return out
}

// Reached returns the thresholds at or below total, ascending.
func (b *BadgeThresholds) Reached(total int64) []BadgeThreshold {
	var out []BadgeThreshold
	for _, t := range b.ordered {
		if t.Points > total {
			break
		}
		out = append(out, t)
	}
	return out
}
