package service

import "github.com/ecotrack/gamification/internal/model"

var levelTiers = []struct {
	min  int64
	name string
}{
	{0, "Newcomer"},
	{100, "Recycler"},
	{500, "Eco Champion"},
	{1000, "Zero-Waste Hero"},
}

// DeriveLevel maps a points total to its tier. Negative totals are tier 1.
func DeriveLevel(points int64) model.Level {
	lvl := model.Level{Tier: 1, Name: levelTiers[0].name}
	for i, tier := range levelTiers {
		if points >= tier.min {
			lvl = model.Level{Tier: i + 1, Name: tier.name}
		}
	}
	return lvl
}
