package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeThresholdsOrdering(t *testing.T) {
	th, err := NewBadgeThresholds(map[string]int64{"gold": 1000, "bronze": 100, "silver": 500, "copper": 100})
	require.NoError(t, err)

	ordered := th.Ordered()
	codes := make([]string, 0, len(ordered))
	for _, o := range ordered {
		codes = append(codes, o.Code)
	}
	assert.Equal(t, []string{"bronze", "copper", "silver", "gold"}, codes)

	reached := th.Reached(500)
	assert.Len(t, reached, 3)
	assert.Empty(t, th.Reached(99))

	p, ok := th.Lookup("silver")
	assert.True(t, ok)
	assert.Equal(t, int64(500), p)
}

func TestBadgeThresholdsRejectsInvalid(t *testing.T) {
	_, err := NewBadgeThresholds(map[string]int64{"broken": 0})
	assert.Error(t, err)
	_, err = NewBadgeThresholds(map[string]int64{"": 10})
	assert.Error(t, err)
}
