package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLevel(t *testing.T) {
	tests := []struct {
		points   int64
		wantTier int
		wantName string
	}{
		{-20, 1, "Newcomer"},
		{0, 1, "Newcomer"},
		{99, 1, "Newcomer"},
		{100, 2, "Recycler"},
		{499, 2, "Recycler"},
		{500, 3, "Eco Champion"},
		{999, 3, "Eco Champion"},
		{1000, 4, "Zero-Waste Hero"},
		{50000, 4, "Zero-Waste Hero"},
	}
	for _, tt := range tests {
		lvl := DeriveLevel(tt.points)
		assert.Equal(t, tt.wantTier, lvl.Tier, "points=%d", tt.points)
		assert.Equal(t, tt.wantName, lvl.Name, "points=%d", tt.points)
	}
}
