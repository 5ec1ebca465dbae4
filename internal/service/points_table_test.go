package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name   string
		action string
		custom *int64
		want   int64
	}{
		{"report filed default", ActionReportFiled, nil, 10},
		{"challenge completed default", ActionChallengeCompleted, nil, 50},
		{"positive override wins", ActionReportFiled, int64Ptr(42), 42},
		// Non-positive overrides are silently ignored, not rejected.
		{"negative override ignored", ActionReportFiled, int64Ptr(-5), 10},
		{"zero override ignored", ActionReportFiled, int64Ptr(0), 10},
		{"unknown action falls back to 1", "tree-planted", nil, 1},
		{"unknown action with override", "tree-planted", int64Ptr(7), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePoints(tt.action, tt.custom))
		})
	}
}

func TestPointsTableIsCopied(t *testing.T) {
	src := map[string]int64{"report-filed": 3}
	table := NewPointsTable(src)
	src["report-filed"] = 300

	assert.Equal(t, int64(3), table.CalculatePoints("report-filed", nil))
	assert.Equal(t, int64(1), table.CalculatePoints("challenge-completed", nil))
}
