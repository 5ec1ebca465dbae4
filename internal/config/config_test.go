package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardCacheTTL)
	assert.Equal(t, map[string]int64{
		"first-tier":  100,
		"second-tier": 500,
		"third-tier":  1000,
		"fourth-tier": 2500,
	}, cfg.BadgeThresholds)
	assert.Equal(t, int64(10), cfg.ActionPoints["report-filed"])
	assert.Equal(t, int64(50), cfg.ActionPoints["challenge-completed"])
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("BADGE_THRESHOLDS", "starter:10,pro:200")
	t.Setenv("LEADERBOARD_DEFAULT_LIMIT", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"starter": 10, "pro": 200}, cfg.BadgeThresholds)
	assert.Equal(t, 5, cfg.LeaderboardDefaultLimit)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"mysql without credentials", map[string]string{"DB_DRIVER": "mysql"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"non-positive threshold", map[string]string{"DB_DRIVER": "sqlite", "BADGE_THRESHOLDS": "broken:0"}},
		{"default above max", map[string]string{"DB_DRIVER": "sqlite", "LEADERBOARD_DEFAULT_LIMIT": "500"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
