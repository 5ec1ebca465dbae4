package model

import "time"

// Level is a read-time tier derived from a points total.
type Level struct {
	Tier int    `json:"tier"`
	Name string `json:"name"`
}

// AwardedBadge is a badge as seen by one actor.
type AwardedBadge struct {
	ID        uint64    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Threshold int64     `json:"threshold"`
	AwardedAt time.Time `json:"awardedAt"`
}

type LeaderboardEntry struct {
	Rank        int64          `json:"rank"`
	ActorID     string         `json:"actorId"`
	DisplayName string         `json:"displayName"`
	Points      int64          `json:"points"`
	Level       Level          `json:"level"`
	Badges      []AwardedBadge `json:"badges"`
}
