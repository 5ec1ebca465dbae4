package repository

import (
	"context"

	"gorm.io/gorm"
)

// RankedUser is one row of the ranking. Ties on points go to the lower id.
type RankedUser struct {
	Rank        int64  `gorm:"column:lb_rank"`
	ID          string `gorm:"column:id"`
	DisplayName string `gorm:"column:display_name"`
	Points      int64  `gorm:"column:points"`
}

const rankedUsersSQL = `SELECT id, display_name, points,
	ROW_NUMBER() OVER (ORDER BY points DESC, id ASC) AS lb_rank
	FROM users`

type LeaderboardRepository interface {
	Top(ctx context.Context, limit int) ([]RankedUser, error)
	// RankOf returns nil when the user does not exist.
	RankOf(ctx context.Context, userID string) (*RankedUser, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) Top(ctx context.Context, limit int) ([]RankedUser, error) {
	var rows []RankedUser
	if err := r.db.WithContext(ctx).
		Raw(rankedUsersSQL+" ORDER BY points DESC, id ASC LIMIT ?", limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *leaderboardRepository) RankOf(ctx context.Context, userID string) (*RankedUser, error) {
	var rows []RankedUser
	if err := r.db.WithContext(ctx).
		Raw("SELECT id, display_name, points, lb_rank FROM ("+rankedUsersSQL+") ranked WHERE id = ?", userID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
