package model

import "time"

// UserBadge records a badge award. At most one row exists per (user, badge).
type UserBadge struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"column:user_id;size:128;not null;uniqueIndex:idx_user_badge,priority:1"`
	BadgeID   uint64    `gorm:"column:badge_id;not null;uniqueIndex:idx_user_badge,priority:2"`
	Badge     Badge     `gorm:"foreignKey:BadgeID"`
	AwardedAt time.Time `gorm:"column:awarded_at;not null"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
