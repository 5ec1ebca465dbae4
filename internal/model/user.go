package model

import "time"

const (
	RoleCitizen = "citizen"
	RoleAgent   = "agent"
	RoleAdmin   = "admin"
)

// User is a platform actor. Points is a cached sum of the actor's ledger
// entries and is only written by the points ledger.
type User struct {
	ID          string    `gorm:"column:id;primaryKey;size:128"`
	DisplayName string    `gorm:"column:display_name;size:255"`
	Role        string    `gorm:"column:role;size:32;not null;default:citizen"`
	Points      int64     `gorm:"column:points;not null;default:0;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
