package model

import "time"

// Badge is a catalog entry. Its points threshold is configuration, not a column.
type Badge struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Code        string    `gorm:"column:code;size:64;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;size:255;not null"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Badge) TableName() string {
	return "badges"
}
