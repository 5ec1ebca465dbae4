package model

import "time"

// PointLedgerEntry is an immutable, signed point change. ID follows insertion
// order; EntryID is the public identifier.
type PointLedgerEntry struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	EntryID   string    `gorm:"column:entry_id;size:36;uniqueIndex;not null"`
	UserID    string    `gorm:"column:user_id;size:128;not null;index:idx_ledger_user_created,priority:1"`
	Delta     int64     `gorm:"column:delta;not null"`
	Reason    string    `gorm:"column:reason;size:64;not null"`
	Reference string    `gorm:"column:reference;size:128"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_ledger_user_created,priority:2"`
}

func (PointLedgerEntry) TableName() string {
	return "point_ledger_entries"
}
