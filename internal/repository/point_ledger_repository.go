package repository

import (
	"context"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PointLedgerRepository interface {
	Append(ctx context.Context, e *model.PointLedgerEntry) error
	SumByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.PointLedgerEntry, error)
	WithTx(tx *gorm.DB) PointLedgerRepository
}

type pointLedgerRepository struct {
	db *gorm.DB
}

func NewPointLedgerRepository(db *gorm.DB) PointLedgerRepository {
	return &pointLedgerRepository{db: db}
}

func (r *pointLedgerRepository) WithTx(tx *gorm.DB) PointLedgerRepository {
	return &pointLedgerRepository{db: tx}
}

func (r *pointLedgerRepository) Append(ctx context.Context, e *model.PointLedgerEntry) error {
	if e.EntryID == "" {
		e.EntryID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *pointLedgerRepository) SumByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&model.PointLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *pointLedgerRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.PointLedgerEntry, error) {
	var list []model.PointLedgerEntry
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
