package repository

import (
	"context"

	"github.com/ecotrack/gamification/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	ListAll(ctx context.Context) ([]model.Badge, error)
	ListByCodes(ctx context.Context, codes []string) ([]model.Badge, error)
	// EnsureCatalog inserts the badges whose code is not present yet and
	// returns how many rows were created.
	EnsureCatalog(ctx context.Context, badges []model.Badge) (int, error)
	AwardedBadgeIDs(ctx context.Context, userID string) ([]uint64, error)
	// CreateAward reports false when the (user, badge) pair already exists.
	CreateAward(ctx context.Context, a *model.UserBadge) (bool, error)
	ListAwardsByUsers(ctx context.Context, userIDs []string) ([]model.UserBadge, error)
	WithTx(tx *gorm.DB) BadgeRepository
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) WithTx(tx *gorm.DB) BadgeRepository {
	return &badgeRepository{db: tx}
}

func (r *badgeRepository) ListAll(ctx context.Context) ([]model.Badge, error) {
	var list []model.Badge
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *badgeRepository) ListByCodes(ctx context.Context, codes []string) ([]model.Badge, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var list []model.Badge
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *badgeRepository) EnsureCatalog(ctx context.Context, badges []model.Badge) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range badges {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoNothing: true,
			}).Create(&badges[i])
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *badgeRepository) AwardedBadgeIDs(ctx context.Context, userID string) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *badgeRepository) CreateAward(ctx context.Context, a *model.UserBadge) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Omit("Badge").Create(a)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *badgeRepository) ListAwardsByUsers(ctx context.Context, userIDs []string) ([]model.UserBadge, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var list []model.UserBadge
	if err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id IN ?", userIDs).
		Order("awarded_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
