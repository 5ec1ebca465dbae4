package service

import (
	"context"
	"errors"
	"time"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
	"gorm.io/gorm"
)

// BadgeAwarder inserts award rows for thresholds an actor has crossed.
type BadgeAwarder struct {
	users      repository.UserRepository
	badges     repository.BadgeRepository
	thresholds *BadgeThresholds
	tx         repository.TxManager
	inTx       bool
	now        func() time.Time
}

func NewBadgeAwarder(users repository.UserRepository, badges repository.BadgeRepository, thresholds *BadgeThresholds, tx repository.TxManager) *BadgeAwarder {
	return &BadgeAwarder{
		users:      users,
		badges:     badges,
		thresholds: thresholds,
		tx:         tx,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (a *BadgeAwarder) WithTx(tx *gorm.DB) *BadgeAwarder {
	return &BadgeAwarder{
		users:      a.users.WithTx(tx),
		badges:     a.badges.WithTx(tx),
		thresholds: a.thresholds,
		tx:         a.tx,
		inTx:       true,
		now:        a.now,
	}
}

// AwardEligibleBadges awards every badge whose threshold is <= newTotal and
// that the actor does not own yet, in ascending threshold order. Repeated
// calls never create a second award for the same badge.
func (a *BadgeAwarder) AwardEligibleBadges(ctx context.Context, actorID string, newTotal int64) ([]model.AwardedBadge, error) {
	if actorID == "" {
		return nil, invalid("actorId", "is required")
	}
	if a.inTx {
		return a.award(ctx, actorID, newTotal)
	}
	var awarded []model.AwardedBadge
	err := a.tx.Transaction(ctx, func(tx *gorm.DB) error {
		out, err := a.WithTx(tx).award(ctx, actorID, newTotal)
		awarded = out
		return err
	})
	if err != nil {
		return nil, classify("award badges", err)
	}
	return awarded, nil
}

func (a *BadgeAwarder) award(ctx context.Context, actorID string, newTotal int64) ([]model.AwardedBadge, error) {
	awarded := make([]model.AwardedBadge, 0)

	// serializes concurrent award checks for the same actor
	if _, err := a.users.LockForUpdate(ctx, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	reached := a.thresholds.Reached(newTotal)
	if len(reached) == 0 {
		return awarded, nil
	}
	codes := make([]string, 0, len(reached))
	for _, t := range reached {
		codes = append(codes, t.Code)
	}
	catalog, err := a.badges.ListByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]model.Badge, len(catalog))
	for _, b := range catalog {
		byCode[b.Code] = b
	}

	ownedIDs, err := a.badges.AwardedBadgeIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	owned := make(map[uint64]struct{}, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = struct{}{}
	}

	for _, t := range reached {
		b, ok := byCode[t.Code]
		if !ok {
			continue
		}
		if _, ok := owned[b.ID]; ok {
			continue
		}
		row := &model.UserBadge{UserID: actorID, BadgeID: b.ID, AwardedAt: a.now()}
		created, err := a.badges.CreateAward(ctx, row)
		if err != nil {
			return nil, err
		}
		if !created {
			continue
		}
		awarded = append(awarded, model.AwardedBadge{
			ID:        b.ID,
			Code:      b.Code,
			Name:      b.Name,
			Threshold: t.Points,
			AwardedAt: row.AwardedAt,
		})
	}
	return awarded, nil
}

// toAwardedBadges groups award rows by user. Badges without a configured
// threshold report 0.
func toAwardedBadges(awards []model.UserBadge, thresholds *BadgeThresholds) map[string][]model.AwardedBadge {
	out := make(map[string][]model.AwardedBadge)
	for _, aw := range awards {
		th, _ := thresholds.Lookup(aw.Badge.Code)
		out[aw.UserID] = append(out[aw.UserID], model.AwardedBadge{
			ID:        aw.BadgeID,
			Code:      aw.Badge.Code,
			Name:      aw.Badge.Name,
			Threshold: th,
			AwardedAt: aw.AwardedAt,
		})
	}
	return out
}
