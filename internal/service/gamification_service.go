package service

import (
	"context"
	"fmt"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
	"github.com/ecotrack/gamification/internal/reqctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AwardPointsInput struct {
	ActorID      string `json:"actorId" validate:"required,max=128"`
	ActionType   string `json:"actionType" validate:"required,actiontype"`
	CustomPoints *int64 `json:"customPoints,omitempty"`
	Reference    string `json:"reference,omitempty" validate:"max=128"`
}

type AdjustPointsInput struct {
	ActorID string `json:"actorId" validate:"required,max=128"`
	Delta   int64  `json:"delta" validate:"ne=0"`
	Reason  string `json:"reason" validate:"required,actiontype"`
}

type AwardResult struct {
	ActorID       string               `json:"actorId"`
	PointsAwarded int64                `json:"pointsAwarded"`
	TotalPoints   int64                `json:"totalPoints"`
	Level         model.Level          `json:"level"`
	NewBadges     []model.AwardedBadge `json:"newBadges"`
}

// GamificationService composes the points ledger and the badge awarder into
// one transaction per point-earning event.
type GamificationService struct {
	tx          repository.TxManager
	ledger      *PointsLedger
	awarder     *BadgeAwarder
	table       *PointsTable
	leaderboard *LeaderboardService
	notifier    Notifier
	log         *zap.Logger
}

func NewGamificationService(
	tx repository.TxManager,
	ledger *PointsLedger,
	awarder *BadgeAwarder,
	table *PointsTable,
	leaderboard *LeaderboardService,
	notifier Notifier,
	log *zap.Logger,
) *GamificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GamificationService{
		tx:          tx,
		ledger:      ledger,
		awarder:     awarder,
		table:       table,
		leaderboard: leaderboard,
		notifier:    notifier,
		log:         log,
	}
}

// AwardPoints credits the points for one action and awards any newly
// eligible badges.
func (s *GamificationService) AwardPoints(ctx context.Context, in AwardPointsInput) (*AwardResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	points := s.table.CalculatePoints(in.ActionType, in.CustomPoints)
	return s.apply(ctx, in.ActorID, points, in.ActionType, in.Reference)
}

// AdjustPoints applies a signed manual correction. Lowering a total never
// revokes badges.
func (s *GamificationService) AdjustPoints(ctx context.Context, in AdjustPointsInput) (*AwardResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.apply(ctx, in.ActorID, in.Delta, in.Reason, "")
}

func (s *GamificationService) apply(ctx context.Context, actorID string, delta int64, reason, reference string) (*AwardResult, error) {
	res := &AwardResult{ActorID: actorID, PointsAwarded: delta}
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		total, err := s.ledger.WithTx(tx).IncrementPoints(ctx, actorID, delta, reason, reference)
		if err != nil {
			return err
		}
		badges, err := s.awarder.WithTx(tx).AwardEligibleBadges(ctx, actorID, total)
		if err != nil {
			return err
		}
		res.TotalPoints = total
		res.NewBadges = badges
		return nil
	})
	if err != nil {
		err = classify("award points", err)
		s.log.Warn("point change rejected",
			zap.String("rid", reqctx.RID(ctx)),
			zap.String("actor", actorID), zap.Int64("delta", delta), zap.String("reason", reason), zap.Error(err))
		return nil, err
	}
	res.Level = DeriveLevel(res.TotalPoints)

	s.log.Info("points applied",
		zap.String("rid", reqctx.RID(ctx)),
		zap.String("actor", actorID),
		zap.Int64("delta", delta),
		zap.String("reason", reason),
		zap.Int64("total", res.TotalPoints),
		zap.Int("new_badges", len(res.NewBadges)),
	)
	s.afterCommit(ctx, res)
	return res, nil
}

func (s *GamificationService) afterCommit(ctx context.Context, res *AwardResult) {
	ctx, cancel := withShortDeadline(ctx)
	defer cancel()

	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}
	if s.notifier == nil {
		return
	}
	for _, b := range res.NewBadges {
		s.notifier.Notify(ctx, res.ActorID, model.NotificationTypeBadgeAwarded,
			fmt.Sprintf("New badge: %s", b.Name),
			fmt.Sprintf("You reached %d points and earned the %s badge.", b.Threshold, b.Name),
			uint64Ptr(b.ID))
	}
}
