package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAwardPointsFullFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addActor(t, "citizen-1")
	ctx := context.Background()

	res, err := env.svc.AwardPoints(ctx, AwardPointsInput{ActorID: "citizen-1", ActionType: ActionReportFiled, CustomPoints: int64Ptr(120)})
	require.NoError(t, err)
	assert.Equal(t, int64(120), res.PointsAwarded)
	assert.Equal(t, int64(120), res.TotalPoints)
	assert.Equal(t, 2, res.Level.Tier)
	assert.Equal(t, []string{"first-tier"}, badgeCodes(res.NewBadges))

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, "citizen-1", env.notifier.sent[0].userUID)
	assert.Equal(t, model.NotificationTypeBadgeAwarded, env.notifier.sent[0].typ)
	assert.Equal(t, res.NewBadges[0].ID, env.notifier.sent[0].badgeID)
	assert.Equal(t, 1, env.cache.invalidated)

	res, err = env.svc.AwardPoints(ctx, AwardPointsInput{ActorID: "citizen-1", ActionType: ActionReportFiled})
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.PointsAwarded)
	assert.Equal(t, int64(130), res.TotalPoints)
	assert.Empty(t, res.NewBadges)
	assert.Len(t, env.notifier.sent, 1)
}

func TestAwardPointsRejections(t *testing.T) {
	env := newTestEnv(t)
	env.addActor(t, "citizen-1")
	ctx := context.Background()

	_, err := env.svc.AwardPoints(ctx, AwardPointsInput{ActorID: "ghost", ActionType: ActionReportFiled})
	assert.ErrorIs(t, err, ErrActorNotFound)

	_, err = env.svc.AwardPoints(ctx, AwardPointsInput{ActorID: "citizen-1", ActionType: "Report Filed!"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "actionType", ve.Field)

	_, err = env.svc.AdjustPoints(ctx, AdjustPointsInput{ActorID: "citizen-1", Delta: 0, Reason: "correction"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "delta", ve.Field)

	total, err := env.ledger.TotalPoints(ctx, "citizen-1")
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, env.cache.invalidated)
}

func TestAdjustPointsNegativeKeepsBadges(t *testing.T) {
	env := newTestEnv(t)
	env.addActor(t, "citizen-1")
	ctx := context.Background()

	_, err := env.svc.AdjustPoints(ctx, AdjustPointsInput{ActorID: "citizen-1", Delta: 600, Reason: "migration"})
	require.NoError(t, err)
	res, err := env.svc.AdjustPoints(ctx, AdjustPointsInput{ActorID: "citizen-1", Delta: -550, Reason: "fraud-correction"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.TotalPoints)
	assert.Empty(t, res.NewBadges)

	badges, err := NewUserService(env.users, env.badgeRepo, env.thresholds).Badges(ctx, "citizen-1")
	require.NoError(t, err)
	assert.Len(t, badges, 2)
}

// failingBadges fails every award insert, after the increment already ran.
type failingBadges struct {
	repository.BadgeRepository
}

func (f failingBadges) WithTx(tx *gorm.DB) repository.BadgeRepository {
	return failingBadges{f.BadgeRepository.WithTx(tx)}
}

func (f failingBadges) CreateAward(context.Context, *model.UserBadge) (bool, error) {
	return false, errors.New("disk full")
}

func TestAwardPointsRollsBackOnAwardFailure(t *testing.T) {
	env := newTestEnv(t)
	env.addActor(t, "citizen-1")
	ctx := context.Background()

	awarder := NewBadgeAwarder(env.users, failingBadges{env.badgeRepo}, env.thresholds, env.tx)
	svc := NewGamificationService(env.tx, env.ledger, awarder, NewPointsTable(nil), env.leaderboard, env.notifier, nil)

	_, err := svc.AwardPoints(ctx, AwardPointsInput{ActorID: "citizen-1", ActionType: ActionChallengeCompleted, CustomPoints: int64Ptr(150)})
	var te *TransactionError
	require.True(t, errors.As(err, &te), "err=%v", err)
	assert.EqualError(t, te.Err, "disk full")

	total, err := env.ledger.TotalPoints(ctx, "citizen-1")
	require.NoError(t, err)
	assert.Zero(t, total)
	history, err := env.ledger.History(ctx, "citizen-1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, env.notifier.sent)
}

func TestAwardPointsConcurrentSameActor(t *testing.T) {
	env := newTestEnv(t)
	env.addActor(t, "citizen-1")
	ctx := context.Background()

	const workers = 10
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		badges []string
	)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := env.svc.AwardPoints(ctx, AwardPointsInput{ActorID: "citizen-1", ActionType: ActionChallengeCompleted})
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			badges = append(badges, badgeCodes(res.NewBadges)...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	total, err := env.ledger.TotalPoints(ctx, "citizen-1")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*50), total)
	assert.ElementsMatch(t, []string{"first-tier", "second-tier"}, badges)

	var n int64
	require.NoError(t, env.db.Model(&model.UserBadge{}).Where("user_id = ?", "citizen-1").Count(&n).Error)
	assert.Equal(t, int64(2), n)
}
