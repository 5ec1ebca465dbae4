package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
	"github.com/ecotrack/gamification/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testThresholds = map[string]int64{
	"first-tier":  100,
	"second-tier": 500,
	"third-tier":  1000,
	"fourth-tier": 2500,
}

type pageKey struct {
	gen   int64
	limit int
}

type memoryCache struct {
	mu          sync.Mutex
	gen         int64
	pages       map[pageKey][]model.LeaderboardEntry
	gets        int
	hits        int
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{pages: map[pageKey][]model.LeaderboardEntry{}}
}

func (c *memoryCache) Generation(context.Context) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, true
}

func (c *memoryCache) Get(_ context.Context, gen int64, limit int) ([]model.LeaderboardEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	e, ok := c.pages[pageKey{gen, limit}]
	if ok {
		c.hits++
	}
	return e, ok
}

func (c *memoryCache) Set(_ context.Context, gen int64, limit int, entries []model.LeaderboardEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[pageKey{gen, limit}] = entries
}

func (c *memoryCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.gen++
}

type sentNotification struct {
	userUID, typ, title string
	badgeID             uint64
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, userUID, typ, title, _ string, badgeID *uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var id uint64
	if badgeID != nil {
		id = *badgeID
	}
	n.sent = append(n.sent, sentNotification{userUID: userUID, typ: typ, title: title, badgeID: id})
}

type testEnv struct {
	db          *gorm.DB
	users       repository.UserRepository
	ledgerRepo  repository.PointLedgerRepository
	badgeRepo   repository.BadgeRepository
	tx          repository.TxManager
	thresholds  *BadgeThresholds
	ledger      *PointsLedger
	awarder     *BadgeAwarder
	leaderboard *LeaderboardService
	cache       *memoryCache
	notifier    *recordingNotifier
	svc         *GamificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenTestDB(t)
	env := &testEnv{
		db:         db,
		users:      repository.NewUserRepository(db),
		ledgerRepo: repository.NewPointLedgerRepository(db),
		badgeRepo:  repository.NewBadgeRepository(db),
		tx:         repository.NewTxManager(db),
		cache:      newMemoryCache(),
		notifier:   &recordingNotifier{},
	}
	th, err := NewBadgeThresholds(testThresholds)
	require.NoError(t, err)
	env.thresholds = th

	_, err = NewBadgeCatalogService(env.badgeRepo, th).SeedDefaults(context.Background())
	require.NoError(t, err)

	env.ledger = NewPointsLedger(env.users, env.ledgerRepo, env.tx)
	env.awarder = NewBadgeAwarder(env.users, env.badgeRepo, th, env.tx)
	env.leaderboard = NewLeaderboardService(repository.NewLeaderboardRepository(db), env.badgeRepo, th, env.cache, 100)
	env.svc = NewGamificationService(env.tx, env.ledger, env.awarder, NewPointsTable(nil), env.leaderboard, env.notifier, nil)
	return env
}

func (e *testEnv) addActor(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.users.Create(context.Background(), &model.User{ID: id, DisplayName: "Actor " + id}))
}

func badgeCodes(badges []model.AwardedBadge) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		out = append(out, b.Code)
	}
	return out
}

func int64Ptr(v int64) *int64 {
	return &v
}
