package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, repo BadgeRepository) []model.Badge {
	t.Helper()
	badges := []model.Badge{
		{Code: "first-tier", Name: "Eco Starter"},
		{Code: "second-tier", Name: "Green Guardian"},
	}
	n, err := repo.EnsureCatalog(context.Background(), badges)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return badges
}

func TestBadgeRepositoryEnsureCatalogIsIdempotent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewBadgeRepository(db)
	seedCatalog(t, repo)

	n, err := repo.EnsureCatalog(context.Background(), []model.Badge{
		{Code: "first-tier", Name: "Renamed"},
		{Code: "third-tier", Name: "Recycling Hero"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Eco Starter", all[0].Name)
}

func TestBadgeRepositoryCreateAwardOnce(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewBadgeRepository(db)
	ctx := context.Background()
	badges := seedCatalog(t, repo)

	created, err := repo.CreateAward(ctx, &model.UserBadge{UserID: "citizen-1", BadgeID: badges[0].ID, AwardedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateAward(ctx, &model.UserBadge{UserID: "citizen-1", BadgeID: badges[0].ID, AwardedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, created)

	ids, err := repo.AwardedBadgeIDs(ctx, "citizen-1")
	require.NoError(t, err)
	assert.Equal(t, []uint64{badges[0].ID}, ids)

	awards, err := repo.ListAwardsByUsers(ctx, []string{"citizen-1", "citizen-2"})
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "first-tier", awards[0].Badge.Code)
}

func TestBadgeRepositoryListByCodes(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewBadgeRepository(db)
	seedCatalog(t, repo)

	list, err := repo.ListByCodes(context.Background(), []string{"second-tier", "unknown"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second-tier", list[0].Code)

	none, err := repo.ListByCodes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
