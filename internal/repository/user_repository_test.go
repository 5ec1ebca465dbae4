package repository

import (
	"context"
	"testing"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepositoryIncrementPoints(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{ID: "citizen-1", DisplayName: "Ana"}))

	require.NoError(t, repo.IncrementPoints(ctx, "citizen-1", 30))
	require.NoError(t, repo.IncrementPoints(ctx, "citizen-1", -5))

	total, err := repo.GetTotalPoints(ctx, "citizen-1")
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
}

func TestUserRepositoryIncrementUnknownUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	err := repo.IncrementPoints(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepositorySetTotalPoints(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{ID: "agent-7", Role: model.RoleAgent}))
	require.NoError(t, repo.SetTotalPoints(ctx, "agent-7", 400))
	// unchanged value is still a success
	require.NoError(t, repo.SetTotalPoints(ctx, "agent-7", 400))

	total, err := repo.GetTotalPoints(ctx, "agent-7")
	require.NoError(t, err)
	assert.Equal(t, int64(400), total)

	assert.ErrorIs(t, repo.SetTotalPoints(ctx, "ghost", 1), gorm.ErrRecordNotFound)
}

func TestUserRepositoryWithTxRollsBack(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.User{ID: "citizen-2"}))

	err := NewTxManager(db).Transaction(ctx, func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).IncrementPoints(ctx, "citizen-2", 50); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	total, err := repo.GetTotalPoints(ctx, "citizen-2")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{ID: "citizen-1"}))
	err := repo.Create(ctx, &model.User{ID: "citizen-1"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
