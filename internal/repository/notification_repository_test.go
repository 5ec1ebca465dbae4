package repository

import (
	"context"
	"testing"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepositoryUnreadLifecycle(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Notification{UserUID: "citizen-1", Type: model.NotificationTypeBadgeAwarded, Title: "badge"}))
	}
	require.NoError(t, repo.Create(ctx, &model.Notification{UserUID: "citizen-2", Type: model.NotificationTypeBadgeAwarded}))

	list, err := repo.ListByUser(ctx, "citizen-1", true, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Greater(t, list[0].ID, list[1].ID)

	n, err := repo.CountUnread(ctx, "citizen-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, repo.MarkAllRead(ctx, "citizen-1"))
	n, err = repo.CountUnread(ctx, "citizen-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := repo.ListByUser(ctx, "citizen-1", false, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, x := range all {
		assert.NotNil(t, x.ReadAt)
	}

	other, err := repo.CountUnread(ctx, "citizen-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}
