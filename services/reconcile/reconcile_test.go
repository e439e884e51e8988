package reconcile

import (
	"context"
	"testing"

	"meal-tracker/database"
	"meal-tracker/enums"
	"meal-tracker/models"
	"meal-tracker/services/auth"
	"meal-tracker/services/storage"
	"meal-tracker/structs"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Reconciler, *storage.LocalTier, *storage.RemoteTier, *gorm.DB) {
	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logger, _ := test.NewNullLogger()
	local := storage.NewLocalTier(t.TempDir())
	remote := storage.NewRemoteTier(db, logger)
	return NewReconciler(db, local, remote, logger), local, remote, db
}

func TestReconciler_PushesOnlyMissingDays(t *testing.T) {
	reconciler, local, remote, db := setup(t)
	ctx := context.Background()

	offline := structs.DefaultDailyMeals("2024-01-01")
	offline.Meals[0].Status = enums.Eaten
	require.NoError(t, local.Save(ctx, "user-1", offline))
	require.NoError(t, local.Save(ctx, "user-1", structs.DefaultDailyMeals("2024-01-02")))

	stale := structs.DefaultDailyMeals("2024-01-02")
	require.NoError(t, local.Save(ctx, "user-1", stale))
	newer := structs.DefaultDailyMeals("2024-01-02")
	newer.Meals[2].Note = "remote wins"
	require.NoError(t, remote.Save(ctx, "user-1", newer))

	result, err := reconciler.Push(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, structs.ReconcileResult{Scanned: 2, Inserted: 1}, result)

	got, err := remote.Find(ctx, "user-1", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, offline, got)
	got, err = remote.Find(ctx, "user-1", "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, "remote wins", got.Meals[2].Note)

	result, err = reconciler.Push(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)

	var count int
	require.NoError(t, db.Model(&models.DailyMealsRecord{}).Count(&count).Error)
	assert.Equal(t, 2, count)
}

func TestReconciler_NothingLocal(t *testing.T) {
	reconciler, _, _, _ := setup(t)
	result, err := reconciler.Push(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, structs.ReconcileResult{}, result)
}

func TestReconciler_WatchPushesOnSignIn(t *testing.T) {
	reconciler, local, remote, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, local.Save(ctx, "user-1", structs.DefaultDailyMeals("2024-01-01")))

	events := make(chan auth.Event, 2)
	events <- auth.Event{Type: enums.SignedOut, Session: auth.Session{UserID: "user-1"}}
	events <- auth.Event{Type: enums.SignedIn, Session: auth.Session{UserID: "user-1"}}
	close(events)
	reconciler.Watch(events)

	_, err := remote.Find(ctx, "user-1", "2024-01-01")
	assert.NoError(t, err)
}
