package meal

import (
	"context"
	"testing"
	"time"

	"meal-tracker/database"
	"meal-tracker/enums"
	"meal-tracker/services/auth"
	"meal-tracker/services/storage"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OneStorePerSession(t *testing.T) {
	f := newFixture(t)
	registry := NewRegistry(f.deps)

	first := registry.Store(&auth.Session{ID: "a", UserID: "user-1"})
	again := registry.Store(&auth.Session{ID: "a", UserID: "user-1"})
	other := registry.Store(&auth.Session{ID: "b", UserID: "user-1"})

	assert.Same(t, first, again)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, registry.Len())
}

func TestRegistry_WatchDropsSignedOutSessions(t *testing.T) {
	f := newFixture(t)
	registry := NewRegistry(f.deps)
	session := &auth.Session{ID: "a", UserID: "user-1"}

	store := registry.Store(session)
	_, err := store.Load(context.Background(), "2024-01-01")
	require.NoError(t, err)
	_, err = store.Toggle(enums.Lunch)
	require.NoError(t, err)

	events := make(chan auth.Event, 2)
	events <- auth.Event{Type: enums.SignedIn, Session: *session}
	events <- auth.Event{Type: enums.SignedOut, Session: *session}
	close(events)
	registry.Watch(events)

	assert.Equal(t, 0, registry.Len())
	remote, err := f.remote.Find(context.Background(), "user-1", "2024-01-01")
	require.NoError(t, err, "pending write flushed before the store is released")
	assert.Equal(t, enums.Eaten, remote.Meals[1].Status)
}

func TestRegistry_AnonymousRequestsShareOneStore(t *testing.T) {
	f := newFixture(t)
	registry := NewRegistry(f.deps)

	first := registry.Store(nil)
	assert.Same(t, first, registry.Store(nil))
	assert.Equal(t, "", first.userID())
}

func TestRegistry_ExpiredTokenReleasesStore(t *testing.T) {
	db, err := database.NewMemory()
	require.NoError(t, err)
	defer db.Close()
	logger, _ := test.NewNullLogger()
	provider, err := auth.NewService(db, "test-secret", time.Millisecond, logger)
	require.NoError(t, err)

	f := newFixture(t)
	registry := NewRegistry(f.deps)
	events, unsubscribe := provider.Subscribe()
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		registry.Watch(events)
	}()

	ctx := context.Background()
	_, err = provider.SignUp(ctx, "duru@example.com", "selimm", "")
	require.NoError(t, err)
	session, token, err := provider.SignIn(ctx, "duru@example.com", "selimm")
	require.NoError(t, err)
	_, err = registry.Store(session).Load(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Equal(t, 1, registry.Len())

	time.Sleep(10 * time.Millisecond)
	_, err = provider.Resolve(ctx, token)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)

	assert.Eventually(t, func() bool { return registry.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, provider.Sessions())
	unsubscribe()
	<-watched
}

func TestRegistry_DeviceStoresAreSeparate(t *testing.T) {
	f := newFixture(t)
	registry := NewRegistry(f.deps)
	ctx := context.Background()

	phone, err := registry.Device("phone-1")
	require.NoError(t, err)
	again, err := registry.Device("phone-1")
	require.NoError(t, err)
	assert.Same(t, phone, again)
	tablet, err := registry.Device("tablet-1")
	require.NoError(t, err)
	assert.NotSame(t, phone, tablet)
	assert.NotSame(t, phone, registry.Store(nil))

	_, err = phone.Load(ctx, "2024-01-01")
	require.NoError(t, err)
	_, err = phone.Toggle(enums.Breakfast)
	require.NoError(t, err)
	phone.Wait()

	day, err := tablet.Load(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, enums.NotEaten, day.Meals[0].Status)
	stored, err := f.local.Find(ctx, storage.DeviceKey("phone-1"), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, enums.Eaten, stored.Meals[0].Status)
	assert.Equal(t, 0, f.remote.saves, "device stores never write remotely")

	_, err = registry.Device("../other")
	assert.ErrorIs(t, err, ErrInvalidDevice)
}
