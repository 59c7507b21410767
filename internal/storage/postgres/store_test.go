package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/convene-events/server/internal/domain/events"
	"github.com/convene-events/server/internal/domain/users"
	"github.com/convene-events/server/internal/storage/postgres"
)

func setupStore(t *testing.T) (*postgres.Store, context.Context) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("convene"),
		tcpostgres.WithUsername("convene"),
		tcpostgres.WithPassword("convene_test"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.MigrateUp(dbURL))

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store, err := postgres.NewStore(pool)
	require.NoError(t, err)
	return store, ctx
}

func seedUser(t *testing.T, store *postgres.Store, ctx context.Context, email string) *users.User {
	t.Helper()
	user, err := store.Users().Create(ctx, users.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         "attendee",
	})
	require.NoError(t, err)
	return user
}

func seedEvent(t *testing.T, store *postgres.Store, ctx context.Context, organizerID int64, capacity *int) *events.Event {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	event, err := store.Events().Create(ctx, events.Event{
		Name:            "Launch",
		Description:     "All welcome",
		Date:            "2031-05-01",
		Time:            "19:00",
		Location:        "Online",
		MaxParticipants: capacity,
		OrganizerID:     organizerID,
		OrganizerName:   "Org",
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	return event
}

func TestUsersRoundTrip(t *testing.T) {
	store, ctx := setupStore(t)

	created := seedUser(t, store, ctx, "ana@example.com")
	require.Equal(t, int64(1), created.ID)
	require.False(t, created.CreatedAt.IsZero())

	_, err := store.Users().Create(ctx, users.User{
		Email:        "ana@example.com",
		PasswordHash: "other",
		Name:         "Dup",
		Role:         "attendee",
	})
	require.ErrorIs(t, err, users.ErrEmailTaken)

	byEmail, err := store.Users().FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)
	require.Empty(t, byEmail.JoinedEvents)

	_, err = store.Users().FindByID(ctx, 999)
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestEventsRoundTrip(t *testing.T) {
	store, ctx := setupStore(t)
	organizer := seedUser(t, store, ctx, "org@example.com")

	created := seedEvent(t, store, ctx, organizer.ID, nil)
	require.Equal(t, int64(1), created.ID)
	require.Nil(t, created.MaxParticipants)

	found, err := store.Events().FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Launch", found.Name)
	require.Empty(t, found.Participants)

	found.Location = "Berlin"
	found.UpdatedAt = found.UpdatedAt.Add(time.Second)
	updated, err := store.Events().Update(ctx, *found)
	require.NoError(t, err)
	require.Equal(t, "Berlin", updated.Location)

	listed, err := store.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	removed, err := store.Events().Remove(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, removed.ID)

	_, err = store.Events().FindByID(ctx, created.ID)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestRegisterParticipant(t *testing.T) {
	store, ctx := setupStore(t)
	organizer := seedUser(t, store, ctx, "org@example.com")
	fan := seedUser(t, store, ctx, "fan@example.com")
	late := seedUser(t, store, ctx, "late@example.com")

	capacity := 1
	event := seedEvent(t, store, ctx, organizer.ID, &capacity)

	joined, user, err := store.RegisterParticipant(ctx, event.ID, fan.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{fan.ID}, joined.Participants)
	require.Equal(t, []int64{event.ID}, user.JoinedEvents)

	_, _, err = store.RegisterParticipant(ctx, event.ID, fan.ID)
	require.ErrorIs(t, err, events.ErrAlreadyRegistered)

	_, _, err = store.RegisterParticipant(ctx, event.ID, late.ID)
	require.ErrorIs(t, err, events.ErrCapacityExceeded)

	_, _, err = store.RegisterParticipant(ctx, 999, fan.ID)
	require.ErrorIs(t, err, events.ErrNotFound)

	_, _, err = store.RegisterParticipant(ctx, event.ID, 999)
	require.ErrorIs(t, err, users.ErrUserNotFound)

	reloaded, err := store.Users().FindByID(ctx, fan.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{event.ID}, reloaded.JoinedEvents)

	// Deleting the event cascades its registrations.
	_, err = store.Events().Remove(ctx, event.ID)
	require.NoError(t, err)
	reloaded, err = store.Users().FindByID(ctx, fan.ID)
	require.NoError(t, err)
	require.Empty(t, reloaded.JoinedEvents)
}
