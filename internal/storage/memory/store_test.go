package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/convene-events/server/internal/domain/events"
	"github.com/convene-events/server/internal/domain/users"
)

func TestUserIDsAreMonotonic(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		user, err := store.Users().Create(ctx, users.User{
			Email: fmt.Sprintf("user%d@example.com", i),
			Name:  "User",
			Role:  "attendee",
		})
		require.NoError(t, err)
		require.Equal(t, int64(i), user.ID)
	}
}

func TestUserEmailUniqueness(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Users().Create(ctx, users.User{Email: "dup@example.com", Name: "First", Role: "attendee"})
	require.NoError(t, err)

	_, err = store.Users().Create(ctx, users.User{Email: "dup@example.com", Name: "Second", Role: "organizer"})
	require.ErrorIs(t, err, users.ErrEmailTaken)

	// Emails are compared exactly as stored.
	_, err = store.Users().Create(ctx, users.User{Email: "Dup@example.com", Name: "Third", Role: "attendee"})
	require.NoError(t, err)
}

func TestUserLookups(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Users().Create(ctx, users.User{Email: "ana@example.com", Name: "Ana", Role: "organizer"})
	require.NoError(t, err)

	byEmail, err := store.Users().FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byID, err := store.Users().FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", byID.Name)

	_, err = store.Users().FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, users.ErrUserNotFound)
	_, err = store.Users().FindByID(ctx, 99)
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestEventIDsIndependentOfUserIDs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Users().Create(ctx, users.User{Email: "a@example.com", Name: "A", Role: "attendee"})
	require.NoError(t, err)

	event, err := store.Events().Create(ctx, events.Event{Name: "Kickoff", Date: "2030-01-01", Time: "10:00", OrganizerID: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), event.ID)

	second, err := store.Events().Create(ctx, events.Event{Name: "Retro", Date: "2030-01-02", Time: "11:00", OrganizerID: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)
}

func TestEventListInsertionOrderAndRemove(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := store.Events().Create(ctx, events.Event{Name: name, Date: "2030-01-01", Time: "10:00", OrganizerID: 1})
		require.NoError(t, err)
	}

	removed, err := store.Events().Remove(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "second", removed.Name)

	listed, err := store.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "first", listed[0].Name)
	require.Equal(t, "third", listed[1].Name)

	_, err = store.Events().Remove(ctx, 2)
	require.ErrorIs(t, err, events.ErrNotFound)

	// Removed identifiers are never reused.
	again, err := store.Events().Create(ctx, events.Event{Name: "fourth", Date: "2030-01-01", Time: "10:00", OrganizerID: 1})
	require.NoError(t, err)
	require.Equal(t, int64(4), again.ID)
}

func TestUpdatePreservesParticipants(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user, err := store.Users().Create(ctx, users.User{Email: "p@example.com", Name: "P", Role: "attendee"})
	require.NoError(t, err)
	event, err := store.Events().Create(ctx, events.Event{Name: "Demo", Date: "2030-01-01", Time: "10:00", OrganizerID: 1})
	require.NoError(t, err)

	_, _, err = store.RegisterParticipant(ctx, event.ID, user.ID)
	require.NoError(t, err)

	event.Name = "Demo Day"
	event.Participants = nil
	updated, err := store.Events().Update(ctx, *event)
	require.NoError(t, err)
	require.Equal(t, "Demo Day", updated.Name)
	require.Equal(t, []int64{user.ID}, updated.Participants)
}

func TestRegisterParticipant(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user, err := store.Users().Create(ctx, users.User{Email: "ana@example.com", Name: "Ana", Role: "attendee"})
	require.NoError(t, err)
	event, err := store.Events().Create(ctx, events.Event{Name: "Demo", Date: "2030-01-01", Time: "10:00", OrganizerID: 1})
	require.NoError(t, err)

	updatedEvent, updatedUser, err := store.RegisterParticipant(ctx, event.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{user.ID}, updatedEvent.Participants)
	require.Equal(t, []int64{event.ID}, updatedUser.JoinedEvents)

	// Second attempt by the same user fails and changes nothing.
	_, _, err = store.RegisterParticipant(ctx, event.ID, user.ID)
	require.ErrorIs(t, err, events.ErrAlreadyRegistered)

	current, err := store.Events().FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, current.Participants, 1)
}

func TestRegisterParticipantNotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user, err := store.Users().Create(ctx, users.User{Email: "ana@example.com", Name: "Ana", Role: "attendee"})
	require.NoError(t, err)

	_, _, err = store.RegisterParticipant(ctx, 42, user.ID)
	require.ErrorIs(t, err, events.ErrNotFound)

	event, err := store.Events().Create(ctx, events.Event{Name: "Demo", Date: "2030-01-01", Time: "10:00", OrganizerID: 1})
	require.NoError(t, err)

	_, _, err = store.RegisterParticipant(ctx, event.ID, 42)
	require.ErrorIs(t, err, users.ErrUserNotFound)

	// A missing user must not leave a half-applied registration behind.
	current, err := store.Events().FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Empty(t, current.Participants)
}

func TestRegisterParticipantCapacity(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first, err := store.Users().Create(ctx, users.User{Email: "a@example.com", Name: "A", Role: "attendee"})
	require.NoError(t, err)
	second, err := store.Users().Create(ctx, users.User{Email: "b@example.com", Name: "B", Role: "attendee"})
	require.NoError(t, err)

	one := 1
	event, err := store.Events().Create(ctx, events.Event{Name: "Tiny", Date: "2030-01-01", Time: "10:00", OrganizerID: 1, MaxParticipants: &one})
	require.NoError(t, err)

	updated, _, err := store.RegisterParticipant(ctx, event.ID, first.ID)
	require.NoError(t, err)
	require.Len(t, updated.Participants, 1)

	_, _, err = store.RegisterParticipant(ctx, event.ID, second.ID)
	require.ErrorIs(t, err, events.ErrCapacityExceeded)
}

func TestConcurrentRegistrationsNeverOvershootCapacity(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const attendees = 20
	capacity := 5

	for i := 0; i < attendees; i++ {
		_, err := store.Users().Create(ctx, users.User{
			Email: fmt.Sprintf("u%d@example.com", i),
			Name:  "U",
			Role:  "attendee",
		})
		require.NoError(t, err)
	}
	event, err := store.Events().Create(ctx, events.Event{Name: "Popular", Date: "2030-01-01", Time: "10:00", OrganizerID: 1, MaxParticipants: &capacity})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, attendees)
	for i := 0; i < attendees; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, errs[n] = store.RegisterParticipant(ctx, event.ID, int64(n+1))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, events.ErrCapacityExceeded)
		}
	}
	require.Equal(t, capacity, succeeded)

	current, err := store.Events().FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, current.Participants, capacity)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	event, err := store.Events().Create(ctx, events.Event{Name: "Demo", Date: "2030-01-01", Time: "10:00", OrganizerID: 1})
	require.NoError(t, err)

	event.Participants = append(event.Participants, 99)
	current, err := store.Events().FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Empty(t, current.Participants)
}
