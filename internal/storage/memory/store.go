// Package memory provides the process-local storage backend. Each store is
// guarded by its own mutex; cross-store registration takes both locks in a
// fixed order so the check-then-act sequence is atomic.
package memory

import (
	"context"

	"github.com/convene-events/server/internal/domain/events"
	"github.com/convene-events/server/internal/domain/users"
	"github.com/convene-events/server/internal/storage"
)

var _ storage.Repository = (*Store)(nil)

type Store struct {
	users  *UserRepository
	events *EventRepository
}

func NewStore() *Store {
	return &Store{
		users:  newUserRepository(),
		events: newEventRepository(),
	}
}

func (s *Store) Users() users.Repository { return s.users }

func (s *Store) Events() events.Repository { return s.events }

// RegisterParticipant holds the event lock across check and mutation, so two
// concurrent joins cannot both pass the capacity check. Lock order is always
// events before users; nothing else acquires both.
func (s *Store) RegisterParticipant(_ context.Context, eventID, userID int64) (*events.Event, *users.User, error) {
	s.events.mu.Lock()
	defer s.events.mu.Unlock()

	event, ok := s.events.items[eventID]
	if !ok {
		return nil, nil, events.ErrNotFound
	}

	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	user, ok := s.users.byID[userID]
	if !ok {
		return nil, nil, users.ErrUserNotFound
	}

	if err := event.CheckRegistration(userID); err != nil {
		return nil, nil, err
	}

	event.Participants = append(event.Participants, userID)
	user.JoinedEvents = append(user.JoinedEvents, eventID)

	return cloneEvent(event), cloneUser(user), nil
}
