package storage

import (
	"context"

	"github.com/convene-events/server/internal/domain/events"
	"github.com/convene-events/server/internal/domain/users"
)

// Repository groups data access by domain. The same interface is served by
// the in-memory backend (the default) and the postgres backend.
type Repository interface {
	Users() users.Repository
	Events() events.Repository

	// RegisterParticipant joins userID to eventID atomically: the duplicate
	// and capacity checks, the append to the event's participant list, and
	// the append to the user's joined-events list are applied together or
	// not at all. Concurrent registrations for the same event must not
	// overshoot its capacity.
	RegisterParticipant(ctx context.Context, eventID, userID int64) (*events.Event, *users.User, error)
}
