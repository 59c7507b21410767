package events

import "context"

// Repository is the event store. Identifiers are strictly increasing from 1
// on a counter independent of user identifiers.
type Repository interface {
	// Create assigns the next identifier, persists the event, and returns the
	// stored record.
	Create(ctx context.Context, event Event) (*Event, error)
	FindByID(ctx context.Context, id int64) (*Event, error)
	// List returns all events in insertion order.
	List(ctx context.Context) ([]Event, error)
	// Update replaces the stored record. Fails with ErrNotFound if absent.
	Update(ctx context.Context, event Event) (*Event, error)
	// Remove deletes the event permanently and returns the removed snapshot.
	// Fails with ErrNotFound if absent.
	Remove(ctx context.Context, id int64) (*Event, error)
}
