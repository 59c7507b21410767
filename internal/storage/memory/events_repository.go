package memory

import (
	"context"
	"sync"
	"time"

	"github.com/convene-events/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

// EventRepository holds event records in memory. The identifier counter is
// independent of the user counter and follows the same monotonic contract;
// order preserves insertion for listing.
type EventRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*events.Event
	order  []int64
}

func newEventRepository() *EventRepository {
	return &EventRepository{
		nextID: 1,
		items:  make(map[int64]*events.Event),
	}
}

func (r *EventRepository) Create(_ context.Context, event events.Event) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = r.nextID
	r.nextID++
	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = event.CreatedAt
	}
	if event.Participants == nil {
		event.Participants = []int64{}
	}

	stored := cloneEvent(&event)
	r.items[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return cloneEvent(stored), nil
}

func (r *EventRepository) FindByID(_ context.Context, id int64) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.items[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	return cloneEvent(event), nil
}

func (r *EventRepository) List(_ context.Context) ([]events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listed := make([]events.Event, 0, len(r.order))
	for _, id := range r.order {
		if event, ok := r.items[id]; ok {
			listed = append(listed, *cloneEvent(event))
		}
	}
	return listed, nil
}

func (r *EventRepository) Update(_ context.Context, event events.Event) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[event.ID]
	if !ok {
		return nil, events.ErrNotFound
	}

	// Participant membership is owned by the registration path; an update
	// never rewrites it.
	event.Participants = stored.Participants
	updated := cloneEvent(&event)
	r.items[event.ID] = updated
	return cloneEvent(updated), nil
}

func (r *EventRepository) Remove(_ context.Context, id int64) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.items[id]
	if !ok {
		return nil, events.ErrNotFound
	}

	delete(r.items, id)
	for i, orderedID := range r.order {
		if orderedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return cloneEvent(event), nil
}

// cloneEvent copies a record so callers never share slices with stored state.
func cloneEvent(event *events.Event) *events.Event {
	copied := *event
	copied.Participants = append([]int64(nil), event.Participants...)
	if copied.Participants == nil {
		copied.Participants = []int64{}
	}
	if event.MaxParticipants != nil {
		max := *event.MaxParticipants
		copied.MaxParticipants = &max
	}
	return &copied
}
