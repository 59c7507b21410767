package events

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/convene-events/server/internal/auth"
	"github.com/convene-events/server/internal/domain/users"
	"github.com/convene-events/server/internal/metrics"
	"github.com/convene-events/server/internal/sanitize"
	"github.com/convene-events/server/internal/validation"
)

// Registrar applies a participant registration atomically: the duplicate and
// capacity checks, the append to the event's participant list, and the append
// to the user's joined-events list happen together or not at all.
type Registrar interface {
	RegisterParticipant(ctx context.Context, eventID, userID int64) (*Event, *users.User, error)
}

// Notifier dispatches registration confirmations off the request path.
// Delivery is best effort; implementations must never block the caller.
type Notifier interface {
	EventRegistration(email, name, eventName string)
}

// Service implements the event lifecycle and the registration workflow.
type Service struct {
	repo      Repository
	registrar Registrar
	notifier  Notifier
	logger    zerolog.Logger
}

func NewService(repo Repository, registrar Registrar, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		registrar: registrar,
		notifier:  notifier,
		logger:    logger.With().Str("component", "events").Logger(),
	}
}

// CreateParams contains the fields accepted when creating an event.
type CreateParams struct {
	Name            string
	Description     string
	Date            string
	Time            string
	Location        string
	MaxParticipants *int
}

// UpdateParams is a partial update. Nil means "not provided"; description,
// location, and maxParticipants provided as zero values are still applied.
type UpdateParams struct {
	Name            *string
	Description     *string
	Date            *string
	Time            *string
	Location        *string
	MaxParticipants *int
}

// Create stores a new event owned by the identity. The organizer's name is
// snapshotted on the record.
func (s *Service) Create(ctx context.Context, identity *auth.Identity, params CreateParams) (*Event, error) {
	if !auth.IsOrganizer(identity) {
		return nil, ErrNotOrganizer
	}
	if params.Name == "" || params.Date == "" || params.Time == "" {
		return nil, ErrInvalidInput
	}
	if !validation.FutureDate(params.Date) {
		return nil, ErrInvalidDate
	}
	if !validation.ClockTime(params.Time) {
		return nil, ErrInvalidTime
	}

	now := time.Now()
	event, err := s.repo.Create(ctx, Event{
		Name:            sanitize.Text(params.Name),
		Description:     sanitize.HTML(params.Description),
		Date:            params.Date,
		Time:            params.Time,
		Location:        sanitize.Text(params.Location),
		MaxParticipants: NormalizeCapacity(params.MaxParticipants),
		OrganizerID:     identity.UserID,
		OrganizerName:   identity.Name,
		Participants:    []int64{},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	metrics.EventsCreated.Inc()
	s.logger.Info().Int64("event_id", event.ID).Int64("organizer_id", identity.UserID).Msg("event created")
	return event, nil
}

// Get returns a single event.
func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all events in insertion order.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

// Update applies the supplied fields to an event owned by the identity and
// stamps UpdatedAt strictly later than its previous value.
func (s *Service) Update(ctx context.Context, identity *auth.Identity, id int64, params UpdateParams) (*Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanManageEvent(identity, event.OrganizerID) {
		return nil, ErrNotOwner
	}

	if params.Date != nil && *params.Date != "" && !validation.FutureDate(*params.Date) {
		return nil, ErrInvalidDate
	}
	if params.Time != nil && *params.Time != "" && !validation.ClockTime(*params.Time) {
		return nil, ErrInvalidTime
	}

	if params.Name != nil && *params.Name != "" {
		event.Name = sanitize.Text(*params.Name)
	}
	if params.Description != nil {
		event.Description = sanitize.HTML(*params.Description)
	}
	if params.Date != nil && *params.Date != "" {
		event.Date = *params.Date
	}
	if params.Time != nil && *params.Time != "" {
		event.Time = *params.Time
	}
	if params.Location != nil {
		event.Location = sanitize.Text(*params.Location)
	}
	if params.MaxParticipants != nil {
		event.MaxParticipants = NormalizeCapacity(params.MaxParticipants)
	}

	now := time.Now()
	if !now.After(event.UpdatedAt) {
		now = event.UpdatedAt.Add(time.Nanosecond)
	}
	event.UpdatedAt = now

	updated, err := s.repo.Update(ctx, *event)
	if err != nil {
		return nil, err
	}

	metrics.EventsUpdated.Inc()
	s.logger.Info().Int64("event_id", updated.ID).Msg("event updated")
	return updated, nil
}

// Delete removes an event owned by the identity and returns the removed
// snapshot. Deletion is permanent.
func (s *Service) Delete(ctx context.Context, identity *auth.Identity, id int64) (*Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanManageEvent(identity, event.OrganizerID) {
		return nil, ErrNotOwner
	}

	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.EventsDeleted.Inc()
	s.logger.Info().Int64("event_id", removed.ID).Msg("event deleted")
	return removed, nil
}

// Register joins the identity to an event. The two-sided update is applied
// atomically by the registrar; the confirmation notification is dispatched
// only after the state change commits and never affects the result.
func (s *Service) Register(ctx context.Context, identity *auth.Identity, eventID int64) (*Event, error) {
	if identity == nil {
		return nil, ErrNotFound
	}

	event, user, err := s.registrar.RegisterParticipant(ctx, eventID, identity.UserID)
	if err != nil {
		return nil, err
	}

	metrics.EventRegistrations.Inc()
	s.logger.Info().
		Int64("event_id", event.ID).
		Int64("user_id", user.ID).
		Int("participants", len(event.Participants)).
		Msg("participant registered")

	s.notifier.EventRegistration(user.Email, user.Name, event.Name)
	return event, nil
}
