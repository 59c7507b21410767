package events

import "time"

// Event is a virtual event record. Participants holds user identifiers in
// registration order; MaxParticipants is nil when attendance is unbounded.
// OrganizerName is a snapshot taken at creation and never re-derived.
type Event struct {
	ID              int64
	Name            string
	Description     string
	Date            string
	Time            string
	Location        string
	MaxParticipants *int
	OrganizerID     int64
	OrganizerName   string
	Participants    []int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// View is the public projection of an event. ParticipantCount is computed
// from the participant list at render time; the stored record never carries
// a separate count.
type View struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Location         string    `json:"location"`
	MaxParticipants  *int      `json:"maxParticipants"`
	OrganizerID      int64     `json:"organizerId"`
	Organizer        string    `json:"organizer"`
	Participants     []int64   `json:"participants"`
	ParticipantCount int       `json:"participantCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (e *Event) Public() View {
	participants := e.Participants
	if participants == nil {
		participants = []int64{}
	}
	return View{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Date:             e.Date,
		Time:             e.Time,
		Location:         e.Location,
		MaxParticipants:  e.MaxParticipants,
		OrganizerID:      e.OrganizerID,
		Organizer:        e.OrganizerName,
		Participants:     participants,
		ParticipantCount: len(e.Participants),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// IsRegistered reports whether userID already appears in the participant
// list.
func (e *Event) IsRegistered(userID int64) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// AtCapacity reports whether the event cannot take another participant.
func (e *Event) AtCapacity() bool {
	return e.MaxParticipants != nil && len(e.Participants) >= *e.MaxParticipants
}

// CheckRegistration applies the join invariants for userID against the
// current participant list. Callers must hold whatever lock makes the
// subsequent mutation atomic with this check.
func (e *Event) CheckRegistration(userID int64) error {
	if e.IsRegistered(userID) {
		return ErrAlreadyRegistered
	}
	if e.AtCapacity() {
		return ErrCapacityExceeded
	}
	return nil
}

// NormalizeCapacity maps non-positive capacities to nil, the unbounded form.
func NormalizeCapacity(max *int) *int {
	if max == nil || *max <= 0 {
		return nil
	}
	value := *max
	return &value
}
