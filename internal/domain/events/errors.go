package events

import "errors"

// Error types for event lifecycle and registration operations
var (
	ErrInvalidInput = errors.New("event name, date, and time are required")
	ErrInvalidDate  = errors.New("event date must be a valid future date")
	ErrInvalidTime  = errors.New("event time must be in HH:MM format")

	ErrNotFound     = errors.New("event not found")
	ErrNotOrganizer = errors.New("only organizers can perform this action")
	ErrNotOwner     = errors.New("only the event organizer can modify this event")

	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrCapacityExceeded  = errors.New("event is at maximum capacity")
)
