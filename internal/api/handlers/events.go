package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/convene-events/server/internal/api/middleware"
	"github.com/convene-events/server/internal/api/respond"
	"github.com/convene-events/server/internal/domain/events"
	"github.com/convene-events/server/internal/domain/users"
	"github.com/convene-events/server/internal/validation"
)

type EventsHandler struct {
	Service  *events.Service
	validate *validator.Validate
}

func NewEventsHandler(service *events.Service) (*EventsHandler, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := validation.Register(v); err != nil {
		return nil, err
	}
	return &EventsHandler{Service: service, validate: v}, nil
}

type createEventRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	Date            string `json:"date" validate:"required,future_date"`
	Time            string `json:"time" validate:"required,hhmm"`
	Location        string `json:"location"`
	MaxParticipants *int   `json:"maxParticipants"`
}

type updateEventRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Date            *string `json:"date" validate:"omitempty,future_date"`
	Time            *string `json:"time" validate:"omitempty,hhmm"`
	Location        *string `json:"location"`
	MaxParticipants *int    `json:"maxParticipants"`
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	listed, err := h.Service.List(r.Context())
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	views := make([]events.View, 0, len(listed))
	for i := range listed {
		views = append(views, listed[i].Public())
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Events retrieved successfully",
		"events":  views,
		"total":   len(views),
	})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "Event not found", nil)
		return
	}

	event, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Event not found", err)
			return
		}
		respond.Internal(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Event retrieved successfully",
		"event":   event.Public(),
	})
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeEventValidationError(w, r, err)
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	event, err := h.Service.Create(r.Context(), identity, events.CreateParams{
		Name:            req.Name,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		writeEventError(w, r, err, "Only the event organizer can update this event")
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message": "Event created successfully",
		"event":   event.Public(),
	})
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "Event not found", nil)
		return
	}

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeEventValidationError(w, r, err)
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	event, err := h.Service.Update(r.Context(), identity, id, events.UpdateParams{
		Name:            req.Name,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		writeEventError(w, r, err, "Only the event organizer can update this event")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Event updated successfully",
		"event":   event.Public(),
	})
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "Event not found", nil)
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	event, err := h.Service.Delete(r.Context(), identity, id)
	if err != nil {
		writeEventError(w, r, err, "Only the event organizer can delete this event")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message":      "Event deleted successfully",
		"deletedEvent": event.Public(),
	})
}

func (h *EventsHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "Event not found", nil)
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	event, err := h.Service.Register(r.Context(), identity, id)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			respond.Error(w, r, http.StatusNotFound, "Event not found", err)
		case errors.Is(err, users.ErrUserNotFound):
			respond.Error(w, r, http.StatusNotFound, "User not found", err)
		case errors.Is(err, events.ErrAlreadyRegistered):
			respond.Error(w, r, http.StatusBadRequest, "User is already registered for this event", err)
		case errors.Is(err, events.ErrCapacityExceeded):
			respond.Error(w, r, http.StatusBadRequest, "Event is at maximum capacity", err)
		default:
			respond.Internal(w, r, err)
		}
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message": "Successfully registered for event. Confirmation email sent.",
		"event":   event.Public(),
	})
}

func eventID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeEventValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		switch {
		case first.Tag() == "required":
			respond.Error(w, r, http.StatusBadRequest, "Event name, date, and time are required", err)
		case first.Field() == "Date":
			respond.Error(w, r, http.StatusBadRequest, "Event date must be a valid future date", err)
		case first.Field() == "Time":
			respond.Error(w, r, http.StatusBadRequest, "Event time must be in HH:MM format", err)
		default:
			respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		}
		return
	}
	respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
}

func writeEventError(w http.ResponseWriter, r *http.Request, err error, ownerMessage string) {
	switch {
	case errors.Is(err, events.ErrInvalidInput):
		respond.Error(w, r, http.StatusBadRequest, "Event name, date, and time are required", err)
	case errors.Is(err, events.ErrInvalidDate):
		respond.Error(w, r, http.StatusBadRequest, "Event date must be a valid future date", err)
	case errors.Is(err, events.ErrInvalidTime):
		respond.Error(w, r, http.StatusBadRequest, "Event time must be in HH:MM format", err)
	case errors.Is(err, events.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "Event not found", err)
	case errors.Is(err, events.ErrNotOrganizer):
		respond.Error(w, r, http.StatusForbidden, "Only organizers can perform this action", err)
	case errors.Is(err, events.ErrNotOwner):
		respond.Error(w, r, http.StatusForbidden, ownerMessage, err)
	default:
		respond.Internal(w, r, err)
	}
}
