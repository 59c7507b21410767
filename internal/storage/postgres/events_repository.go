package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/convene-events/server/internal/domain/events"
)

const selectEventSQL = `
SELECT id, name, description, event_date, event_time, location,
       max_participants, organizer_id, organizer_name, created_at, updated_at
  FROM events`

type EventsRepository struct {
	pool *pgxpool.Pool
}

func (r *EventsRepository) Create(ctx context.Context, event events.Event) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO events (name, description, event_date, event_time, location,
                    max_participants, organizer_id, organizer_name,
                    created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id
`,
		event.Name, event.Description, event.Date, event.Time, event.Location,
		event.MaxParticipants, event.OrganizerID, event.OrganizerName,
		event.CreatedAt, event.UpdatedAt,
	)
	if err := row.Scan(&event.ID); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	event.Participants = []int64{}
	return &event, nil
}

func (r *EventsRepository) FindByID(ctx context.Context, id int64) (*events.Event, error) {
	event, err := scanEvent(r.pool.QueryRow(ctx, selectEventSQL+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	event.Participants, err = eventParticipants(ctx, r.pool, event.ID)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventsRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, selectEventSQL+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	listed := []events.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		listed = append(listed, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	participants, err := allParticipants(ctx, r.pool)
	if err != nil {
		return nil, err
	}
	for i := range listed {
		if ids, ok := participants[listed[i].ID]; ok {
			listed[i].Participants = ids
		}
	}
	return listed, nil
}

func (r *EventsRepository) Update(ctx context.Context, event events.Event) (*events.Event, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE events
   SET name = $2, description = $3, event_date = $4, event_time = $5,
       location = $6, max_participants = $7, updated_at = $8
 WHERE id = $1
`,
		event.ID, event.Name, event.Description, event.Date, event.Time,
		event.Location, event.MaxParticipants, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, events.ErrNotFound
	}
	return r.FindByID(ctx, event.ID)
}

func (r *EventsRepository) Remove(ctx context.Context, id int64) (*events.Event, error) {
	removed, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Registrations go with the event via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, events.ErrNotFound
	}
	return removed, nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Date,
		&event.Time,
		&event.Location,
		&event.MaxParticipants,
		&event.OrganizerID,
		&event.OrganizerName,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	event.Participants = []int64{}
	return &event, nil
}

func allParticipants(ctx context.Context, q querier) (map[int64][]int64, error) {
	rows, err := q.Query(ctx,
		`SELECT event_id, user_id FROM registrations ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	byEvent := map[int64][]int64{}
	for rows.Next() {
		var eventID, userID int64
		if err := rows.Scan(&eventID, &userID); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		byEvent[eventID] = append(byEvent[eventID], userID)
	}
	return byEvent, rows.Err()
}
