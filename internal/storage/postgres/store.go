// Package postgres persists accounts, events, and registrations in
// PostgreSQL. It serves the same repository interface as the in-memory
// backend; registration atomicity comes from a row lock on the event instead
// of an in-process mutex.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/convene-events/server/internal/domain/events"
	"github.com/convene-events/server/internal/domain/users"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres store: pool is nil")
	}
	return &Store{pool: pool}, nil
}

// Connect opens a pgx pool against databaseURL and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func (s *Store) Users() users.Repository {
	return &UsersRepository{pool: s.pool}
}

func (s *Store) Events() events.Repository {
	return &EventsRepository{pool: s.pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// RegisterParticipant joins a user to an event inside one transaction. The
// event row is locked FOR UPDATE so concurrent registrations serialize on the
// capacity check and cannot overshoot it.
func (s *Store) RegisterParticipant(ctx context.Context, eventID, userID int64) (*events.Event, *users.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	event, err := scanEvent(tx.QueryRow(ctx, selectEventSQL+` WHERE id = $1 FOR UPDATE`, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, events.ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock event: %w", err)
	}

	user, err := scanUser(tx.QueryRow(ctx, selectUserSQL+` WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, users.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	event.Participants, err = eventParticipants(ctx, tx, event.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := event.CheckRegistration(userID); err != nil {
		return nil, nil, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO registrations (event_id, user_id) VALUES ($1, $2)`,
		eventID, userID,
	); err != nil {
		return nil, nil, fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	event.Participants = append(event.Participants, userID)
	user.JoinedEvents = append(user.JoinedEvents, eventID)
	return event, user, nil
}

func eventParticipants(ctx context.Context, q querier, eventID int64) ([]int64, error) {
	rows, err := q.Query(ctx,
		`SELECT user_id FROM registrations WHERE event_id = $1 ORDER BY position`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	participants := []int64{}
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, userID)
	}
	return participants, rows.Err()
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
