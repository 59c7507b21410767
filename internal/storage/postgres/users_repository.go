package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/convene-events/server/internal/domain/users"
)

const selectUserSQL = `
SELECT id, email, password_hash, name, role, created_at
  FROM users`

type UsersRepository struct {
	pool *pgxpool.Pool
}

func (r *UsersRepository) Create(ctx context.Context, user users.User) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, name, role)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at
`, user.Email, user.PasswordHash, user.Name, user.Role)

	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	user.JoinedEvents = []int64{}
	return &user, nil
}

func (r *UsersRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUserSQL+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	user.JoinedEvents, err = joinedEvents(ctx, r.pool, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UsersRepository) FindByID(ctx context.Context, id int64) (*users.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUserSQL+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	user.JoinedEvents, err = joinedEvents(ctx, r.pool, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.JoinedEvents = []int64{}
	return &user, nil
}

func joinedEvents(ctx context.Context, q querier, userID int64) ([]int64, error) {
	rows, err := q.Query(ctx,
		`SELECT event_id FROM registrations WHERE user_id = $1 ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list joined events: %w", err)
	}
	defer rows.Close()

	joined := []int64{}
	for rows.Next() {
		var eventID int64
		if err := rows.Scan(&eventID); err != nil {
			return nil, fmt.Errorf("scan joined event: %w", err)
		}
		joined = append(joined, eventID)
	}
	return joined, rows.Err()
}
