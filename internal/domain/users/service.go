package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/convene-events/server/internal/auth"
	"github.com/convene-events/server/internal/metrics"
	"github.com/convene-events/server/internal/sanitize"
	"github.com/convene-events/server/internal/validation"
)

// BcryptCost is the cost factor for bcrypt password hashing.
const BcryptCost = 10

// Notifier dispatches account notifications off the request path. Delivery is
// best effort; implementations must never block the caller.
type Notifier interface {
	Welcome(email, name string)
}

// Service handles account registration and login.
type Service struct {
	repo     Repository
	tokens   *auth.JWTManager
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(repo Repository, tokens *auth.JWTManager, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger.With().Str("component", "users").Logger(),
	}
}

// RegisterParams contains parameters for creating a new account.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Register creates a new account. The organizer role is granted only when
// explicitly requested; everything else registers as an attendee.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if params.Email == "" || params.Password == "" || params.Name == "" {
		return nil, ErrInvalidInput
	}
	if !validation.Email(params.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.Password(params.Password) {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, User{
		Email:        params.Email,
		PasswordHash: string(hash),
		Name:         sanitize.Text(params.Name),
		Role:         string(auth.NormalizeRole(params.Role)),
	})
	if err != nil {
		return nil, err
	}

	metrics.UsersRegistered.Inc()
	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	s.notifier.Welcome(user.Email, user.Name)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Role, user.Name)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Get returns a user by identifier.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
