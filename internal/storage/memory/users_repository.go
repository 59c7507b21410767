package memory

import (
	"context"
	"sync"
	"time"

	"github.com/convene-events/server/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

// UserRepository holds user records in memory. Identifiers are issued from a
// strictly increasing counter starting at 1 and are never reused; records are
// never removed.
type UserRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*users.User
	// byEmail enforces email uniqueness; emails are compared exactly as stored.
	byEmail map[string]*users.User
}

func newUserRepository() *UserRepository {
	return &UserRepository{
		nextID:  1,
		byID:    make(map[int64]*users.User),
		byEmail: make(map[string]*users.User),
	}
}

func (r *UserRepository) Create(_ context.Context, user users.User) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, users.ErrEmailTaken
	}

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.JoinedEvents == nil {
		user.JoinedEvents = []int64{}
	}

	stored := cloneUser(&user)
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// cloneUser copies a record so callers never share slices with stored state.
func cloneUser(user *users.User) *users.User {
	copied := *user
	copied.JoinedEvents = append([]int64(nil), user.JoinedEvents...)
	if copied.JoinedEvents == nil {
		copied.JoinedEvents = []int64{}
	}
	return &copied
}
