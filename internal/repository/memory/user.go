package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if r.conflicts(user) {
		return repository.ErrDuplicate
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	return nil
}

// conflicts reports whether another user already owns user's username or
// email. Caller holds the lock.
func (r *UserRepository) conflicts(user *models.User) bool {
	for id, existing := range r.store.users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(existing.Username, user.Username) || existing.Email == user.Email {
			return true
		}
	}
	return false
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if strings.EqualFold(user.Username, username) {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	if username == "" && email == "" {
		return nil, nil
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if (username != "" && strings.EqualFold(user.Username, username)) || (email != "" && user.Email == email) {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.conflicts(user) {
		return repository.ErrDuplicate
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = *user
	return nil
}
