package memory

import (
	"context"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// UserRepository is the in-memory IUserRepository.
type UserRepository struct {
	s *Store
}

// NewUserRepository creates a UserRepository over s.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, taken := r.s.userEmails[email]; taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	stored := copyUser(user)
	stored.ID = newID()
	stored.Email = email
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.s.now()
	}
	r.s.users[stored.ID] = stored
	r.s.userEmails[email] = stored.ID
	return copyUser(stored), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.userEmails[normalizeEmail(email)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(r.s.users[id]), nil
}

func (r *UserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.userEmails[normalizeEmail(email)]
	return ok, nil
}
