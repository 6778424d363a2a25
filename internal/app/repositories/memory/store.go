// Package memory keeps every record in process memory. It backs tests and the
// "memory" database driver.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// Store is the shared state behind the in-memory repositories.
// The order slices keep insertion order.
type Store struct {
	mu sync.RWMutex

	users      map[string]*models.User
	userEmails map[string]string

	donations     map[string]*models.Donation
	donationOrder []string

	posts     map[string]*models.Post
	postOrder []string

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		userEmails: make(map[string]string),
		donations:  make(map[string]*models.Donation),
		posts:      make(map[string]*models.Post),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositories wires all repositories over one fresh store.
func NewRepositories() *repositories.Repositories {
	s := NewStore()
	return &repositories.Repositories{
		Driver:             "memory",
		UserRepository:     NewUserRepository(s),
		DonationRepository: NewDonationRepository(s),
		PostRepository:     NewPostRepository(s),
	}
}

func newID() string {
	return uuid.New().String()
}

// checkID rejects ids that could never have been issued by this store.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrInvalidID
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func copyUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

func copyDonation(d *models.Donation) *models.Donation {
	cp := *d
	return &cp
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	cp.Comments = copyComments(p.Comments)
	return &cp
}

func copyComments(in []models.Comment) []models.Comment {
	out := make([]models.Comment, len(in))
	copy(out, in)
	return out
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i:i], order[i+1:]...)
		}
	}
	return order
}
