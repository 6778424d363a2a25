package repositories

import (
	"context"

	"github.com/ecoshare/backend/internal/app/models"
)

// IUserRepository defines the interface for user persistence
type IUserRepository interface {
	// Create inserts the user and returns it with its id assigned.
	// A taken email yields apperrors.ErrEmailAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// IDonationRepository defines the interface for donation persistence
type IDonationRepository interface {
	Insert(ctx context.Context, donation *models.Donation) (*models.Donation, error)
	// FindAll returns every donation in insertion order.
	FindAll(ctx context.Context) ([]*models.Donation, error)
	FindByStatus(ctx context.Context, status models.DonationStatus) ([]*models.Donation, error)
	FindByID(ctx context.Context, id string) (*models.Donation, error)
	// ConditionalUpdateStatus moves a donation from expected to next and records the
	// receiver in one atomic step. apperrors.ErrConflict when the status guard fails,
	// apperrors.ErrResourceNotFound when the donation is gone.
	ConditionalUpdateStatus(ctx context.Context, id string, expected, next models.DonationStatus, receiverID string) (*models.Donation, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// IPostRepository defines the interface for blog post persistence
type IPostRepository interface {
	Insert(ctx context.Context, post *models.Post) (*models.Post, error)
	// FindAllSorted returns posts newest first.
	FindAllSorted(ctx context.Context) ([]*models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	// AppendComment atomically appends and returns the full updated sequence.
	AppendComment(ctx context.Context, postID string, comment models.Comment) ([]models.Comment, error)
	// RemoveComment reports false when the post exists but the comment does not.
	RemoveComment(ctx context.Context, postID, commentID string) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// Repositories holds all the repository instances of one store backend
type Repositories struct {
	Driver             string
	UserRepository     IUserRepository
	DonationRepository IDonationRepository
	PostRepository     IPostRepository
	// Ping checks the backing store, nil for stores without a connection.
	Ping func(ctx context.Context) error
}

// Healthy pings the backing store when it has one.
func (r *Repositories) Healthy(ctx context.Context) error {
	if r.Ping == nil {
		return nil
	}
	return r.Ping(ctx)
}
