package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	appauth "github.com/ecoshare/backend/internal/app/auth"
	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/app/repositories/memory"
	"github.com/ecoshare/backend/internal/pkg/auth"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

func init() {
	auth.BcryptCost = 4
}

// fakeHost records uploads and deletes and can be told to fail.
type fakeHost struct {
	mu        sync.Mutex
	uploadErr error
	deleteErr error
	uploads   []imagehost.Source
	deletes   []string
}

func (h *fakeHost) Upload(_ context.Context, src imagehost.Source, folder string) (*imagehost.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.uploadErr != nil {
		return nil, h.uploadErr
	}
	id := folder + "/" + uuid.New().String() + ".png"
	h.uploads = append(h.uploads, src)
	return &imagehost.Image{URL: "https://img.test/" + id, PublicID: id}, nil
}

func (h *fakeHost) Delete(_ context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deletes = append(h.deletes, publicID)
	return h.deleteErr
}

type mockDonationRepository struct {
	mock.Mock
}

func (m *mockDonationRepository) Insert(ctx context.Context, d *models.Donation) (*models.Donation, error) {
	args := m.Called(ctx, d)
	out, _ := args.Get(0).(*models.Donation)
	return out, args.Error(1)
}

func (m *mockDonationRepository) FindAll(ctx context.Context) ([]*models.Donation, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*models.Donation)
	return out, args.Error(1)
}

func (m *mockDonationRepository) FindByStatus(ctx context.Context, status models.DonationStatus) ([]*models.Donation, error) {
	args := m.Called(ctx, status)
	out, _ := args.Get(0).([]*models.Donation)
	return out, args.Error(1)
}

func (m *mockDonationRepository) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*models.Donation)
	return out, args.Error(1)
}

func (m *mockDonationRepository) ConditionalUpdateStatus(ctx context.Context, id string, expected, next models.DonationStatus, receiverID string) (*models.Donation, error) {
	args := m.Called(ctx, id, expected, next, receiverID)
	out, _ := args.Get(0).(*models.Donation)
	return out, args.Error(1)
}

func (m *mockDonationRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var errStoreDown = errors.New("connection refused")

type fixture struct {
	repos *repositories.Repositories
	host  *fakeHost
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewRepositories()
	host := &fakeHost{}
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	return &fixture{
		repos: repos,
		host:  host,
		svc:   NewServices(repos, host, jwtSvc, appauth.NewPolicy(), zerolog.Nop()),
	}
}

func newUser(role models.RoleType) *models.User {
	return &models.User{ID: uuid.New().String(), Name: "User", Email: uuid.New().String() + "@example.com", Role: role}
}
