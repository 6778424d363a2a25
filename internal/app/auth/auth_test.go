package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/repositories/memory"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	pkgauth "github.com/ecoshare/backend/internal/pkg/auth"
)

const testSecret = "test-secret"

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestPolicy_CanPerform(t *testing.T) {
	p := NewPolicy()
	donor := &models.User{ID: "u1", Role: models.RoleUser}
	other := &models.User{ID: "u2", Role: models.RoleUser}
	admin := &models.User{ID: "u9", Role: models.RoleAdmin}

	available := &models.Donation{ID: "d1", DonorID: "u1", Status: models.DonationAvailable}
	claimed := &models.Donation{ID: "d1", DonorID: "u1", ReceiverID: "u2", Status: models.DonationClaimed}
	post := &models.Post{ID: "p1", AuthorID: "u1"}
	comment := &models.Comment{ID: "c1", UserID: "u2"}

	tests := []struct {
		name     string
		actor    *models.User
		action   Action
		resource any
		want     bool
	}{
		{"others may claim", other, ActionClaimDonation, available, true},
		{"donor may not claim own", donor, ActionClaimDonation, available, false},
		{"donor may not claim own even when claimed", donor, ActionClaimDonation, claimed, false},
		{"donor deletes available", donor, ActionDeleteDonation, available, true},
		{"donor deletes claimed", donor, ActionDeleteDonation, claimed, true},
		{"others may not delete donation", other, ActionDeleteDonation, available, false},
		{"admin may not delete donation", admin, ActionDeleteDonation, available, false},
		{"author deletes post", donor, ActionDeletePost, post, true},
		{"admin deletes post", admin, ActionDeletePost, post, true},
		{"others may not delete post", other, ActionDeletePost, post, false},
		{"comment author deletes", other, ActionDeleteComment, comment, true},
		{"post author may not delete comment", donor, ActionDeleteComment, comment, false},
		{"admin may not delete comment", admin, ActionDeleteComment, comment, false},
		{"nil actor", nil, ActionClaimDonation, available, false},
		{"wrong resource type", other, ActionClaimDonation, post, false},
		{"unknown action", admin, Action("publish"), post, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanPerform(tt.actor, tt.action, tt.resource))
		})
	}
}

func TestPolicy_Authorize(t *testing.T) {
	p := NewPolicy()
	d := &models.Donation{DonorID: "u1"}

	assert.NoError(t, p.Authorize(&models.User{ID: "u2"}, ActionClaimDonation, d))

	err := p.Authorize(&models.User{ID: "u1"}, ActionClaimDonation, d)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "You cannot claim your own donation", err.Error())
}

func newAuthenticatorFixture(t *testing.T) (*Authenticator, *pkgauth.JWTService, *models.User) {
	t.Helper()
	pkgauth.BcryptCost = 4
	repos := memory.NewRepositories()
	user, err := repos.UserRepository.Create(context.Background(), &models.User{
		Name: "Jane", Email: "jane@example.com", Password: "hash", Role: models.RoleUser,
	})
	require.NoError(t, err)

	jwtSvc := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: testSecret, AccessTokenExp: time.Hour, TokenIssuer: "test"})
	return NewAuthenticator(jwtSvc, repos.UserRepository, zerolog.Nop()), jwtSvc, user
}

func TestAuthenticator_Success(t *testing.T) {
	a, jwtSvc, user := newAuthenticatorFixture(t)
	token, _, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)

	got, err := a.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Empty(t, got.Password)
}

func TestAuthenticator_Failures(t *testing.T) {
	a, _, user := newAuthenticatorFixture(t)

	expiredSvc := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: testSecret, AccessTokenExp: -time.Hour})
	expired, _, err := expiredSvc.GenerateAccessToken(user)
	require.NoError(t, err)

	otherSecret := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	forged, _, err := otherSecret.GenerateAccessToken(user)
	require.NoError(t, err)

	goodSvc := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: testSecret, AccessTokenExp: time.Hour})
	ghost, _, err := goodSvc.GenerateAccessToken(&models.User{ID: "7d6c5b4a-3928-4716-a5b4-c3d2e1f00112"})
	require.NoError(t, err)
	noSubject, _, err := goodSvc.GenerateAccessToken(&models.User{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"missing header", "", apperrors.ErrUnauthenticated},
		{"wrong scheme", "Token " + forged, apperrors.ErrUnauthenticated},
		{"bad signature", "Bearer " + forged, apperrors.ErrTokenInvalid},
		{"garbage", "Bearer not-a-jwt", apperrors.ErrTokenInvalid},
		{"expired", "Bearer " + expired, apperrors.ErrTokenExpired},
		{"no subject", "Bearer " + noSubject, apperrors.ErrTokenInvalid},
		{"unknown user", "Bearer " + ghost, apperrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tt.header)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthenticator_ExpiredIsInvalidToken(t *testing.T) {
	assert.ErrorIs(t, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid)
}

func TestAuthenticator_StoreFailure(t *testing.T) {
	repo := new(mockUserRepository)
	jwtSvc := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: testSecret, AccessTokenExp: time.Hour})
	a := NewAuthenticator(jwtSvc, repo, zerolog.Nop())

	token, _, err := jwtSvc.GenerateAccessToken(&models.User{ID: "u1"})
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, "u1").Return(nil, errors.New("connection reset"))

	_, err = a.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamFailure)
	repo.AssertExpectations(t)
}
