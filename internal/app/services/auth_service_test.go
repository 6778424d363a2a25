package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	reg, err := f.svc.AuthService.Register(context.Background(), &dto.RegisterRequest{
		Name: "Jane", Email: "Jane@Example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", reg.User.Email)
	assert.Equal(t, string(models.RoleUser), reg.User.Role)
	assert.Equal(t, "Bearer", reg.Token.TokenType)
	assert.NotEmpty(t, reg.Token.AccessToken)

	stored, err := f.repos.UserRepository.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)

	login, err := f.svc.AuthService.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	req := &dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"}

	_, err := f.svc.AuthService.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.AuthService.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AuthService.Register(context.Background(), &dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.AuthService.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.AuthService.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture(t)
	u := newUser(models.RoleAdmin)

	me, err := f.svc.AuthService.Me(u)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
	assert.Equal(t, "admin", me.Role)

	_, err = f.svc.AuthService.Me(nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestUploadService_UploadImage(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.UploadService.UploadImage(context.Background(),
		imagehost.Source{Reader: bytes.NewReader([]byte("png")), Filename: "a.png", Size: 3})
	require.NoError(t, err)
	assert.Contains(t, res.ImageURL, "https://img.test/uploads/")

	f.host.uploadErr = imagehost.ErrInvalidImage
	_, err = f.svc.UploadService.UploadImage(context.Background(), imagehost.Source{Filename: "a.gif"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
