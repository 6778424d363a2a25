package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	pkgauth "github.com/ecoshare/backend/internal/pkg/auth"
)

// TokenValidator is the part of the JWT service the authenticator needs
type TokenValidator interface {
	ValidateAndExtractClaims(tokenString string) (*pkgauth.Claims, error)
}

// Authenticator resolves an Authorization header to a user
type Authenticator struct {
	tokens   TokenValidator
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewAuthenticator creates a new Authenticator
func NewAuthenticator(tokens TokenValidator, userRepo repositories.IUserRepository, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Authenticate verifies a "Bearer <token>" header and loads the user named by
// the token subject. The returned user never carries the password hash.
func (a *Authenticator) Authenticate(ctx context.Context, authHeader string) (*models.User, error) {
	token, err := pkgauth.ExtractBearerToken(authHeader)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError("Not authorized, no token")
	}

	claims, err := a.tokens.ValidateAndExtractClaims(token)
	if err != nil {
		if errors.Is(err, pkgauth.ErrExpiredToken) {
			return nil, apperrors.NewCustomError(apperrors.ErrTokenExpired, "Not authorized, token expired")
		}
		a.logger.Debug().Err(err).Msg("Token verification failed")
		return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Not authorized, token failed")
	}

	user, err := a.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			return nil, apperrors.NewCustomError(apperrors.ErrUserNotFound, "User not found")
		case errors.Is(err, apperrors.ErrValidationFailed):
			// A subject the store cannot parse was never issued by us.
			return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Not authorized, token failed")
		default:
			a.logger.Error().Err(err).Str("userID", claims.Subject).Msg("Failed to load user for token")
			return nil, apperrors.NewUpstreamError(err, "Failed to load user")
		}
	}

	return user.Sanitized(), nil
}
