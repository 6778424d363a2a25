// Package services holds the business rules: input validation, authorization
// through the policy, and translation of store and image host failures.
//
// Services defined in this package:
//   - AuthService: registration, login and the current identity
//   - DonationService: create, list, claim and delete food donations
//   - BlogService: posts and their comments
//   - UploadService: standalone image uploads
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appauth "github.com/ecoshare/backend/internal/app/auth"
	"github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	"github.com/ecoshare/backend/internal/pkg/auth"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

// Services bundles every service the controllers use
type Services struct {
	AuthService     *AuthService
	DonationService *DonationService
	BlogService     *BlogService
	UploadService   *UploadService
}

// NewServices wires the services over one store backend and image host
func NewServices(
	repos *repositories.Repositories,
	host imagehost.Host,
	jwtService *auth.JWTService,
	policy *appauth.Policy,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService:     NewAuthService(repos.UserRepository, jwtService, logger.With().Str("service", "auth").Logger()),
		DonationService: NewDonationService(repos.DonationRepository, host, policy, logger.With().Str("service", "donation").Logger()),
		BlogService:     NewBlogService(repos.PostRepository, host, policy, logger.With().Str("service", "blog").Logger()),
		UploadService:   NewUploadService(host, logger.With().Str("service", "upload").Logger()),
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// storeError passes application errors through and wraps anything else as
// an upstream failure with a caller facing message.
func storeError(err error, message string) error {
	if apperrors.IsKnown(err) {
		return err
	}
	return apperrors.NewUpstreamError(err, message)
}

// lookupError maps the result of a FindByID call.
func lookupError(err error, notFound, upstream string) error {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return apperrors.NewResourceNotFoundError(notFound)
	case errors.Is(err, apperrors.ErrValidationFailed):
		return apperrors.NewCustomError(err, "Invalid id format")
	}
	return storeError(err, upstream)
}

// imageError splits image host failures into caller mistakes and upstream failures.
func imageError(err error) error {
	if errors.Is(err, imagehost.ErrInvalidImage) {
		return apperrors.NewCustomError(errors.Join(apperrors.ErrValidationFailed, err), err.Error())
	}
	return apperrors.NewUpstreamError(err, "Image upload failed")
}
