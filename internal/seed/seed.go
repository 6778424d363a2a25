package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appModels "github.com/ecoshare/backend/internal/app/models"
	appRepos "github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	"github.com/ecoshare/backend/internal/pkg/auth"
)

// Admin describes the default administrator account.
type Admin struct {
	Name     string
	Email    string
	Password string
}

// CreateDefaultAdmin creates the administrator account if no user owns its email yet.
// Admins are never created through registration, so this is the only way one appears.
func CreateDefaultAdmin(ctx context.Context, userRepo appRepos.IUserRepository, admin Admin, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("Admin seed skipped: email or password not configured")
		return nil
	}

	exists, err := userRepo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking if admin user exists: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	name := strings.TrimSpace(admin.Name)
	if name == "" {
		name = "Administrator"
	}

	created, err := userRepo.Create(ctx, &appModels.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     appModels.RoleAdmin,
	})
	if err != nil {
		// Another instance may have seeded between the check and the insert.
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Str("adminID", created.ID).Msg("Default admin user created successfully")
	return nil
}
