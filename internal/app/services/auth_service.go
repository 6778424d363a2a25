package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	"github.com/ecoshare/backend/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (s *AuthService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to sign access token")
		return nil, err
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}

// Register creates a regular user account and signs a token for it
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if blank(req.Name) || email == "" {
		return nil, apperrors.NewValidationError("Name and email are required")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.NewValidationError("Password must be at least 6 characters long")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to check email availability")
		return nil, storeError(err, "Failed to register user")
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Role:     models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists")
		}
		s.logger.Error().Err(err).Msg("Failed to create user")
		return nil, storeError(err, "Failed to register user")
	}

	s.logger.Info().Str("userID", user.ID).Msg("User registered")
	return s.issue(user)
}

// Login verifies credentials and signs a token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")
		}
		s.logger.Error().Err(err).Msg("Failed to load user for login")
		return nil, storeError(err, "Failed to log in")
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")
	}

	return s.issue(user)
}

// Me returns the public view of the authenticated user
func (s *AuthService) Me(user *models.User) (*dto.UserResponse, error) {
	if user == nil {
		return nil, apperrors.NewUnauthenticatedError("Not authorized")
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
