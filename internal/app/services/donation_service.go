package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	appauth "github.com/ecoshare/backend/internal/app/auth"
	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	"github.com/ecoshare/backend/internal/pkg/helpers"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

const msgDonationNotFound = "Food donation not found"

// DonationService handles the food donation lifecycle
type DonationService struct {
	donationRepo repositories.IDonationRepository
	imageHost    imagehost.Host
	policy       *appauth.Policy
	logger       zerolog.Logger
}

// NewDonationService creates a new DonationService
func NewDonationService(
	donationRepo repositories.IDonationRepository,
	imageHost imagehost.Host,
	policy *appauth.Policy,
	logger zerolog.Logger,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		imageHost:    imageHost,
		policy:       policy,
		logger:       logger,
	}
}

func (s *DonationService) buildDonation(donor *models.User, req *dto.CreateDonationRequest) (*models.Donation, error) {
	if donor == nil || donor.ID == "" {
		return nil, apperrors.NewUnauthenticatedError("Not authorized")
	}

	required := []struct{ name, value string }{
		{"fullName", req.FullName},
		{"contactNumber", req.ContactNumber},
		{"foodType", req.FoodType},
		{"itemName", req.ItemName},
		{"weight", req.Weight},
		{"cookingDate", req.CookingDate},
		{"expiryDate", req.ExpiryDate},
		{"pickupAddress", req.PickupAddress},
	}
	var missing []string
	for _, f := range required {
		if blank(f.value) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "All required fields must be filled").
			WithDetails(map[string]interface{}{"missing": missing})
	}

	cooking, err := helpers.ParseDate(req.CookingDate)
	if err != nil {
		return nil, apperrors.NewValidationError("cookingDate must be an ISO-8601 date")
	}
	expiry, err := helpers.ParseDate(req.ExpiryDate)
	if err != nil {
		return nil, apperrors.NewValidationError("expiryDate must be an ISO-8601 date")
	}
	if !cooking.Before(expiry) {
		return nil, apperrors.NewValidationError("Expiry date must be after cooking date")
	}

	return &models.Donation{
		DonorID:             donor.ID,
		FullName:            strings.TrimSpace(req.FullName),
		ContactNumber:       strings.TrimSpace(req.ContactNumber),
		FoodType:            strings.TrimSpace(req.FoodType),
		ItemName:            strings.TrimSpace(req.ItemName),
		Weight:              strings.TrimSpace(req.Weight),
		CookingDate:         cooking,
		ExpiryDate:          expiry,
		StorageInstructions: strings.TrimSpace(req.StorageInstructions),
		PickupAddress:       strings.TrimSpace(req.PickupAddress),
		Status:              models.DonationAvailable,
	}, nil
}

// Create validates and stores a new donation owned by donor. An optional
// image is hosted first and released again if the insert fails.
func (s *DonationService) Create(ctx context.Context, donor *models.User, req *dto.CreateDonationRequest, image *imagehost.Source) (*dto.DonationResponse, error) {
	donation, err := s.buildDonation(donor, req)
	if err != nil {
		return nil, err
	}

	var hosted *imagehost.Image
	if image != nil {
		hosted, err = s.imageHost.Upload(ctx, *image, imagehost.FolderDonations)
		if err != nil {
			s.logger.Warn().Err(err).Str("donorID", donor.ID).Msg("Donation image upload failed")
			return nil, imageError(err)
		}
		donation.FoodImage = hosted.URL
		donation.FoodImageID = hosted.PublicID
	}

	created, err := s.donationRepo.Insert(ctx, donation)
	if err != nil {
		s.logger.Error().Err(err).Str("donorID", donor.ID).Msg("Failed to insert donation")
		if hosted != nil {
			s.releaseImage(ctx, hosted.PublicID)
		}
		return nil, storeError(err, "Failed to create food donation")
	}

	s.logger.Info().Str("donationID", created.ID).Str("donorID", donor.ID).Msg("Donation created")
	resp := dto.NewDonationResponse(created)
	return &resp, nil
}

// ListAll returns every donation in insertion order
func (s *DonationService) ListAll(ctx context.Context) ([]dto.DonationResponse, error) {
	list, err := s.donationRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list donations")
		return nil, storeError(err, "Failed to fetch food donations")
	}
	return dto.NewDonationListResponse(list), nil
}

// ListAvailable returns the donations that can still be claimed
func (s *DonationService) ListAvailable(ctx context.Context) ([]dto.DonationResponse, error) {
	list, err := s.donationRepo.FindByStatus(ctx, models.DonationAvailable)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list available donations")
		return nil, storeError(err, "Failed to fetch available food donations")
	}
	return dto.NewDonationListResponse(list), nil
}

// Claim moves an available donation to claimed with claimant as receiver.
// Only one of several concurrent claims can succeed; the rest get a conflict.
func (s *DonationService) Claim(ctx context.Context, claimant *models.User, id string) (*dto.DonationResponse, error) {
	donation, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, msgDonationNotFound, "Failed to claim food donation")
	}

	if err := s.policy.Authorize(claimant, appauth.ActionClaimDonation, donation); err != nil {
		return nil, err
	}
	if !donation.IsAvailable() {
		return nil, apperrors.NewConflictError("Food donation already claimed")
	}

	claimed, err := s.donationRepo.ConditionalUpdateStatus(ctx, id, models.DonationAvailable, models.DonationClaimed, claimant.ID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			return nil, apperrors.NewConflictError("Food donation already claimed")
		case errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, apperrors.NewResourceNotFoundError(msgDonationNotFound)
		}
		s.logger.Error().Err(err).Str("donationID", id).Msg("Failed to claim donation")
		return nil, lookupError(err, msgDonationNotFound, "Failed to claim food donation")
	}

	s.logger.Info().Str("donationID", id).Str("receiverID", claimant.ID).Msg("Donation claimed")
	resp := dto.NewDonationResponse(claimed)
	return &resp, nil
}

// Delete removes a donation. Only its donor may do so, in either state.
func (s *DonationService) Delete(ctx context.Context, caller *models.User, id string) error {
	donation, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, msgDonationNotFound, "Failed to delete food donation")
	}

	if err := s.policy.Authorize(caller, appauth.ActionDeleteDonation, donation); err != nil {
		return err
	}

	deleted, err := s.donationRepo.DeleteByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("donationID", id).Msg("Failed to delete donation")
		return storeError(err, "Failed to delete food donation")
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(msgDonationNotFound)
	}

	if donation.FoodImageID != "" {
		s.releaseImage(ctx, donation.FoodImageID)
	}
	s.logger.Info().Str("donationID", id).Msg("Donation deleted")
	return nil
}

// releaseImage is best effort; failures are only logged.
func (s *DonationService) releaseImage(ctx context.Context, publicID string) bool {
	if err := s.imageHost.Delete(ctx, publicID); err != nil {
		s.logger.Warn().Err(err).Str("imageID", publicID).Msg("Failed to release donation image")
		return false
	}
	return true
}
