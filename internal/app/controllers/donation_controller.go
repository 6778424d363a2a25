package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/app/services"
	"github.com/ecoshare/backend/internal/middleware"
)

// DonationController handles food donation endpoints
type DonationController struct {
	donationService *services.DonationService
	logger          zerolog.Logger
}

// NewDonationController creates a new DonationController
func NewDonationController(donationService *services.DonationService, logger zerolog.Logger) *DonationController {
	return &DonationController{
		donationService: donationService,
		logger:          logger,
	}
}

// CreateDonation handles donation creation
// @Summary Create a food donation
// @Description Accepts JSON, or multipart/form-data with an optional foodImage file (jpg, jpeg, png)
// @Tags food-donations
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDonationRequest true "Donation details"
// @Success 201 {object} dto.APIResponse{data=dto.DonationResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 502 {object} dto.ErrorResponse "Image host or store failure"
// @Router /food-donations [post]
func (c *DonationController) CreateDonation(ctx *gin.Context) {
	donor, err := middleware.CurrentUser(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateDonationRequest
	image, release, err := bindWithImage(ctx, &req, "foodImage")
	if err != nil {
		c.logger.Debug().Err(err).Msg("Invalid donation payload")
		middleware.HandleBindingError(ctx, err)
		return
	}
	defer release()

	resp, err := c.donationService.Create(ctx.Request.Context(), donor, &req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Food donation created successfully!"))
}

// ListDonations returns every donation
// @Summary List food donations
// @Tags food-donations
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.DonationResponse}
// @Failure 502 {object} dto.ErrorResponse "Store failure"
// @Router /food-donations [get]
func (c *DonationController) ListDonations(ctx *gin.Context) {
	list, err := c.donationService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, ""))
}

// ListAvailableDonations returns the donations that can still be claimed
// @Summary List available food donations
// @Tags food-donations
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.DonationResponse}
// @Failure 502 {object} dto.ErrorResponse "Store failure"
// @Router /food-donations/available [get]
func (c *DonationController) ListAvailableDonations(ctx *gin.Context) {
	list, err := c.donationService.ListAvailable(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, ""))
}

// ClaimDonation claims a donation for the caller
// @Summary Claim a food donation
// @Tags food-donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} dto.APIResponse{data=dto.DonationResponse}
// @Failure 400 {object} dto.ErrorResponse "Malformed id"
// @Failure 403 {object} dto.ErrorResponse "Own donation"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Failure 409 {object} dto.ErrorResponse "Already claimed"
// @Router /food-donations/claim/{id} [put]
func (c *DonationController) ClaimDonation(ctx *gin.Context) {
	claimant, err := middleware.CurrentUser(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.donationService.Claim(ctx.Request.Context(), claimant, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Food donation claimed successfully!"))
}

// DeleteDonation deletes one of the caller's donations
// @Summary Delete a food donation
// @Tags food-donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the donor"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /food-donations/{id} [delete]
func (c *DonationController) DeleteDonation(ctx *gin.Context) {
	caller, err := middleware.CurrentUser(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.donationService.Delete(ctx.Request.Context(), caller, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Food donation deleted successfully!"))
}
