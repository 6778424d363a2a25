package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/app/services"
	"github.com/ecoshare/backend/internal/middleware"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

// UploadController handles standalone image uploads
type UploadController struct {
	uploadService *services.UploadService
	logger        zerolog.Logger
}

// NewUploadController creates a new UploadController
func NewUploadController(uploadService *services.UploadService, logger zerolog.Logger) *UploadController {
	return &UploadController{uploadService: uploadService, logger: logger}
}

// UploadImage hosts a single image
// @Summary Upload an image
// @Tags upload
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image (jpg, jpeg, png)"
// @Success 201 {object} dto.APIResponse{data=dto.UploadResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid image"
// @Router /upload [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	fh, err := ctx.FormFile("image")
	if err != nil {
		c.logger.Debug().Err(err).Msg("Upload without image")
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "An image file is required").WithField("image")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	src, file, err := imagehost.FromFileHeader(fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	resp, err := c.uploadService.UploadImage(ctx.Request.Context(), src)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Image uploaded"))
}
