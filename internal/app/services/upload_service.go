package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

// UploadService hosts standalone images
type UploadService struct {
	imageHost imagehost.Host
	logger    zerolog.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(imageHost imagehost.Host, logger zerolog.Logger) *UploadService {
	return &UploadService{imageHost: imageHost, logger: logger}
}

// UploadImage stores src in the uploads folder and returns its public URL
func (s *UploadService) UploadImage(ctx context.Context, src imagehost.Source) (*dto.UploadResponse, error) {
	img, err := s.imageHost.Upload(ctx, src, imagehost.FolderUploads)
	if err != nil {
		s.logger.Warn().Err(err).Str("filename", src.Filename).Msg("Image upload failed")
		return nil, imageError(err)
	}
	s.logger.Debug().Str("imageID", img.PublicID).Msg("Image uploaded")
	return &dto.UploadResponse{ImageURL: img.URL}, nil
}
