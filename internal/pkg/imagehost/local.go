package imagehost

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalHost stores images on the local filesystem, served under a static route.
type LocalHost struct {
	basePath string // root directory on disk
	baseURL  string // public prefix the static route serves basePath under
	maxBytes int64
	fetcher  *Fetcher
	logger   zerolog.Logger
}

// NewLocalHost creates the base directory if needed.
func NewLocalHost(basePath, baseURL string, maxBytes int64, fetcher *Fetcher, logger zerolog.Logger) (*LocalHost, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local image storage directory ensured")

	return &LocalHost{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		fetcher:  fetcher,
		logger:   logger,
	}, nil
}

// Upload writes the image under folder with a random name.
func (h *LocalHost) Upload(ctx context.Context, src Source, folder string) (*Image, error) {
	if err := validFolder(folder); err != nil {
		return nil, err
	}
	src, ext, err := prepare(ctx, h.fetcher, src, h.maxBytes)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(h.basePath, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.logger.Error().Err(err).Str("path", dir).Msg("Failed to create image folder")
		return nil, fmt.Errorf("failed to create image folder: %w", err)
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		h.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src.Reader); err != nil {
		h.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy image content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save image content: %w", err)
	}

	publicID := path.Join(folder, name)
	img := &Image{URL: h.baseURL + "/" + publicID, PublicID: publicID}
	h.logger.Info().Str("filename", src.Filename).Str("publicId", publicID).Msg("Image stored")
	return img, nil
}

// Delete removes the image. Missing files are not an error.
func (h *LocalHost) Delete(_ context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	clean := path.Clean("/" + publicID)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") || validFolder(path.Dir(clean)) != nil {
		return fmt.Errorf("invalid image id: %s", publicID)
	}

	physicalPath := filepath.Join(h.basePath, filepath.FromSlash(clean))
	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			h.logger.Warn().Str("path", physicalPath).Msg("Image to delete does not exist")
			return nil
		}
		h.logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete image")
		return fmt.Errorf("failed to delete image: %w", err)
	}

	h.logger.Info().Str("publicId", clean).Msg("Image deleted")
	return nil
}

// Dir returns the directory served as static content.
func (h *LocalHost) Dir() string {
	return h.basePath
}
