package imagehost

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinIOConfig configures an S3 compatible bucket.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // prefix for object URLs, defaults to the endpoint
	MaxBytes  int64
}

// MinIOHost stores images in an S3 compatible bucket.
type MinIOHost struct {
	client    *minio.Client
	bucket    string
	publicURL string
	maxBytes  int64
	fetcher   *Fetcher
	logger    zerolog.Logger
}

// NewMinIOHost connects to the endpoint and makes sure the bucket exists.
func NewMinIOHost(ctx context.Context, cfg MinIOConfig, fetcher *Fetcher, logger zerolog.Logger) (*MinIOHost, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("Created image bucket")
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinIOHost{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  cfg.MaxBytes,
		fetcher:   fetcher,
		logger:    logger,
	}, nil
}

// objectName builds folder/yyyy/mm/<uuid><ext>.
func objectName(folder, ext string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s%s", folder, now.Year(), now.Month(), uuid.New().String(), ext)
}

// Upload puts the image into the bucket.
func (h *MinIOHost) Upload(ctx context.Context, src Source, folder string) (*Image, error) {
	if err := validFolder(folder); err != nil {
		return nil, err
	}
	src, ext, err := prepare(ctx, h.fetcher, src, h.maxBytes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	name := objectName(folder, ext, now)
	size := src.Size
	if size <= 0 {
		size = -1
	}

	_, err = h.client.PutObject(ctx, h.bucket, name, src.Reader, size, minio.PutObjectOptions{
		ContentType: ContentTypeFor(ext),
		UserMetadata: map[string]string{
			"original-filename": src.Filename,
			"uploaded-at":       now.Format(time.RFC3339),
		},
	})
	if err != nil {
		h.logger.Error().Err(err).Str("object", name).Msg("Failed to upload image to bucket")
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	h.logger.Info().Str("object", name).Msg("Image uploaded")
	return &Image{URL: h.publicURL + "/" + name, PublicID: name}, nil
}

// Delete removes the object.
func (h *MinIOHost) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if err := h.client.RemoveObject(ctx, h.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	h.logger.Info().Str("object", publicID).Msg("Image deleted")
	return nil
}
