// Package imagehost stores user supplied images and hands back public URLs.
package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Folders used by the application.
const (
	FolderDonations = "donations"
	FolderBlogs     = "blogs"
	FolderUploads   = "uploads"
)

var (
	// ErrInvalidImage marks caller mistakes: bad format, empty or oversized input.
	ErrInvalidImage = errors.New("invalid image")
	// ErrFetchFailed marks a remote image that could not be downloaded.
	ErrFetchFailed = errors.New("remote image fetch failed")
)

// allowedFormats maps accepted extensions to their content type.
var allowedFormats = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Source is either a readable upload or a remote URL to re-host.
type Source struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
	URL         string
}

// IsRemote reports whether the source must be fetched first.
func (s Source) IsRemote() bool {
	return s.Reader == nil && s.URL != ""
}

// Image is a hosted image.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Host uploads and releases images.
type Host interface {
	Upload(ctx context.Context, src Source, folder string) (*Image, error)
	Delete(ctx context.Context, publicID string) error
}

// FromFileHeader opens a multipart file as a Source. The caller closes the returned file.
func FromFileHeader(fh *multipart.FileHeader) (Source, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return Source{}, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	return Source{
		Reader:      f,
		Size:        fh.Size,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, f, nil
}

// Extension returns the normalized extension for a source, or ErrInvalidImage
// when the format is not jpg, jpeg or png.
func Extension(filename, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := allowedFormats[ext]; ok {
		return ext, nil
	}
	if ext == "" && contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			switch mediaType {
			case "image/jpeg":
				return ".jpg", nil
			case "image/png":
				return ".png", nil
			}
		}
	}
	return "", fmt.Errorf("%w: only jpg, jpeg and png files are allowed", ErrInvalidImage)
}

// ContentTypeFor returns the content type stored alongside an extension.
func ContentTypeFor(ext string) string {
	if ct, ok := allowedFormats[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Fetcher downloads remote images for re-hosting.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a Fetcher with the given request timeout and size limit.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch resolves a remote source into a readable one, fully buffered.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Source, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Source{}, fmt.Errorf("%w: image must be an http(s) URL", ErrInvalidImage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Source{}, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return Source{}, fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, f.maxBytes)
	}

	return Source{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		Filename:    path.Base(u.Path),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// prepare validates a source, fetching it first when it is remote.
// It returns the readable source and its normalized extension.
func prepare(ctx context.Context, fetcher *Fetcher, src Source, maxBytes int64) (Source, string, error) {
	if src.IsRemote() {
		if fetcher == nil {
			return Source{}, "", fmt.Errorf("%w: remote images are not supported", ErrInvalidImage)
		}
		fetched, err := fetcher.Fetch(ctx, src.URL)
		if err != nil {
			return Source{}, "", err
		}
		src = fetched
	}
	if src.Reader == nil {
		return Source{}, "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if maxBytes > 0 && src.Size > maxBytes {
		return Source{}, "", fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, maxBytes)
	}
	ext, err := Extension(src.Filename, src.ContentType)
	if err != nil {
		return Source{}, "", err
	}
	return src, ext, nil
}

func validFolder(folder string) error {
	switch folder {
	case FolderDonations, FolderBlogs, FolderUploads:
		return nil
	}
	return fmt.Errorf("unknown image folder %q", folder)
}
