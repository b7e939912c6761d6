package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const EventsFolder = "DevEvent"

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug builds a URL-safe slug (lowercase letters, digits, hyphens)
// from an event title.
func GenerateSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UploadResult is the typed contract for a completed image upload.
type UploadResult struct {
	SecureURL string
	PublicID  string
}

// ImageUploader sends a raw image to the media host and returns its durable URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, image io.Reader, filename string) (*UploadResult, error)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	logger *slog.Logger
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, logger *slog.Logger) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, logger: logger}
}

func (cu *CloudinaryUploader) UploadImage(ctx context.Context, image io.Reader, filename string) (*UploadResult, error) {
	result, err := cu.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder:           EventsFolder,
		FilenameOverride: filename,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image %s: %v", filename, err)
	}

	cu.logger.Info("Image uploaded",
		"public_id", result.PublicID,
		"url", result.SecureURL,
	)

	return &UploadResult{
		SecureURL: result.SecureURL,
		PublicID:  result.PublicID,
	}, nil
}

// ParseStringArray decodes a JSON-encoded array of strings, trimming each
// element. It rejects invalid JSON, non-array shapes, empty arrays and
// blank elements.
func ParseStringArray(raw string) ([]string, error) {
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("must contain valid JSON encoding an array of strings")
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("must be a non-empty array of non-empty strings")
	}

	out := make([]string, 0, len(parsed))
	for _, item := range parsed {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			return nil, fmt.Errorf("must be a non-empty array of non-empty strings")
		}
		out = append(out, trimmed)
	}
	return out, nil
}
