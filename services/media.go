package services

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

// MediaUploader stores an image with a hosted media provider and returns its public URL.
type MediaUploader interface {
	UploadImage(ctx context.Context, data []byte, filename string) (string, error)
}

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// NewMediaUploader builds the uploader selected by MEDIA_PROVIDER (cloudinary by default).
func NewMediaUploader(ctx context.Context, c map[string]string) (MediaUploader, error) {
	provider := strings.ToLower(config.GetString(c, "MEDIA_PROVIDER", ProviderCloudinary))

	switch provider {
	case ProviderCloudinary:
		timeout := time.Duration(config.GetInt(c, "MEDIA_UPLOAD_TIMEOUT_SECONDS", 60)) * time.Second
		client := NewCloudinaryClient(c, &http.Client{Timeout: timeout})
		if client.cloudName == "" {
			log.Warn().Msg("CLOUDINARY_CLOUD_NAME is not set, uploads to cloudinary will fail")
		}
		return client, nil
	case ProviderS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		uploader, err := NewS3Uploader(s3.NewFromConfig(awsCfg), awsCfg.Region, c)
		if err != nil {
			return nil, err
		}
		return uploader, nil
	default:
		return nil, errs.NewConfigInvalidError("MEDIA_PROVIDER", fmt.Sprintf("unknown provider %q", provider))
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a client supplied name to a safe base name.
// It returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "_" {
		return ""
	}
	return name
}

// FileExtension returns the extension of a sanitised filename without the dot,
// falling back to png.
func FileExtension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "png"
	}
	return strings.ToLower(ext)
}

// UploadFilename names the index-th file of a request as <uuid>_<index>_<unix millis>.<ext>.
func UploadFilename(originalName string, index int, now time.Time) string {
	return fmt.Sprintf("%s_%03d_%d.%s", uuid.New(), index, now.UnixMilli(), FileExtension(SanitizeFilename(originalName)))
}
