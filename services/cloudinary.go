package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

const cloudinaryService = "cloudinary"

// CloudinaryResponse is the subset of the upload API response we use
type CloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// CloudinaryErrorResponse represents an error response from the upload API
type CloudinaryErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CloudinaryClient uploads images through an unsigned upload preset.
type CloudinaryClient struct {
	httpClient   *http.Client
	apiBase      string
	cloudName    string
	uploadPreset string
	folder       string
}

// NewCloudinaryClient reads its settings from the config map:
//   - CLOUDINARY_CLOUD_NAME: required at upload time
//   - CLOUDINARY_UPLOAD_PRESET: defaults to portfolio_uploads
//   - CLOUDINARY_FOLDER: defaults to portfolio
//   - CLOUDINARY_API_BASE: defaults to https://api.cloudinary.com/v1_1
func NewCloudinaryClient(c map[string]string, httpClient *http.Client) *CloudinaryClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CloudinaryClient{
		httpClient:   httpClient,
		apiBase:      strings.TrimRight(config.GetString(c, "CLOUDINARY_API_BASE", "https://api.cloudinary.com/v1_1"), "/"),
		cloudName:    config.GetString(c, "CLOUDINARY_CLOUD_NAME", ""),
		uploadPreset: config.GetString(c, "CLOUDINARY_UPLOAD_PRESET", "portfolio_uploads"),
		folder:       config.GetString(c, "CLOUDINARY_FOLDER", "portfolio"),
	}
}

// UploadImage posts data as a multipart upload and returns the secure URL of the stored asset.
func (c *CloudinaryClient) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	if c.cloudName == "" {
		return "", errs.NewConfigMissingError("CLOUDINARY_CLOUD_NAME")
	}

	body, contentType, err := c.buildForm(data, filename)
	if err != nil {
		return "", errs.NewExternalServiceError(cloudinaryService, "Failed to build upload request", err)
	}

	url := fmt.Sprintf("%s/%s/image/upload", c.apiBase, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", errs.NewExternalServiceError(cloudinaryService, "Failed to create upload request", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.NewServiceUnavailableError(cloudinaryService, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewExternalServiceError(cloudinaryService, "Failed to read upload response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errorResp CloudinaryErrorResponse
		message := string(bodyBytes)
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Error.Message != "" {
			message = errorResp.Error.Message
		}
		return "", errs.NewExternalServiceError(cloudinaryService,
			fmt.Sprintf("Cloudinary upload failed (status %d): %s", resp.StatusCode, message), nil)
	}

	var uploadResp CloudinaryResponse
	if err := json.Unmarshal(bodyBytes, &uploadResp); err != nil {
		return "", errs.NewUnexpectedResponseError(cloudinaryService, err)
	}
	if uploadResp.SecureURL == "" {
		return "", errs.NewUnexpectedResponseError(cloudinaryService, fmt.Errorf("secure_url missing from response"))
	}

	log.Debug().Str("publicId", uploadResp.PublicID).Str("filename", filename).Msg("Uploaded image to Cloudinary")
	return uploadResp.SecureURL, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *CloudinaryClient) buildForm(data []byte, filename string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", mimetype.Detect(data).String())
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("upload_preset", c.uploadPreset); err != nil {
		return nil, "", err
	}
	if c.folder != "" {
		if err := w.WriteField("folder", c.folder); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
