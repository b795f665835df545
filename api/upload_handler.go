package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const missingUploadFieldsMessage = "Missing required fields: name, description, category, and at least one file are required"

// maxTextFieldBytes bounds a single text part of a multipart form
const maxTextFieldBytes = 1 << 20

type uploadOptions struct {
	dir         string
	concurrency int
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
	media     services.MediaUploader
	opts      uploadOptions
	metrics   *httpMetrics
	now       func() time.Time
}

func newUploadHandler(projects *services.ProjectService, media services.MediaUploader, opts uploadOptions, metrics *httpMetrics) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		media:     media,
		opts:      opts,
		metrics:   metrics,
		now:       time.Now,
	}
}

// uploadImage stores the first part of a multipart body under the upload dir
// @Summary Upload image to local storage
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} Response "Image uploaded successfully"
// @Failure 400 {object} Response "No file uploaded"
// @Failure 413 {object} Response "Request body too large"
// @Failure 500 {object} Response "Internal Server Error - file write failed"
// @Router /api/projects/upload [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		part, err := mr.NextPart()
		if err == io.EOF {
			h.responder.WriteError(w, errs.NewValidationError("No file uploaded"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, bodyReadError(err, "multipart"))
			return
		}
		defer part.Close()

		filename := services.SanitizeFilename(part.FileName())
		if filename == "" {
			filename = uuid.New().String() + ".png"
		}

		if err := h.saveLocal(part, filename); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("filename", filename).Msg("image stored locally")
		h.responder.WriteSuccess(w, "Image uploaded successfully", models.UploadedFile{
			Filename: filename,
			URL:      "/uploads/" + filename,
		})
	}
}

// saveLocal streams src into the upload dir. A partially written file is removed.
func (h uploadHandler) saveLocal(src io.Reader, filename string) error {
	if err := os.MkdirAll(h.opts.dir, 0o755); err != nil {
		return errs.NewFileWriteError(h.opts.dir, err)
	}

	path := filepath.Join(h.opts.dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return errs.NewFileWriteError(path, err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewFileWriteError(path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errs.NewFileWriteError(path, err)
	}
	return nil
}

type pendingUpload struct {
	filename string
	data     []byte
}

// uploadForm is what createProjectWithUpload collects from the multipart body
type uploadForm struct {
	name        *string
	description *string
	category    *string
	files       []pendingUpload
}

func (f uploadForm) complete() bool {
	for _, field := range []*string{f.name, f.description, f.category} {
		if field == nil || isBlank(*field) {
			return false
		}
	}
	return len(f.files) > 0
}

// createProjectWithUpload reads the text fields and every image, validates them,
// forwards the images to the media host and creates the project with the
// returned URLs in the order the files were received.
// @Summary Create project with uploaded images
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Project name"
// @Param description formData string true "Project description"
// @Param category formData string true "Project category"
// @Param file formData file true "Image (also accepted as image, files, images; repeatable)"
// @Success 200 {object} Response "Project created successfully with uploaded images"
// @Failure 400 {object} Response "Missing required fields"
// @Failure 413 {object} Response "Request body too large"
// @Failure 500 {object} Response "Internal Server Error - upload or storage failed"
// @Router /api/projects/create-with-upload [post]
func (h uploadHandler) createProjectWithUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		form, err := h.readUploadForm(mr)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !form.complete() {
			h.responder.WriteError(w, errs.NewValidationError(missingUploadFieldsMessage))
			return
		}

		urls, err := h.uploadAll(r, form.files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Add(r.Context(), models.CreateProjectRequest{
			Name:        *form.name,
			Description: *form.description,
			Images:      urls,
			Category:    *form.category,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("projectId", project.ID.String()).
			Int("images", len(urls)).
			Msg("project created with uploaded images")
		h.responder.WriteSuccess(w, "Project created successfully with uploaded images", project)
	}
}

func (h uploadHandler) readUploadForm(mr *multipart.Reader) (uploadForm, error) {
	var form uploadForm
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return form, nil
		}
		if err != nil {
			return form, bodyReadError(err, "multipart")
		}

		switch part.FormName() {
		case "name", "description", "category":
			value, err := io.ReadAll(io.LimitReader(part, maxTextFieldBytes+1))
			if err != nil {
				return form, bodyReadError(err, "multipart")
			}
			if len(value) > maxTextFieldBytes {
				return form, errs.NewInvalidFieldError(part.FormName(), "too long")
			}
			text := string(value)
			switch part.FormName() {
			case "name":
				form.name = &text
			case "description":
				form.description = &text
			case "category":
				form.category = &text
			}
		case "file", "image", "files", "images":
			data, err := io.ReadAll(part)
			if err != nil {
				return form, bodyReadError(err, "multipart")
			}
			form.files = append(form.files, pendingUpload{
				filename: services.UploadFilename(part.FileName(), len(form.files), h.now()),
				data:     data,
			})
		}
		part.Close()
	}
}

// uploadAll sends files to the media host with bounded concurrency. The first
// failure cancels the rest; images already accepted by the host are kept there.
func (h uploadHandler) uploadAll(r *http.Request, files []pendingUpload) ([]string, error) {
	urls := make([]string, len(files))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.opts.concurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, err := h.media.UploadImage(ctx, file.data, file.filename)
			if h.metrics != nil {
				h.metrics.recordUpload(err)
			}
			if err != nil {
				h.logger.Error().Err(err).Str("filename", file.filename).Msg("image upload failed")
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
