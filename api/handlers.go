package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, media services.MediaUploader, opts uploadOptions, metrics *httpMetrics, startupTime time.Time) *routeHandlers {
	projectService := services.NewProjectService(db.ProjectRepo())
	return &routeHandlers{
		employeeHandler: newEmployeeHandler(services.NewEmployeeService(db.EmployeeRepo())),
		projectHandler:  newProjectHandler(projectService),
		uploadHandler:   newUploadHandler(projectService, media, opts, metrics),
		healthHandler:   newHealthHandler(db, startupTime),
	}
}

var validate = newValidator()

// isBlank is the emptiness rule shared by JSON creates and multipart forms
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// newValidator reports fields by their json name and adds the notblank tag
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return !isBlank(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a single JSON document from the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// validateRequest runs the validate struct tags of req
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			return errs.NewMissingRequiredFieldError(fe.Field())
		}
		return errs.NewInvalidFieldError(fe.Field(), fe.Tag())
	}
	return errs.NewValidationError(err.Error())
}

// pathID parses the {id} URL parameter
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError("id", "must be a valid UUID")
	}
	return id, nil
}
