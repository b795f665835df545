package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope every JSON endpoint answers with
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	// Marshal the data first so a failure can still produce a 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		jsonData, _ = json.Marshal(Response{
			Status:  statusError,
			Message: "The requested data exceeds the maximum response size",
		})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteSuccess answers 200 with the success envelope. data may be nil.
func (r Responder) WriteSuccess(w http.ResponseWriter, message string, data any) {
	r.WriteJSON(w, http.StatusOK, Response{
		Status:  statusSuccess,
		Message: message,
		Data:    data,
	})
}

// WriteError maps err to a status through its errs.Kind and writes the error
// envelope. Anything that is not an *errs.ApiErr is reported as a 500.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSON(w, http.StatusInternalServerError, Response{
			Status:  statusError,
			Message: "An unexpected error occurred",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().
			Str("kind", apiErr.Kind.String()).
			Str("error", apiErr.GetFullError()).
			Msg("request failed")
	} else {
		r.logger.Debug().
			Str("kind", apiErr.Kind.String()).
			Str("field", apiErr.Field).
			Msg(apiErr.Error())
	}

	r.WriteJSON(w, apiErr.StatusCode, Response{
		Status:  statusError,
		Message: apiErr.Message(),
	})
}

// WriteStatusError writes the error envelope with an explicit status code,
// for responses that do not originate from an error value.
func (r Responder) WriteStatusError(w http.ResponseWriter, status int, message string) {
	r.WriteJSON(w, status, Response{
		Status:  statusError,
		Message: message,
	})
}
