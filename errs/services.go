package errs

import (
	"errors"
	"fmt"
)

// Third-Party API Errors
var (
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

// Local I/O Errors
var ErrFileWrite = errors.New("file write failed")

// NewExternalServiceError wraps a failed call to a third-party API.
func NewExternalServiceError(service, message string, cause error) *ApiErr {
	e := newKindErr(KindExternal, fmt.Errorf("%s: %w", service, ErrExternalService))
	e.Details = message
	e.Cause = cause
	return e
}

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	e := newKindErr(KindExternal, ErrServiceUnavailable)
	e.Details = fmt.Sprintf("%s is unavailable", service)
	e.Cause = cause
	return e
}

func NewUnexpectedResponseError(service string, cause error) *ApiErr {
	e := newKindErr(KindExternal, ErrUnexpectedResponse)
	e.Details = fmt.Sprintf("Failed to parse %s response", service)
	e.Cause = cause
	return e
}

func NewConfigMissingError(key string) *ApiErr {
	e := newKindErr(KindConfig, ErrConfigMissing)
	e.Details = fmt.Sprintf("%s must be set", key)
	e.Field = key
	return e
}

func NewConfigInvalidError(key, reason string) *ApiErr {
	e := newKindErr(KindConfig, ErrConfigInvalid)
	e.Details = fmt.Sprintf("%s: %s", key, reason)
	e.Field = key
	return e
}

// NewFileWriteError reports a failure writing an upload to disk. The path only
// reaches the logs through Cause.
func NewFileWriteError(path string, cause error) *ApiErr {
	e := newKindErr(KindStorage, ErrFileWrite)
	e.Details = "Failed to store uploaded file"
	e.Cause = fmt.Errorf("%s: %w", path, cause)
	return e
}

func IsConfigMissingError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}

func IsServiceUnavailableError(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

func IsUnexpectedResponseError(err error) bool {
	return errors.Is(err, ErrUnexpectedResponse)
}
