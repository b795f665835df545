package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so handlers can pick a status code without
// knowing where the error came from.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindStorage
	KindExternal
	KindConfig
	KindPayloadTooLarge
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	case KindExternal:
		return "external"
	case KindConfig:
		return "config"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// StatusCode is the HTTP status a handler reports for an error of this kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

var ErrCORSBlocked = errors.New("request blocked by CORS policy")

type ApiErr struct {
	Kind       Kind
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(kind Kind, message string) *ApiErr {
	return &ApiErr{
		Kind:       kind,
		StatusCode: kind.StatusCode(),
		err:        errors.New(message),
	}
}

func newKindErr(kind Kind, err error) *ApiErr {
	return &ApiErr{
		Kind:       kind,
		StatusCode: kind.StatusCode(),
		err:        err,
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// Message is the caller-facing text: Details when set, otherwise the base error.
func (e *ApiErr) Message() string {
	if e.Details != "" {
		return e.Details
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// KindOf reports the kind of the first ApiErr in err's chain.
func KindOf(err error) Kind {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	e := NewApiErr(KindUnknown, message)
	e.Cause = cause
	return e
}

func NewCORSError(origin string) *ApiErr {
	e := newKindErr(KindForbidden, ErrCORSBlocked)
	e.Details = fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin)
	return e
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func IsStorage(err error) bool {
	return KindOf(err) == KindStorage
}

func IsExternal(err error) bool {
	return KindOf(err) == KindExternal
}

func IsConfig(err error) bool {
	return KindOf(err) == KindConfig
}

func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}
