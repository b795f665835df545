package errs

import (
	"errors"
	"fmt"
)

// Request & Input-Validation Errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
	ErrInvalidJSON          = errors.New("invalid JSON")
)

// NewValidationError is a 400 whose message is shown to the caller verbatim.
func NewValidationError(message string) *ApiErr {
	return NewApiErr(KindValidation, message)
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	e := newKindErr(KindValidation, ErrMalformedPayload)
	e.Details = fmt.Sprintf("Malformed %s payload", payloadType)
	e.Cause = cause
	e.Field = "payload"
	return e
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	e := newKindErr(KindValidation, ErrMissingRequiredField)
	e.Details = fmt.Sprintf("Missing required field: %s", fieldName)
	e.Field = fieldName
	return e
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	e := newKindErr(KindValidation, ErrInvalidField)
	e.Details = fmt.Sprintf("Invalid field %s: %s", fieldName, reason)
	e.Field = fieldName
	return e
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	e := newKindErr(KindPayloadTooLarge, ErrMaxBodySizeExceeded)
	e.Details = fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize)
	e.Field = "body_size"
	return e
}

func NewInvalidJSONError(cause error) *ApiErr {
	e := newKindErr(KindValidation, ErrInvalidJSON)
	e.Details = "Invalid JSON format"
	e.Cause = cause
	e.Field = "json"
	return e
}

func IsMissingRequiredFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsMaxBodySizeExceededError(err error) bool {
	return errors.Is(err, ErrMaxBodySizeExceeded)
}
