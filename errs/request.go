package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Request & Input-Validation Errors
var (
	ErrValidation           = errors.New("validation failed")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidJSON          = errors.New("invalid JSON")
)

// Upload Errors
var (
	ErrUploadRejected       = errors.New("upload rejected")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")
)

// NewValidationError reports every rejected field at once.
func NewValidationError(fields []FieldError) *ApiErr {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    "invalid fields: " + strings.Join(names, ", "),
		Fields:     fields,
	}
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
		Fields:     []FieldError{{Field: fieldName, Message: reason}},
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidJSON,
		Details:    "Invalid JSON format",
		Cause:      cause,
		Field:      "json",
	}
}

// NewUnsupportedMediaTypeError rejects an upload whose declared content type is not allowed.
// Upload rejections are client errors, so they surface as 400.
func NewUnsupportedMediaTypeError(field, contentType string, allowedTypes []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%w: %w", ErrUploadRejected, ErrUnsupportedMediaType),
		Details:    fmt.Sprintf("Unsupported media type: %s. Allowed types: %v", contentType, allowedTypes),
		Field:      field,
		Fields:     []FieldError{{Field: field, Message: "Only JPEG, PNG and GIF images are allowed"}},
	}
}

func NewFileTooLargeError(field string, maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%w: %w", ErrUploadRejected, ErrFileTooLarge),
		Details:    fmt.Sprintf("File exceeds maximum allowed size of %d bytes", maxSize),
		Field:      field,
		Fields:     []FieldError{{Field: field, Message: fmt.Sprintf("File must not exceed %d bytes", maxSize)}},
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsUploadRejectedError(err error) bool {
	return errors.Is(err, ErrUploadRejected)
}

func IsUnsupportedMediaTypeError(err error) bool {
	return errors.Is(err, ErrUnsupportedMediaType)
}

func IsFileTooLargeError(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}
