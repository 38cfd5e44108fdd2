package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrStorageWrite              = errors.New("storage write failed")
)

// Database failure kinds reported by ClassifyDatabaseFailure.
const (
	FailureUniqueViolation = "unique_violation"
	FailureConnection      = "connection"
	FailureQuery           = "query"
)

// NewDatabaseError wraps a repository failure. Every repository failure is a
// 500; ClassifyDatabaseFailure tells the kinds apart for logging.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    fmt.Sprintf("Failed to %s %s", operation, entity),
		Cause:      cause,
	}
}

// NewDatabaseUnavailableError reports a failed connectivity check.
func NewDatabaseUnavailableError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrDatabaseConnection,
		Details:    "Unable to connect to database",
		Cause:      cause,
	}
}

// ClassifyDatabaseFailure names the kind of a raw driver error.
func ClassifyDatabaseFailure(cause error) string {
	if cause == nil {
		return FailureQuery
	}
	msg := cause.Error()
	switch {
	case IsUniqueConstraintViolationError(cause), strings.Contains(msg, "duplicate key"):
		return FailureUniqueViolation
	case IsDatabaseConnectionError(cause), strings.Contains(msg, "server selection"), strings.Contains(msg, "connection refused"):
		return FailureConnection
	default:
		return FailureQuery
	}
}

// NewStorageError wraps a failure writing or removing an uploaded file.
func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageWrite,
		Details:    fmt.Sprintf("Failed to %s", operation),
		Cause:      cause,
	}
}

func IsDatabaseQueryError(err error) bool {
	return errors.Is(err, ErrDatabaseQuery)
}

func IsDatabaseConnectionError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}

func IsUniqueConstraintViolationError(err error) bool {
	return errors.Is(err, ErrUniqueConstraintViolation)
}
