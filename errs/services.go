package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-party API errors
var (
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrInvalidAPIKey      = errors.New("invalid API key")
	ErrUpstreamRejected   = errors.New("upstream service rejected request")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrServiceUnreachable = errors.New("service unreachable")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

func NewRateLimitError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    fmt.Sprintf("Rate limit exceeded for %s service", service),
		Field:      "rate_limit",
	}
}

// NewUpstreamError classifies a non-success response from a third-party API.
func NewUpstreamError(service string, statusCode int, message string) *ApiErr {
	details := fmt.Sprintf("%s returned status %d: %s", service, statusCode, message)

	switch {
	case statusCode == http.StatusTooManyRequests:
		err := NewRateLimitError(service)
		err.Details = details
		return err
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &ApiErr{StatusCode: http.StatusBadGateway, err: ErrInvalidAPIKey, Details: details}
	case statusCode >= http.StatusInternalServerError:
		return &ApiErr{StatusCode: http.StatusBadGateway, err: ErrServiceUnavailable, Details: details}
	default:
		return &ApiErr{StatusCode: http.StatusBadGateway, err: ErrUpstreamRejected, Details: details}
	}
}

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
	}
}

// Configuration & Environment Error Constructors
func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration %s is missing or invalid", configName),
		Cause:      cause,
		Field:      configName,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set", varName),
		Field:      varName,
	}
}

func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

func IsInvalidAPIKeyError(err error) bool {
	return errors.Is(err, ErrInvalidAPIKey)
}

func IsServiceUnavailableError(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

func IsServiceUnreachableError(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing) || errors.Is(err, ErrEnvironmentVariable)
}
