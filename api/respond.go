package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-api/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes data with status 200.
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError is the single place where errors become HTTP responses.
// Errors that are not *errs.ApiErr are reported as a generic 500 carrying the
// raw error text.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unhandled error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Server error",
			Details: err.Error(),
			Status:  "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		event := r.logger.Error().Err(err).Str("cause", apiErr.GetFullError()).Int("status", apiErr.StatusCode)
		if errs.IsDatabaseQueryError(apiErr) {
			event = event.Str("dbFailure", errs.ClassifyDatabaseFailure(apiErr.Cause))
		}
		event.Msg("request failed")
	} else {
		r.logger.Debug().Err(err).Int("status", apiErr.StatusCode).Msg("request rejected")
	}

	response := ErrorResponse{
		Error:   apiErr.Message(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
		Errors:  apiErr.Fields,
	}
	if len(apiErr.Fields) > 0 {
		response.Status = "validation_error"
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		response.Message = "Server error"
	}

	// Add full error chain for debugging (especially useful for database errors)
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
