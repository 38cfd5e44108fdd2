package api

import "github.com/rpupo63/portfolio-api/errs"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler     projectHandler
	feedbackHandler    feedbackHandler
	hireRequestHandler hireRequestHandler
	healthHandler      healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string            `json:"error" example:"Internal Server Error"`
	Message string            `json:"message,omitempty" example:"Server error"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
	Cause   string            `json:"cause,omitempty" example:"Underlying error cause"`
	Errors  []errs.FieldError `json:"errors,omitempty"`
}

// MessageResponse acknowledges an operation that returns no record.
type MessageResponse struct {
	Message string `json:"message"`
}

// DeleteAck mirrors the store's delete result.
type DeleteAck struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
