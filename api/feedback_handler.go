package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/validate"
)

type feedbackHandler struct {
	responder    Responder
	logger       zerolog.Logger
	feedbackRepo database.FeedbackRepo
	now          func() time.Time
}

func newFeedbackHandler(feedbackRepo database.FeedbackRepo) feedbackHandler {
	logger := log.With().Str("handlerName", "feedbackHandler").Logger()

	return feedbackHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		feedbackRepo: feedbackRepo,
		now:          timestamp,
	}
}

// createFeedback stores a new, unapproved feedback entry
// @Summary Submit feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Success 201 {object} models.Feedback
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid feedback"
// @Router /api/feedback [post]
func (h feedbackHandler) createFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeJSONObject(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		normalized, err := validate.FeedbackCreate.Apply(body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var feedback models.Feedback
		if err := validate.Decode(normalized, &feedback); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("feedback", err))
			return
		}
		feedback.Approved = false
		feedback.CreatedAt = h.now()

		if err := h.feedbackRepo.Add(r.Context(), &feedback); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "feedback", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, feedback)
	}
}

// getAllFeedback lists every feedback entry, approved or not, newest first
// @Summary List feedback
// @Tags Feedback
// @Produce json
// @Success 200 {array} models.Feedback
// @Router /api/feedback [get]
func (h feedbackHandler) getAllFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedback, err := h.feedbackRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feedback", err))
			return
		}
		if feedback == nil {
			feedback = []*models.Feedback{}
		}

		h.responder.WriteJSON(w, feedback)
	}
}

// approveFeedback marks an entry approved. Approving twice is not an error.
// @Summary Approve feedback
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} models.Feedback
// @Failure 404 {object} ErrorResponse "Not Found - Feedback not found"
// @Router /api/feedback/{id}/approve [put]
func (h feedbackHandler) approveFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedback, err := h.feedbackRepo.Approve(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("approve", "feedback", err))
			return
		}
		if feedback == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Feedback not found"))
			return
		}

		h.responder.WriteJSON(w, feedback)
	}
}

// deleteFeedback removes an entry and reports how many were deleted
// @Summary Delete feedback
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} DeleteAck
// @Failure 404 {object} ErrorResponse "Not Found - Feedback not found"
// @Router /api/feedback/{id}/delete [delete]
func (h feedbackHandler) deleteFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := h.feedbackRepo.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "feedback", err))
			return
		}
		if deleted == 0 {
			h.responder.WriteError(w, errs.NewNotFoundError("Feedback not found"))
			return
		}

		h.responder.WriteJSON(w, DeleteAck{Acknowledged: true, DeletedCount: deleted})
	}
}
