package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/services"
	"github.com/rpupo63/portfolio-api/validate"
)

type hireRequestHandler struct {
	responder       Responder
	logger          zerolog.Logger
	hireRequestRepo database.HireRequestRepo
	notifier        *services.HireNotifier
	now             func() time.Time
}

func newHireRequestHandler(hireRequestRepo database.HireRequestRepo, notifier *services.HireNotifier) hireRequestHandler {
	logger := log.With().Str("handlerName", "hireRequestHandler").Logger()

	return hireRequestHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		hireRequestRepo: hireRequestRepo,
		notifier:        notifier,
		now:             timestamp,
	}
}

// createHireRequest stores an inquiry and notifies the site owner when a
// notifier is configured. Notification failures never fail the request.
// @Summary Submit hire request
// @Tags HireRequests
// @Accept json
// @Produce json
// @Success 201 {object} models.HireRequest
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid hire request"
// @Router /api/hire-me [post]
func (h hireRequestHandler) createHireRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeJSONObject(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		normalized, err := validate.HireRequestCreate.Apply(body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var request models.HireRequest
		if err := validate.Decode(normalized, &request); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("hire request", err))
			return
		}
		request.CreatedAt = h.now()

		if err := h.hireRequestRepo.Add(r.Context(), &request); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "hire request", err))
			return
		}

		h.notifier.Notify(request)

		h.responder.WriteJSONStatus(w, http.StatusCreated, request)
	}
}

// getAllHireRequests lists hire requests, newest first
// @Summary List hire requests
// @Tags HireRequests
// @Produce json
// @Success 200 {array} models.HireRequest
// @Router /api/hire-me [get]
func (h hireRequestHandler) getAllHireRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := h.hireRequestRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "hire requests", err))
			return
		}
		if requests == nil {
			requests = []*models.HireRequest{}
		}

		h.responder.WriteJSON(w, requests)
	}
}
