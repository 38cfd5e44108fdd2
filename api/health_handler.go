package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
)

type healthHandler struct {
	responder   Responder
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(database database.Database, startupTime time.Time) healthHandler {
	return healthHandler{
		responder:   NewResponder(log.With().Str("handlerName", "healthHandler").Logger()),
		database:    database,
		startupTime: startupTime,
	}
}

type HealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	StartedAt     string  `json:"startedAt"`
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.database.Ping(ctx); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseUnavailableError(err))
			return
		}

		h.responder.WriteJSON(w, HealthResponse{
			Status:        "ok",
			UptimeSeconds: time.Since(h.startupTime).Seconds(),
			StartedAt:     h.startupTime.UTC().Format(time.RFC3339),
		})
	}
}
