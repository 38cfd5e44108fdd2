package api

import (
	"time"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/services"
	"github.com/rpupo63/portfolio-api/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, store storage.Store, notifier *services.HireNotifier, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler:     newProjectHandler(database.ProjectRepo(), store),
		feedbackHandler:    newFeedbackHandler(database.FeedbackRepo()),
		hireRequestHandler: newHireRequestHandler(database.HireRequestRepo(), notifier),
		healthHandler:      newHealthHandler(database, startupTime),
	}
}
