package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/services"
	"github.com/rpupo63/portfolio-api/storage"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// NewServer wires the router around database and store. notifier may be nil.
func NewServer(c map[string]string, database database.Database, store storage.Store, notifier *services.HireNotifier) (Server, error) {
	if store == nil {
		return Server{}, fmt.Errorf("upload store is required")
	}

	port := config.GetString(c, "PORT", "5000")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	opts := []func(*router){withConfig(c), withStartupTime(startupTime), withHireNotifier(notifier)}
	if served, ok := store.(interface{ Handler() http.Handler }); ok {
		opts = append(opts, withUploads(served.Handler()))
	}
	router := newRouter(database, store, opts...)

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	notifier    *services.HireNotifier
	uploads     http.Handler
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withHireNotifier(notifier *services.HireNotifier) func(*router) {
	return func(r *router) {
		r.notifier = notifier
	}
}

// withUploads serves stored images under storage.PublicPrefix.
func withUploads(h http.Handler) func(*router) {
	return func(r *router) {
		r.uploads = h
	}
}

func newRouter(database database.Database, store storage.Store, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(LogInternalServerErrors)

	handlers := initializeHandlers(database, store, router.notifier, router.startupTime)

	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS", []string{"*"})
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	setupRoutes(chiRouter, handlers, router.uploads)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
