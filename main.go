package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/portfolio-api/api"
	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/services"
	"github.com/rpupo63/portfolio-api/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	c := config.New()
	setLogLevel(config.GetString(c, "LOG_LEVEL", "info"))
	log.Info().Msg("Initializing app...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	currentDB, err := openDatabase(ctx, c)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	store, err := openUploadStore(context.Background(), c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing upload storage")
	}

	notifier := services.NewHireNotifier(
		services.NewMailer(config.GetString(c, "RESEND_API_KEY", ""), config.GetString(c, "RESEND_FROM_EMAIL", "")),
		config.GetStrings(c, "HIRE_NOTIFY_EMAIL", nil),
	)
	if notifier == nil {
		log.Info().Msg("Hire request notifications disabled")
	}

	errChannel := newErrChannel()

	server, err := api.NewServer(c, currentDB, store, notifier)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if err := currentDB.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}
}

// openDatabase connects the backend named by DB_TYPE.
func openDatabase(ctx context.Context, c map[string]string) (database.Database, error) {
	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", "mongo"))
	log.Info().Str("DB_TYPE", dbType).Msg("Selecting database backend")

	switch dbType {
	case "mongo", "mongodb":
		var getter config.ParameterGetter
		if config.GetString(c, "MONGODB_URI_SSM_PARAM", "") != "" {
			g, err := config.NewParameterGetter(ctx, config.GetString(c, "AWS_REGION", ""))
			if err != nil {
				return database.Database{}, err
			}
			getter = g
		}
		uri, err := config.ResolveSecret(ctx, c, "MONGODB_URI", getter, "mongodb://localhost:27017")
		if err != nil {
			return database.Database{}, err
		}

		client, err := database.ConnectMongo(ctx, uri)
		if err != nil {
			return database.Database{}, err
		}
		dbName := config.GetString(c, "DB_NAME", "portfolio")
		if err := database.EnsureMongoIndexes(ctx, client, dbName); err != nil {
			// Existing data with duplicate ids must be fixed by hand; keep serving.
			log.Warn().Err(err).Msg("Error creating indexes")
		}
		log.Info().Str("db", dbName).Msg("Connected to MongoDB")
		return database.NewMongo(client, dbName), nil

	case "postgres":
		dsn := config.GetString(c, "DATABASE_DSN", "")
		if dsn == "" {
			return database.Database{}, errs.NewEnvironmentVariableError("DATABASE_DSN")
		}
		db, err := database.OpenPostgres(dsn)
		if err != nil {
			return database.Database{}, err
		}
		if err := database.MigratePostgres(db); err != nil {
			return database.Database{}, fmt.Errorf("migrate: %w", err)
		}
		log.Info().Msg("Connected to Postgres")
		return database.NewPostgres(db), nil

	case "memory":
		log.Warn().Msg("Using in-memory database; data is lost on restart")
		return database.NewMemory(), nil

	default:
		return database.Database{}, errs.NewConfigError("DB_TYPE", fmt.Errorf("unsupported value %q", dbType))
	}
}

// openUploadStore builds the image store named by UPLOAD_BACKEND.
func openUploadStore(ctx context.Context, c map[string]string) (storage.Store, error) {
	switch backend := strings.ToLower(config.GetString(c, "UPLOAD_BACKEND", "local")); backend {
	case "local":
		store, err := storage.NewLocalStore(config.GetString(c, "UPLOAD_DIR", "uploads"))
		if err != nil {
			return nil, err
		}
		log.Info().Str("root", store.Root).Msg("Serving uploads from local disk")
		return store, nil
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    config.GetString(c, "S3_BUCKET", ""),
			Region:    config.GetString(c, "S3_REGION", ""),
			Endpoint:  config.GetString(c, "S3_ENDPOINT", ""),
			PublicURL: config.GetString(c, "S3_PUBLIC_URL", ""),
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errs.NewConfigError("UPLOAD_BACKEND", fmt.Errorf("unsupported value %q", backend))
	}
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// newErrChannel is shared by Start and listenToInterrupt. Each sends at most
// once and it is never closed, so the sender that loses can still exit.
func newErrChannel() chan error {
	return make(chan error, 2)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
