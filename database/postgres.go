package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-api/models"
)

// OpenPostgres connects gorm to Postgres. Driver errors are translated so
// duplicate keys surface as gorm.ErrDuplicatedKey.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	gormLog := log.With().Str("component", "gorm").Logger()
	newLogger := logger.New(
		&gormLog,
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// MigratePostgres creates the three tables if they are missing.
func MigratePostgres(db *gorm.DB) error {
	return db.AutoMigrate(&models.Project{}, &models.Feedback{}, &models.HireRequest{})
}

// NewPostgres initializes the repositories on a shared gorm instance
func NewPostgres(db *gorm.DB) Database {
	return Database{
		projectRepo:     NewPostgresProjectRepo(db),
		feedbackRepo:    NewPostgresFeedbackRepo(db),
		hireRequestRepo: NewPostgresHireRequestRepo(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
