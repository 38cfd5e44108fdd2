package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/models"
)

type PostgresHireRequestRepo struct {
	db *gorm.DB
}

func NewPostgresHireRequestRepo(db *gorm.DB) *PostgresHireRequestRepo {
	return &PostgresHireRequestRepo{db}
}

// FindAll returns all hire requests, newest first
func (r *PostgresHireRequestRepo) FindAll(ctx context.Context) ([]*models.HireRequest, error) {
	requests := []*models.HireRequest{}
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&requests).Error
	return requests, err
}

// Add inserts a new hire request into the database
func (r *PostgresHireRequestRepo) Add(ctx context.Context, request *models.HireRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}
