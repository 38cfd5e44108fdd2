package database

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-api/models"
)

// ProjectRepo persists projects. Lookups use the public sequential id; a
// missing project is reported as (nil, nil).
type ProjectRepo interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindBySeq(ctx context.Context, seq int) (*models.Project, error)
	// Add assigns project.Seq as the current maximum plus one and inserts it.
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, seq int, input models.ProjectInput, updatedAt time.Time) (*models.Project, error)
	DeleteBySeq(ctx context.Context, seq int) (bool, error)
}

// FeedbackRepo persists feedback entries keyed by native id.
type FeedbackRepo interface {
	FindAll(ctx context.Context) ([]*models.Feedback, error)
	Add(ctx context.Context, feedback *models.Feedback) error
	Approve(ctx context.Context, id string) (*models.Feedback, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// HireRequestRepo persists hire requests. They are append-only.
type HireRequestRepo interface {
	FindAll(ctx context.Context) ([]*models.HireRequest, error)
	Add(ctx context.Context, request *models.HireRequest) error
}

// Database bundles the repositories sharing one connection.
type Database struct {
	projectRepo     ProjectRepo
	feedbackRepo    FeedbackRepo
	hireRequestRepo HireRequestRepo
	ping            func(ctx context.Context) error
	close           func(ctx context.Context) error
}

// Accessor methods for each repository

func (d Database) ProjectRepo() ProjectRepo {
	return d.projectRepo
}

func (d Database) FeedbackRepo() FeedbackRepo {
	return d.feedbackRepo
}

func (d Database) HireRequestRepo() HireRequestRepo {
	return d.hireRequestRepo
}

// Ping checks that the underlying connection is usable.
func (d Database) Ping(ctx context.Context) error {
	if d.ping == nil {
		return nil
	}
	return d.ping(ctx)
}

// Close releases the shared connection.
func (d Database) Close(ctx context.Context) error {
	if d.close == nil {
		return nil
	}
	return d.close(ctx)
}
