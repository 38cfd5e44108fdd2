package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

type PostgresProjectRepo struct {
	db *gorm.DB
}

func NewPostgresProjectRepo(db *gorm.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db}
}

// FindAll returns all projects from the database, newest first
func (r *PostgresProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	projects := []*models.Project{}
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&projects).Error
	return projects, err
}

// FindBySeq returns a project by its public id
func (r *PostgresProjectRepo) FindBySeq(ctx context.Context, seq int) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("seq = ?", seq).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database with the next public id
func (r *PostgresProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return addWithNextSeq(ctx, r, project)
}

func (r *PostgresProjectRepo) MaxSeq(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&models.Project{}).Select("COALESCE(MAX(seq), 0)").Scan(&max).Error
	return max, err
}

func (r *PostgresProjectRepo) insert(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Create(project).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", errs.ErrUniqueConstraintViolation, err)
	}
	return err
}

// Update updates an existing project in the database
func (r *PostgresProjectRepo) Update(ctx context.Context, seq int, input models.ProjectInput, updatedAt time.Time) (*models.Project, error) {
	var updated *models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("seq = ?", seq).First(&project).Error; err != nil {
			return err
		}
		input.Apply(&project)
		project.UpdatedAt = updatedAt
		if err := tx.Save(&project).Error; err != nil {
			return err
		}
		updated = &project
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return updated, err
}

// DeleteBySeq removes a project from the database by public id
func (r *PostgresProjectRepo) DeleteBySeq(ctx context.Context, seq int) (bool, error) {
	res := r.db.WithContext(ctx).Where("seq = ?", seq).Delete(&models.Project{})
	return res.RowsAffected > 0, res.Error
}
