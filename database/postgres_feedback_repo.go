package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/models"
)

type PostgresFeedbackRepo struct {
	db *gorm.DB
}

func NewPostgresFeedbackRepo(db *gorm.DB) *PostgresFeedbackRepo {
	return &PostgresFeedbackRepo{db}
}

// FindAll returns every feedback entry, approved or not, newest first
func (r *PostgresFeedbackRepo) FindAll(ctx context.Context) ([]*models.Feedback, error) {
	feedback := []*models.Feedback{}
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&feedback).Error
	return feedback, err
}

// Add inserts a new feedback entry into the database
func (r *PostgresFeedbackRepo) Add(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// Approve marks a feedback entry as approved
func (r *PostgresFeedbackRepo) Approve(ctx context.Context, id string) (*models.Feedback, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var feedback models.Feedback
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Feedback{}).Where("id = ?", id).Update("approved", true).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&feedback).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// Delete removes a feedback entry and returns how many rows matched
func (r *PostgresFeedbackRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Feedback{})
	return res.RowsAffected, res.Error
}
