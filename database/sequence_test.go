package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

// racingStore simulates concurrent writers taking ids between MaxSeq and insert.
type racingStore struct {
	max        int
	stolen     int // number of inserts that lose the race
	insertErr  error
	maxErr     error
	inserted   []int
	maxQueries int
}

func (s *racingStore) MaxSeq(context.Context) (int, error) {
	s.maxQueries++
	return s.max, s.maxErr
}

func (s *racingStore) insert(_ context.Context, p *models.Project) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if s.stolen > 0 {
		s.stolen--
		s.max = p.Seq
		return fmt.Errorf("%w: E11000 duplicate key", errs.ErrUniqueConstraintViolation)
	}
	s.inserted = append(s.inserted, p.Seq)
	s.max = p.Seq
	return nil
}

func TestAddWithNextSeq(t *testing.T) {
	ctx := context.Background()

	t.Run("first project gets 1", func(t *testing.T) {
		s := &racingStore{}
		p := &models.Project{}
		require.NoError(t, addWithNextSeq(ctx, s, p))
		assert.Equal(t, 1, p.Seq)
	})

	t.Run("max plus one", func(t *testing.T) {
		s := &racingStore{max: 7}
		p := &models.Project{}
		require.NoError(t, addWithNextSeq(ctx, s, p))
		assert.Equal(t, 8, p.Seq)
	})

	t.Run("retries after losing a race", func(t *testing.T) {
		s := &racingStore{max: 3, stolen: 2}
		p := &models.Project{}
		require.NoError(t, addWithNextSeq(ctx, s, p))
		assert.Equal(t, 6, p.Seq)
		assert.Equal(t, 3, s.maxQueries)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		s := &racingStore{stolen: maxSeqAttempts}
		err := addWithNextSeq(ctx, s, &models.Project{})
		require.Error(t, err)
		assert.True(t, errs.IsUniqueConstraintViolationError(err))
		assert.Empty(t, s.inserted)
	})

	t.Run("other insert errors are not retried", func(t *testing.T) {
		s := &racingStore{insertErr: errors.New("disk full")}
		err := addWithNextSeq(ctx, s, &models.Project{})
		require.EqualError(t, err, "disk full")
		assert.Equal(t, 1, s.maxQueries)
	})

	t.Run("max query failure", func(t *testing.T) {
		s := &racingStore{maxErr: errors.New("timeout")}
		require.EqualError(t, addWithNextSeq(ctx, s, &models.Project{}), "timeout")
	})
}
