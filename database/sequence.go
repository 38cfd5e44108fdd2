package database

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

// maxSeqAttempts bounds how often a project insert is retried after losing a
// race for the next sequential id.
const maxSeqAttempts = 3

type seqStore interface {
	MaxSeq(ctx context.Context) (int, error)
	// insert must wrap duplicate id failures with errs.ErrUniqueConstraintViolation.
	insert(ctx context.Context, project *models.Project) error
}

// addWithNextSeq reads the current maximum id, inserts with max+1 and retries
// when a concurrent insert took the same id first.
func addWithNextSeq(ctx context.Context, store seqStore, project *models.Project) error {
	for attempt := 1; ; attempt++ {
		max, err := store.MaxSeq(ctx)
		if err != nil {
			return err
		}
		project.Seq = max + 1

		err = store.insert(ctx, project)
		if err == nil {
			return nil
		}
		if !errs.IsUniqueConstraintViolationError(err) || attempt == maxSeqAttempts {
			return err
		}
		log.Warn().Int("seq", project.Seq).Int("attempt", attempt).Msg("project id taken by concurrent insert, retrying")
	}
}
