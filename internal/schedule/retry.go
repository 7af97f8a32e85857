package schedule

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/db"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

// RetryingRepository retries transient candidate lookups with exponential
// backoff. It gives up after maxRetries retries, when ctx is done, or at the
// first error db.IsTransient rejects.
type RetryingRepository struct {
	next            CandidateRepository
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

func NewRetryingRepository(next CandidateRepository, maxRetries int, initialInterval time.Duration) *RetryingRepository {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if initialInterval <= 0 {
		initialInterval = 100 * time.Millisecond
	}
	return &RetryingRepository{
		next:            next,
		maxRetries:      uint64(maxRetries),
		initialInterval: initialInterval,
		maxInterval:     initialInterval * 10,
	}
}

func (r *RetryingRepository) FindActiveSchedulesWithAssignments(ctx context.Context, customerID int) ([]model.ScheduleWithAssignments, error) {
	var out []model.ScheduleWithAssignments
	attempt := 0

	op := func() error {
		attempt++
		res, err := r.next.FindActiveSchedulesWithAssignments(ctx, customerID)
		if err != nil {
			if ctx.Err() != nil || !db.IsTransient(err) {
				return backoff.Permanent(err)
			}
			log.Warn().Err(err).
				Int("customer_id", customerID).
				Int("attempt", attempt).
				Msg("candidate lookup failed")
			return err
		}
		out = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = 0

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, r.maxRetries), ctx)); err != nil {
		return nil, err
	}
	return out, nil
}
