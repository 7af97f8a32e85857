package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/schedule"
)

// CandidateCache is a read-through cache of each customer's resolution
// candidates. Redis failures are logged and fall through to the wrapped
// repository. Entries live for ttl, which config keeps below the player poll
// interval, and are dropped on every admin write for the customer.
type CandidateCache struct {
	rdb    *redis.Client
	next   schedule.CandidateRepository
	ttl    time.Duration
	prefix string
}

func NewCandidateCache(rdb *redis.Client, next schedule.CandidateRepository, ttl time.Duration, prefix string) *CandidateCache {
	if prefix == "" {
		prefix = "schedules"
	}
	return &CandidateCache{rdb: rdb, next: next, ttl: ttl, prefix: prefix}
}

func (c *CandidateCache) key(customerID int) string {
	return fmt.Sprintf("%s:candidates:%d", c.prefix, customerID)
}

func (c *CandidateCache) FindActiveSchedulesWithAssignments(ctx context.Context, customerID int) ([]model.ScheduleWithAssignments, error) {
	key := c.key(customerID)

	cached, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []model.ScheduleWithAssignments
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case err != redis.Nil:
		log.Warn().Err(err).Str("key", key).Msg("candidate cache read failed")
	}

	out, err := c.next.FindActiveSchedulesWithAssignments(ctx, customerID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(out)
	if err != nil {
		log.Warn().Err(err).Int("customer_id", customerID).Msg("could not encode candidates for cache")
		return out, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("candidate cache write failed")
	}
	return out, nil
}

// Invalidate drops the cached candidates of a customer.
func (c *CandidateCache) Invalidate(ctx context.Context, customerID int) error {
	if err := c.rdb.Del(ctx, c.key(customerID)).Err(); err != nil {
		log.Warn().Err(err).Int("customer_id", customerID).Msg("candidate cache invalidation failed")
		return err
	}
	return nil
}
