// Package schedule decides which schedule a player device must display at a
// given instant.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

// ErrUnavailable marks failures the caller should retry later, such as a
// repository timeout. It is never returned for "no schedule applies".
var ErrUnavailable = errors.New("schedule resolution unavailable")

// CandidateRepository returns every active schedule of a customer together
// with its assignments, regardless of the current time.
type CandidateRepository interface {
	FindActiveSchedulesWithAssignments(ctx context.Context, customerID int) ([]model.ScheduleWithAssignments, error)
}

// LocationSource picks the zone a player's schedules are evaluated in.
type LocationSource interface {
	Location(ctx context.Context, p model.PlayerContext) (*time.Location, error)
}

type Resolver struct {
	candidates CandidateRepository
	locations  LocationSource
}

func NewResolver(candidates CandidateRepository, locations LocationSource) *Resolver {
	if locations == nil {
		locations = FixedLocation{Loc: time.UTC}
	}
	return &Resolver{candidates: candidates, locations: locations}
}

type candidate struct {
	schedule  model.Schedule
	matchedBy model.AssignmentType
}

// outranks orders candidates by priority, then assignment specificity, then
// the lower schedule id.
func (c candidate) outranks(o candidate) bool {
	if c.schedule.Priority != o.schedule.Priority {
		return c.schedule.Priority > o.schedule.Priority
	}
	if mine, theirs := c.matchedBy.Specificity(), o.matchedBy.Specificity(); mine != theirs {
		return mine > theirs
	}
	return c.schedule.ID < o.schedule.ID
}

// Resolve returns the schedule the player must display at instant, or nil
// when none applies. Repository and zone lookup failures wrap ErrUnavailable.
func (r *Resolver) Resolve(ctx context.Context, p model.PlayerContext, instant time.Time) (*model.ResolvedSchedule, error) {
	all, err := r.candidates.FindActiveSchedulesWithAssignments(ctx, p.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: load candidates for customer %d: %w", ErrUnavailable, p.CustomerID, err)
	}

	loc, err := r.locations.Location(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: evaluation zone for site %d: %w", ErrUnavailable, p.SiteID, err)
	}
	local := instant.In(loc)

	var winner *candidate
	for _, c := range all {
		s := c.Schedule
		if s.CustomerID != p.CustomerID {
			log.Warn().
				Int("schedule_id", s.ID).
				Int("schedule_customer_id", s.CustomerID).
				Int("customer_id", p.CustomerID).
				Msg("repository returned a schedule owned by another customer")
			continue
		}
		if !s.IsActive {
			continue
		}
		matchedBy, ok := bestMatch(c.Assignments, p)
		if !ok {
			continue
		}
		if !IsActiveAt(s, local) {
			continue
		}
		next := candidate{schedule: s, matchedBy: matchedBy}
		if winner == nil || next.outranks(*winner) {
			winner = &next
		}
	}

	if winner == nil {
		log.Debug().
			Int("player_id", p.PlayerID).
			Int("candidates", len(all)).
			Msg("no active schedule")
		return nil, nil
	}

	log.Debug().
		Int("player_id", p.PlayerID).
		Int("schedule_id", winner.schedule.ID).
		Str("matched_by", string(winner.matchedBy)).
		Int("priority", winner.schedule.Priority).
		Msg("schedule resolved")
	return &model.ResolvedSchedule{Schedule: winner.schedule, MatchedBy: winner.matchedBy}, nil
}
