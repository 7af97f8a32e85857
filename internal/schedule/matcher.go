package schedule

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

// Matches reports whether the assignment targets the player, its site or its
// customer. Malformed assignments never match and are logged.
func Matches(a model.ScheduleAssignment, p model.PlayerContext) bool {
	t := a.Target
	if !t.Valid() {
		log.Warn().
			Int("assignment_id", a.ID).
			Int("schedule_id", a.ScheduleID).
			Str("target", t.String()).
			Msg("skipping malformed schedule assignment")
		return false
	}

	switch t.Type() {
	case model.AssignmentCustomer:
		return t.ID() == p.CustomerID
	case model.AssignmentSite:
		return t.ID() == p.SiteID
	case model.AssignmentPlayer:
		return t.ID() == p.PlayerID
	}
	return false
}

// bestMatch returns the most specific assignment type among the assignments
// that match p, and false when none do.
func bestMatch(assignments []model.ScheduleAssignment, p model.PlayerContext) (model.AssignmentType, bool) {
	var best model.AssignmentType
	found := false
	for _, a := range assignments {
		if !Matches(a, p) {
			continue
		}
		if !found || a.Target.Type().Specificity() > best.Specificity() {
			best = a.Target.Type()
			found = true
		}
	}
	return best, found
}
