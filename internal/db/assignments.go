package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

type assignmentRow struct {
	ID               int       `db:"assignment_id"`
	ScheduleID       int       `db:"schedule_id"`
	AssignmentType   string    `db:"assignment_type"`
	TargetCustomerID *int      `db:"target_customer_id"`
	TargetSiteID     *int      `db:"target_site_id"`
	TargetPlayerID   *int      `db:"target_player_id"`
	CreatedAt        time.Time `db:"created_at"`
}

// toModel leaves Target zero when the row breaks the one-target rule; the
// matcher reports and skips such assignments.
func (r assignmentRow) toModel() model.ScheduleAssignment {
	target, _ := model.TargetFromColumns(r.AssignmentType, r.TargetCustomerID, r.TargetSiteID, r.TargetPlayerID)
	return model.ScheduleAssignment{
		ID:         r.ID,
		ScheduleID: r.ScheduleID,
		Target:     target,
		CreatedAt:  r.CreatedAt,
	}
}

// CreateAssignment attaches target to a schedule owned by customerID.
func (p *pgStore) CreateAssignment(ctx context.Context, customerID, scheduleID int, target model.Target) (model.ScheduleAssignment, error) {
	if !target.Valid() {
		return model.ScheduleAssignment{}, model.ErrMalformedAssignment
	}
	const q = `
	INSERT INTO schedule_assignments
	  (schedule_id, assignment_type, target_customer_id, target_site_id, target_player_id, created_at)
	SELECT s.schedule_id, $3, $4, $5, $6, now()
	  FROM schedules s
	 WHERE s.schedule_id = $1 AND s.customer_id = $2
	RETURNING assignment_id, schedule_id, assignment_type,
	          target_customer_id, target_site_id, target_player_id, created_at;`

	customer, site, player := target.Columns()
	var row assignmentRow
	err := p.db.GetContext(ctx, &row, q, scheduleID, customerID, string(target.Type()), customer, site, player)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("schedule_id", scheduleID).Str("target", target.String()).Msg("CreateAssignment failed")
		}
		return model.ScheduleAssignment{}, translate(err)
	}
	return row.toModel(), nil
}

func (p *pgStore) ListAssignments(ctx context.Context, scheduleID, customerID int) ([]model.ScheduleAssignment, error) {
	const q = `
	SELECT a.assignment_id, a.schedule_id, a.assignment_type,
	       a.target_customer_id, a.target_site_id, a.target_player_id, a.created_at
	  FROM schedule_assignments a
	  JOIN schedules s ON s.schedule_id = a.schedule_id
	 WHERE a.schedule_id = $1 AND s.customer_id = $2
	 ORDER BY a.assignment_id;`

	var rows []assignmentRow
	if err := p.db.SelectContext(ctx, &rows, q, scheduleID, customerID); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("ListAssignments failed")
		return nil, err
	}
	out := make([]model.ScheduleAssignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (p *pgStore) DeleteAssignment(ctx context.Context, assignmentID, scheduleID, customerID int) error {
	const q = `
	DELETE FROM schedule_assignments a
	 USING schedules s
	 WHERE a.schedule_id = s.schedule_id
	   AND a.assignment_id = $1
	   AND a.schedule_id = $2
	   AND s.customer_id = $3;`

	res, err := p.db.ExecContext(ctx, q, assignmentID, scheduleID, customerID)
	if err != nil {
		log.Error().Err(err).Int("assignment_id", assignmentID).Msg("DeleteAssignment failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
