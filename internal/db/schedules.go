package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

const scheduleColumns = `schedule_id, customer_id, name, layout_id, priority,
	start_date, end_date, start_time, end_time, days_of_week,
	is_active, created_by, created_at, updated_at`

type scheduleRow struct {
	ID         int            `db:"schedule_id"`
	CustomerID int            `db:"customer_id"`
	Name       string         `db:"name"`
	LayoutID   int            `db:"layout_id"`
	Priority   int            `db:"priority"`
	StartDate  sql.NullTime   `db:"start_date"`
	EndDate    sql.NullTime   `db:"end_date"`
	StartTime  sql.NullString `db:"start_time"`
	EndTime    sql.NullString `db:"end_time"`
	DaysOfWeek sql.NullString `db:"days_of_week"`
	IsActive   bool           `db:"is_active"`
	CreatedBy  int            `db:"created_by"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r scheduleRow) toModel() (model.Schedule, error) {
	s := model.Schedule{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Name:       r.Name,
		LayoutID:   r.LayoutID,
		Priority:   r.Priority,
		IsActive:   r.IsActive,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.StartDate.Valid {
		d := model.DateOf(r.StartDate.Time)
		s.StartDate = &d
	}
	if r.EndDate.Valid {
		d := model.DateOf(r.EndDate.Time)
		s.EndDate = &d
	}
	if r.StartTime.Valid {
		c, err := parseTimeColumn(r.StartTime.String)
		if err != nil {
			return s, fmt.Errorf("schedule %d start_time: %w", r.ID, err)
		}
		s.StartTime = &c
	}
	if r.EndTime.Valid {
		c, err := parseTimeColumn(r.EndTime.String)
		if err != nil {
			return s, fmt.Errorf("schedule %d end_time: %w", r.ID, err)
		}
		s.EndTime = &c
	}
	if r.DaysOfWeek.Valid {
		days, err := model.ParseWeekdays(r.DaysOfWeek.String)
		if err != nil {
			return s, fmt.Errorf("schedule %d days_of_week: %w", r.ID, err)
		}
		s.DaysOfWeek = days
	}
	return s, nil
}

// parseTimeColumn reads a postgres TIME value, dropping fractional seconds.
func parseTimeColumn(v string) (model.ClockTime, error) {
	if i := strings.IndexByte(v, '.'); i >= 0 {
		v = v[:i]
	}
	return model.ParseClockTime(v)
}

// scheduleArgs returns the nullable column values of s in the order
// start_date, end_date, start_time, end_time, days_of_week.
func scheduleArgs(s model.Schedule) []any {
	var startDate, endDate *time.Time
	if s.StartDate != nil {
		t := s.StartDate.Time()
		startDate = &t
	}
	if s.EndDate != nil {
		t := s.EndDate.Time()
		endDate = &t
	}
	var startTime, endTime, days *string
	if s.StartTime != nil {
		v := s.StartTime.SQL()
		startTime = &v
	}
	if s.EndTime != nil {
		v := s.EndTime.SQL()
		endTime = &v
	}
	if !s.DaysOfWeek.IsEmpty() {
		v := s.DaysOfWeek.String()
		days = &v
	}
	return []any{startDate, endDate, startTime, endTime, days}
}

func (p *pgStore) CreateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error) {
	q := `
	INSERT INTO schedules
	  (customer_id, name, layout_id, priority, start_date, end_date, start_time, end_time,
	   days_of_week, is_active, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
	RETURNING ` + scheduleColumns + `;`

	args := append([]any{s.CustomerID, s.Name, s.LayoutID, s.Priority}, scheduleArgs(s)...)
	args = append(args, s.IsActive, s.CreatedBy)

	var row scheduleRow
	if err := p.db.GetContext(ctx, &row, q, args...); err != nil {
		log.Error().Err(err).Int("customer_id", s.CustomerID).Msg("CreateSchedule failed")
		return model.Schedule{}, translate(err)
	}
	return row.toModel()
}

func (p *pgStore) GetSchedule(ctx context.Context, scheduleID, customerID int) (model.Schedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE schedule_id = $1 AND customer_id = $2;`

	var row scheduleRow
	if err := p.db.GetContext(ctx, &row, q, scheduleID, customerID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("schedule_id", scheduleID).Msg("GetSchedule failed")
		}
		return model.Schedule{}, translate(err)
	}
	return row.toModel()
}

func (p *pgStore) ListSchedules(ctx context.Context, customerID int) ([]model.Schedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE customer_id = $1 ORDER BY schedule_id;`

	var rows []scheduleRow
	if err := p.db.SelectContext(ctx, &rows, q, customerID); err != nil {
		log.Error().Err(err).Int("customer_id", customerID).Msg("ListSchedules failed")
		return nil, err
	}
	out := make([]model.Schedule, 0, len(rows))
	for _, r := range rows {
		s, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// UpdateSchedule overwrites every mutable column of s. Callers merge partial
// updates into the stored schedule first.
func (p *pgStore) UpdateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error) {
	q := `
	UPDATE schedules
	   SET name = $3,
	       layout_id = $4,
	       priority = $5,
	       start_date = $6,
	       end_date = $7,
	       start_time = $8,
	       end_time = $9,
	       days_of_week = $10,
	       is_active = $11,
	       updated_at = now()
	 WHERE schedule_id = $1 AND customer_id = $2
	RETURNING ` + scheduleColumns + `;`

	args := append([]any{s.ID, s.CustomerID, s.Name, s.LayoutID, s.Priority}, scheduleArgs(s)...)
	args = append(args, s.IsActive)

	var row scheduleRow
	if err := p.db.GetContext(ctx, &row, q, args...); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("schedule_id", s.ID).Msg("UpdateSchedule failed")
		}
		return model.Schedule{}, translate(err)
	}
	return row.toModel()
}

// DeleteSchedule removes the schedule; its assignments cascade.
func (p *pgStore) DeleteSchedule(ctx context.Context, scheduleID, customerID int) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM schedules WHERE schedule_id = $1 AND customer_id = $2;`, scheduleID, customerID)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("DeleteSchedule failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindActiveSchedulesWithAssignments loads every active schedule of the
// customer with all of its assignments. Temporal filtering happens in the
// resolver. Schedules whose stored values cannot be decoded are skipped.
func (p *pgStore) FindActiveSchedulesWithAssignments(ctx context.Context, customerID int) ([]model.ScheduleWithAssignments, error) {
	schedulesQuery := `SELECT ` + scheduleColumns + `
	  FROM schedules
	 WHERE customer_id = $1 AND is_active = TRUE
	 ORDER BY schedule_id;`

	var rows []scheduleRow
	if err := p.db.SelectContext(ctx, &rows, schedulesQuery, customerID); err != nil {
		log.Error().Err(err).Int("customer_id", customerID).Msg("FindActiveSchedulesWithAssignments schedules failed")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	const assignmentsQuery = `
	SELECT a.assignment_id, a.schedule_id, a.assignment_type,
	       a.target_customer_id, a.target_site_id, a.target_player_id, a.created_at
	  FROM schedule_assignments a
	  JOIN schedules s ON s.schedule_id = a.schedule_id
	 WHERE s.customer_id = $1 AND s.is_active = TRUE
	 ORDER BY a.schedule_id, a.assignment_id;`

	var assignmentRows []assignmentRow
	if err := p.db.SelectContext(ctx, &assignmentRows, assignmentsQuery, customerID); err != nil {
		log.Error().Err(err).Int("customer_id", customerID).Msg("FindActiveSchedulesWithAssignments assignments failed")
		return nil, err
	}
	bySchedule := make(map[int][]model.ScheduleAssignment, len(rows))
	for _, r := range assignmentRows {
		bySchedule[r.ScheduleID] = append(bySchedule[r.ScheduleID], r.toModel())
	}

	out := make([]model.ScheduleWithAssignments, 0, len(rows))
	for _, r := range rows {
		s, err := r.toModel()
		if err != nil {
			log.Warn().Err(err).Int("schedule_id", r.ID).Msg("skipping undecodable schedule")
			continue
		}
		out = append(out, model.ScheduleWithAssignments{Schedule: s, Assignments: bySchedule[r.ID]})
	}
	return out, nil
}
