package model

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinPriority = 0
	MaxPriority = 100
)

// ErrInvalidSchedule is wrapped by every Schedule validation failure.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule binds a layout to a time window for one customer.
type Schedule struct {
	ID         int        `json:"schedule_id"`
	CustomerID int        `json:"customer_id"`
	Name       string     `json:"name"`
	LayoutID   int        `json:"layout_id"`
	Priority   int        `json:"priority"`
	StartDate  *Date      `json:"start_date,omitempty"`
	EndDate    *Date      `json:"end_date,omitempty"`
	StartTime  *ClockTime `json:"start_time,omitempty"`
	EndTime    *ClockTime `json:"end_time,omitempty"`
	DaysOfWeek Weekdays   `json:"days_of_week"`
	IsActive   bool       `json:"is_active"`
	CreatedBy  int        `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// HasTimeWindow reports whether both daily bounds are set. A schedule with only
// one bound is treated as not time-bounded.
func (s Schedule) HasTimeWindow() bool {
	return s.StartTime != nil && s.EndTime != nil
}

// Overnight reports whether the daily window wraps past midnight.
func (s Schedule) Overnight() bool {
	return s.HasTimeWindow() && *s.EndTime < *s.StartTime
}

// Validate checks the write-time invariants of a schedule.
func (s Schedule) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSchedule)
	}
	if s.LayoutID <= 0 {
		return fmt.Errorf("%w: layout_id is required", ErrInvalidSchedule)
	}
	if s.Priority < MinPriority || s.Priority > MaxPriority {
		return fmt.Errorf("%w: priority must be between %d and %d", ErrInvalidSchedule, MinPriority, MaxPriority)
	}
	if (s.StartTime == nil) != (s.EndTime == nil) {
		return fmt.Errorf("%w: start_time and end_time must be set together", ErrInvalidSchedule)
	}
	if s.StartDate != nil && s.EndDate != nil && s.EndDate.Before(*s.StartDate) {
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidSchedule)
	}
	return nil
}

// ScheduleWithAssignments is one resolution candidate.
type ScheduleWithAssignments struct {
	Schedule    Schedule             `json:"schedule"`
	Assignments []ScheduleAssignment `json:"assignments"`
}

// ResolvedSchedule is the winner of a resolution together with the assignment
// type that was used to rank it.
type ResolvedSchedule struct {
	Schedule  Schedule       `json:"schedule"`
	MatchedBy AssignmentType `json:"matched_by"`
}
