package schedule

import (
	"time"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

// IsActiveAt reports whether instant falls inside the schedule's date range,
// weekday set and daily time window. The instant is read in its own location,
// so callers convert it to the evaluation zone first. isActive is not checked
// here.
func IsActiveAt(s model.Schedule, instant time.Time) bool {
	return inDateRange(s, model.DateOf(instant)) &&
		onAllowedDay(s, instant.Weekday()) &&
		inTimeWindow(s, model.ClockOf(instant))
}

func inDateRange(s model.Schedule, day model.Date) bool {
	if s.StartDate != nil && day.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && day.After(*s.EndDate) {
		return false
	}
	return true
}

func onAllowedDay(s model.Schedule, d time.Weekday) bool {
	return s.DaysOfWeek.IsEmpty() || s.DaysOfWeek.Contains(d)
}

// inTimeWindow treats a half-specified window as unbounded.
func inTimeWindow(s model.Schedule, clock model.ClockTime) bool {
	if !s.HasTimeWindow() {
		return true
	}
	start, end := *s.StartTime, *s.EndTime
	if start <= end {
		return start <= clock && clock <= end
	}
	return clock >= start || clock <= end
}
