package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

type AssignmentResponse struct {
	ID               int    `json:"assignment_id"`
	ScheduleID       int    `json:"schedule_id"`
	AssignmentType   string `json:"assignment_type"`
	TargetCustomerID *int   `json:"target_customer_id"`
	TargetSiteID     *int   `json:"target_site_id"`
	TargetPlayerID   *int   `json:"target_player_id"`
	CreatedAt        string `json:"created_at"`
}

type ScheduleResponse struct {
	ID          int                  `json:"schedule_id"`
	Name        string               `json:"name"`
	LayoutID    int                  `json:"layout_id"`
	Priority    int                  `json:"priority"`
	StartDate   *string              `json:"start_date"`
	EndDate     *string              `json:"end_date"`
	StartTime   *string              `json:"start_time"`
	EndTime     *string              `json:"end_time"`
	DaysOfWeek  []string             `json:"days_of_week"`
	IsActive    bool                 `json:"is_active"`
	CreatedBy   int                  `json:"created_by"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
	Assignments []AssignmentResponse `json:"assignments,omitempty"`
}

func NewAssignmentResponse(a model.ScheduleAssignment) AssignmentResponse {
	c, s, p := a.Target.Columns()
	return AssignmentResponse{
		ID:               a.ID,
		ScheduleID:       a.ScheduleID,
		AssignmentType:   string(a.Target.Type()),
		TargetCustomerID: c,
		TargetSiteID:     s,
		TargetPlayerID:   p,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
}

func NewScheduleResponse(s model.Schedule, assignments []model.ScheduleAssignment) ScheduleResponse {
	out := ScheduleResponse{
		ID:         s.ID,
		Name:       s.Name,
		LayoutID:   s.LayoutID,
		Priority:   s.Priority,
		DaysOfWeek: s.DaysOfWeek.Codes(),
		IsActive:   s.IsActive,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt.Format(time.RFC3339),
	}
	if s.StartDate != nil {
		v := s.StartDate.String()
		out.StartDate = &v
	}
	if s.EndDate != nil {
		v := s.EndDate.String()
		out.EndDate = &v
	}
	if s.StartTime != nil {
		v := s.StartTime.String()
		out.StartTime = &v
	}
	if s.EndTime != nil {
		v := s.EndTime.String()
		out.EndTime = &v
	}
	for _, a := range assignments {
		out.Assignments = append(out.Assignments, NewAssignmentResponse(a))
	}
	return out
}
