package packets

import "github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"

// ScheduleResponse is what a polling player receives when a schedule applies.
type ScheduleResponse struct {
	Schedule   model.Schedule       `json:"schedule"`
	MatchedBy  model.AssignmentType `json:"matched_by"`
	Layout     model.Layout         `json:"layout"`
	ResolvedAt string               `json:"resolved_at"`
}
