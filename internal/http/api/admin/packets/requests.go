package packets

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

type CreateScheduleRequest struct {
	Name       string   `json:"name"         binding:"required,max=255"`
	LayoutID   int      `json:"layout_id"    binding:"required,gt=0"`
	Priority   int      `json:"priority"     binding:"min=0,max=100"`
	StartDate  *string  `json:"start_date"   binding:"omitempty,datetime=2006-01-02"`
	EndDate    *string  `json:"end_date"     binding:"omitempty,datetime=2006-01-02"`
	StartTime  *string  `json:"start_time"   binding:"required_with=EndTime"`
	EndTime    *string  `json:"end_time"     binding:"required_with=StartTime"`
	DaysOfWeek []string `json:"days_of_week" binding:"omitempty,max=7,dive,required"`
	IsActive   *bool    `json:"is_active"`
}

// UpdateScheduleRequest carries a partial update. The clear flags null out a
// group of optional fields and cannot be combined with values for that group.
type UpdateScheduleRequest struct {
	Name       *string   `json:"name"         binding:"omitempty,min=1,max=255"`
	LayoutID   *int      `json:"layout_id"    binding:"omitempty,gt=0"`
	Priority   *int      `json:"priority"     binding:"omitempty,min=0,max=100"`
	StartDate  *string   `json:"start_date"   binding:"omitempty,datetime=2006-01-02"`
	EndDate    *string   `json:"end_date"     binding:"omitempty,datetime=2006-01-02"`
	StartTime  *string   `json:"start_time"`
	EndTime    *string   `json:"end_time"`
	DaysOfWeek *[]string `json:"days_of_week"`
	IsActive   *bool     `json:"is_active"`
	ClearDates bool      `json:"clear_dates"  binding:"excluded_with=StartDate EndDate"`
	ClearTimes bool      `json:"clear_times"  binding:"excluded_with=StartTime EndTime"`
	ClearDays  bool      `json:"clear_days"   binding:"excluded_with=DaysOfWeek"`
}

// CreateAssignmentRequest names exactly one target column, the one matching
// AssignmentType.
type CreateAssignmentRequest struct {
	AssignmentType   string `json:"assignment_type"    binding:"required"`
	TargetCustomerID *int   `json:"target_customer_id"`
	TargetSiteID     *int   `json:"target_site_id"`
	TargetPlayerID   *int   `json:"target_player_id"`
}

func (r CreateAssignmentRequest) Target() (model.Target, error) {
	return model.TargetFromColumns(r.AssignmentType, r.TargetCustomerID, r.TargetSiteID, r.TargetPlayerID)
}

func validateAssignmentTarget(sl validator.StructLevel) {
	r := sl.Current().Interface().(CreateAssignmentRequest)
	if _, err := r.Target(); err != nil {
		sl.ReportError(r.AssignmentType, "AssignmentType", "assignment_type", "exactly_one_target", "")
	}
}

var registerOnce sync.Once

// RegisterValidators installs the struct-level validators on gin's binding
// engine. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("packets: unexpected validator engine %T", binding.Validator.Engine()))
		}
		v.RegisterStructValidation(validateAssignmentTarget, CreateAssignmentRequest{})
	})
}
