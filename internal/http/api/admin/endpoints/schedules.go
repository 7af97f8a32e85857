package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/db"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

// CandidateInvalidator drops cached resolution candidates for a customer.
type CandidateInvalidator interface {
	Invalidate(ctx context.Context, customerID int) error
}

type ScheduleController struct {
	store       db.Store
	invalidator CandidateInvalidator
}

// NewScheduleController accepts a nil invalidator when no cache is configured.
func NewScheduleController(store db.Store, invalidator CandidateInvalidator) *ScheduleController {
	return &ScheduleController{store: store, invalidator: invalidator}
}

func ScheduleModule(store db.Store, invalidator CandidateInvalidator) api.Module {
	packets.RegisterValidators()
	ctl := NewScheduleController(store, invalidator)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", api.ResolveAdminEndpoint(ctl.listSchedules))
		c.POST("/schedules", api.ResolveAdminEndpoint(ctl.createSchedule))
		c.GET("/schedules/:id", api.ResolveAdminEndpoint(ctl.getSchedule))
		c.PATCH("/schedules/:id", api.ResolveAdminEndpoint(ctl.updateSchedule))
		c.DELETE("/schedules/:id", api.ResolveAdminEndpoint(ctl.deleteSchedule))

		c.POST("/schedules/:id/assignments", api.ResolveAdminEndpoint(ctl.createAssignment))
		c.DELETE("/schedules/:id/assignments/:assignmentId", api.ResolveAdminEndpoint(ctl.deleteAssignment))
	})
}

func (s *ScheduleController) listSchedules(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	list, err := s.store.ListSchedules(ctx.Request.Context(), admin.CustomerID)
	if err != nil {
		return nil, internalError("failed to list schedules")
	}

	response := make([]packets.ScheduleResponse, 0, len(list))
	for _, it := range list {
		response = append(response, packets.NewScheduleResponse(it, nil))
	}
	return response, nil
}

func (s *ScheduleController) getSchedule(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	id, apiErr := pathID(ctx, "id", "invalid schedule id")
	if apiErr != nil {
		return nil, apiErr
	}

	sc, err := s.store.GetSchedule(ctx.Request.Context(), id, admin.CustomerID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, scheduleNotFound()
	}
	if err != nil {
		return nil, internalError("could not load schedule")
	}

	assignments, err := s.store.ListAssignments(ctx.Request.Context(), id, admin.CustomerID)
	if err != nil {
		return nil, internalError("could not load assignments")
	}
	return packets.NewScheduleResponse(sc, assignments), nil
}

func (s *ScheduleController) createSchedule(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	var request packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, bindError(err)
	}

	sc := model.Schedule{
		CustomerID: admin.CustomerID,
		Name:       request.Name,
		LayoutID:   request.LayoutID,
		Priority:   request.Priority,
		IsActive:   true,
		CreatedBy:  admin.UserID,
	}
	if request.IsActive != nil {
		sc.IsActive = *request.IsActive
	}

	var err error
	if sc.StartDate, err = parseDate(request.StartDate); err != nil {
		return nil, validationError(err)
	}
	if sc.EndDate, err = parseDate(request.EndDate); err != nil {
		return nil, validationError(err)
	}
	if sc.StartTime, err = parseClock(request.StartTime); err != nil {
		return nil, validationError(err)
	}
	if sc.EndTime, err = parseClock(request.EndTime); err != nil {
		return nil, validationError(err)
	}
	if sc.DaysOfWeek, err = model.WeekdaysFromCodes(request.DaysOfWeek); err != nil {
		return nil, validationError(err)
	}
	if err := sc.Validate(); err != nil {
		return nil, validationError(err)
	}
	if apiErr := s.requireLayout(ctx, sc.LayoutID, admin.CustomerID); apiErr != nil {
		return nil, apiErr
	}

	created, err := s.store.CreateSchedule(ctx.Request.Context(), sc)
	switch {
	case errors.Is(err, db.ErrConflict):
		return nil, api.NewError(http.StatusConflict, api.ReasonConflict, "schedule conflicts with an existing one")
	case errors.Is(err, db.ErrNotFound):
		return nil, api.NewError(http.StatusNotFound, api.ReasonLayoutNotFound, "layout not found")
	case err != nil:
		return nil, internalError("could not create schedule")
	}

	s.invalidate(ctx, admin.CustomerID)
	return api.Created(packets.NewScheduleResponse(created, nil)), nil
}

func (s *ScheduleController) updateSchedule(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	id, apiErr := pathID(ctx, "id", "invalid schedule id")
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, bindError(err)
	}

	sc, err := s.store.GetSchedule(ctx.Request.Context(), id, admin.CustomerID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, scheduleNotFound()
	}
	if err != nil {
		return nil, internalError("could not load schedule")
	}

	layoutChanged := false
	if err := applyUpdate(&sc, request, &layoutChanged); err != nil {
		return nil, validationError(err)
	}
	if err := sc.Validate(); err != nil {
		return nil, validationError(err)
	}
	if layoutChanged {
		if apiErr := s.requireLayout(ctx, sc.LayoutID, admin.CustomerID); apiErr != nil {
			return nil, apiErr
		}
	}

	updated, err := s.store.UpdateSchedule(ctx.Request.Context(), sc)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil, scheduleNotFound()
	case errors.Is(err, db.ErrConflict):
		return nil, api.NewError(http.StatusConflict, api.ReasonConflict, "schedule update rejected")
	case err != nil:
		return nil, internalError("could not update schedule")
	}

	s.invalidate(ctx, admin.CustomerID)
	return packets.NewScheduleResponse(updated, nil), nil
}

func (s *ScheduleController) deleteSchedule(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	id, apiErr := pathID(ctx, "id", "invalid schedule id")
	if apiErr != nil {
		return nil, apiErr
	}

	err := s.store.DeleteSchedule(ctx.Request.Context(), id, admin.CustomerID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, scheduleNotFound()
	}
	if err != nil {
		return nil, internalError("could not delete schedule")
	}

	s.invalidate(ctx, admin.CustomerID)
	return gin.H{"message": "deleted"}, nil
}

func (s *ScheduleController) createAssignment(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	scheduleID, apiErr := pathID(ctx, "id", "invalid schedule id")
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, bindError(err)
	}
	target, err := request.Target()
	if err != nil {
		return nil, validationError(err)
	}

	if _, err := s.store.GetSchedule(ctx.Request.Context(), scheduleID, admin.CustomerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, scheduleNotFound()
		}
		return nil, internalError("could not load schedule")
	}
	if apiErr := s.requireTarget(ctx, target, admin.CustomerID); apiErr != nil {
		return nil, apiErr
	}

	assignment, err := s.store.CreateAssignment(ctx.Request.Context(), admin.CustomerID, scheduleID, target)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil, scheduleNotFound()
	case errors.Is(err, db.ErrConflict):
		return nil, api.NewError(http.StatusConflict, api.ReasonConflict, "schedule is already assigned to "+target.String())
	case err != nil:
		return nil, internalError("could not create assignment")
	}

	s.invalidate(ctx, admin.CustomerID)
	return api.Created(packets.NewAssignmentResponse(assignment)), nil
}

func (s *ScheduleController) deleteAssignment(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	scheduleID, apiErr := pathID(ctx, "id", "invalid schedule id")
	if apiErr != nil {
		return nil, apiErr
	}
	assignmentID, apiErr := pathID(ctx, "assignmentId", "invalid assignment id")
	if apiErr != nil {
		return nil, apiErr
	}

	err := s.store.DeleteAssignment(ctx.Request.Context(), assignmentID, scheduleID, admin.CustomerID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, api.NewError(http.StatusNotFound, api.ReasonAssignmentNotFound, "assignment not found")
	}
	if err != nil {
		return nil, internalError("could not delete assignment")
	}

	s.invalidate(ctx, admin.CustomerID)
	return gin.H{"message": "deleted"}, nil
}

func (s *ScheduleController) requireLayout(ctx *gin.Context, layoutID, customerID int) *api.APIError {
	ok, err := s.store.LayoutExists(ctx.Request.Context(), layoutID, customerID)
	if err != nil {
		return internalError("could not check layout")
	}
	if !ok {
		return api.NewError(http.StatusNotFound, api.ReasonLayoutNotFound, "layout not found")
	}
	return nil
}

// requireTarget checks that the assignment target belongs to the admin's customer.
func (s *ScheduleController) requireTarget(ctx *gin.Context, target model.Target, customerID int) *api.APIError {
	var err error
	switch target.Type() {
	case model.AssignmentCustomer:
		if target.ID() != customerID {
			return api.NewError(http.StatusForbidden, api.ReasonForbidden, "cannot assign to another customer")
		}
		return nil
	case model.AssignmentSite:
		_, err = s.store.GetSite(ctx.Request.Context(), target.ID(), customerID)
	case model.AssignmentPlayer:
		_, err = s.store.FindPlayer(ctx.Request.Context(), target.ID(), customerID)
	}
	if errors.Is(err, db.ErrNotFound) {
		return api.NewError(http.StatusNotFound, api.ReasonTargetNotFound, target.String()+" not found")
	}
	if err != nil {
		return internalError("could not check assignment target")
	}
	return nil
}

// invalidate is best effort; a stale entry expires within the cache TTL.
func (s *ScheduleController) invalidate(ctx *gin.Context, customerID int) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx.Request.Context(), customerID); err != nil {
		log.Warn().Err(err).Int("customer_id", customerID).Msg("could not invalidate schedule cache")
	}
}

func applyUpdate(sc *model.Schedule, request packets.UpdateScheduleRequest, layoutChanged *bool) error {
	if request.Name != nil {
		sc.Name = *request.Name
	}
	if request.LayoutID != nil && *request.LayoutID != sc.LayoutID {
		sc.LayoutID = *request.LayoutID
		*layoutChanged = true
	}
	if request.Priority != nil {
		sc.Priority = *request.Priority
	}
	if request.IsActive != nil {
		sc.IsActive = *request.IsActive
	}

	if request.ClearDates {
		sc.StartDate, sc.EndDate = nil, nil
	}
	if request.StartDate != nil {
		d, err := parseDate(request.StartDate)
		if err != nil {
			return err
		}
		sc.StartDate = d
	}
	if request.EndDate != nil {
		d, err := parseDate(request.EndDate)
		if err != nil {
			return err
		}
		sc.EndDate = d
	}

	if request.ClearTimes {
		sc.StartTime, sc.EndTime = nil, nil
	}
	if request.StartTime != nil {
		c, err := parseClock(request.StartTime)
		if err != nil {
			return err
		}
		sc.StartTime = c
	}
	if request.EndTime != nil {
		c, err := parseClock(request.EndTime)
		if err != nil {
			return err
		}
		sc.EndTime = c
	}

	if request.ClearDays {
		sc.DaysOfWeek = 0
	}
	if request.DaysOfWeek != nil {
		days, err := model.WeekdaysFromCodes(*request.DaysOfWeek)
		if err != nil {
			return err
		}
		sc.DaysOfWeek = days
	}
	return nil
}

func parseDate(s *string) (*model.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseClock(s *string) (*model.ClockTime, error) {
	if s == nil {
		return nil, nil
	}
	c, err := model.ParseClockTime(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func pathID(ctx *gin.Context, name, message string) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, api.NewError(http.StatusBadRequest, api.ReasonBadRequest, message)
	}
	return id, nil
}

// bindError separates malformed JSON from bodies that fail validation.
func bindError(err error) *api.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validationError(verrs)
	}
	return api.NewError(http.StatusBadRequest, api.ReasonBadRequest, err.Error())
}

func validationError(err error) *api.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "exactly_one_target" {
			return api.NewError(http.StatusBadRequest, api.ReasonValidation, "assignment must set exactly one target matching assignment_type")
		}
		return api.NewError(http.StatusBadRequest, api.ReasonValidation, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
	}
	return api.NewError(http.StatusBadRequest, api.ReasonValidation, err.Error())
}

func scheduleNotFound() *api.APIError {
	return api.NewError(http.StatusNotFound, api.ReasonScheduleNotFound, "schedule not found")
}

func internalError(message string) *api.APIError {
	return api.NewError(http.StatusInternalServerError, api.ReasonInternal, message)
}
