package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

// Reason codes let clients tell failures with the same status apart.
const (
	ReasonUnauthorized        = "unauthorized"
	ReasonForbidden           = "forbidden"
	ReasonBadRequest          = "bad-request"
	ReasonValidation          = "validation-error"
	ReasonNoActiveSchedule    = "no-active-schedule"
	ReasonPlayerNotFound      = "player-not-found"
	ReasonLayoutNotFound      = "layout-not-found"
	ReasonScheduleNotFound    = "schedule-not-found"
	ReasonAssignmentNotFound  = "assignment-not-found"
	ReasonTargetNotFound      = "target-not-found"
	ReasonConflict            = "conflict"
	ReasonScheduleUnavailable = "schedule-unavailable"
	ReasonInternal            = "internal-error"
)

type APIError struct {
	Code    int
	Reason  string
	Message string
}

func (e *APIError) Error() string { return e.Message }

func NewError(code int, reason, message string) *APIError {
	return &APIError{Code: code, Reason: reason, Message: message}
}

// Response lets a handler pick a status other than 200.
type Response struct {
	Status int
	Body   any
}

func Created(body any) Response {
	return Response{Status: http.StatusCreated, Body: body}
}

type HandlerFunc func(ctx *gin.Context) (any, *APIError)
type AdminHandlerFunc func(ctx *gin.Context, admin *model.Admin) (any, *APIError)
type PlayerHandlerFunc func(ctx *gin.Context, player *model.PlayerContext) (any, *APIError)

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		respond(ctx, result, apiErr)
	}
}

func ResolveAdminEndpoint(h AdminHandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		admin, ok := middleware.GetCurrentAdmin(ctx)
		if !ok {
			abort(ctx, NewError(http.StatusUnauthorized, ReasonUnauthorized, "unauthorized"))
			return
		}
		result, apiErr := h(ctx, admin)
		respond(ctx, result, apiErr)
	}
}

func ResolvePlayerEndpoint(h PlayerHandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		player, ok := middleware.GetCurrentPlayer(ctx)
		if !ok {
			abort(ctx, NewError(http.StatusUnauthorized, ReasonUnauthorized, "unauthorized"))
			return
		}
		result, apiErr := h(ctx, player)
		respond(ctx, result, apiErr)
	}
}

func respond(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		abort(ctx, apiErr)
		return
	}
	if r, ok := result.(Response); ok {
		ctx.JSON(r.Status, r.Body)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func abort(ctx *gin.Context, e *APIError) {
	ctx.AbortWithStatusJSON(e.Code, gin.H{"error": e.Message, "code": e.Reason})
}
