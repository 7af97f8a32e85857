package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/db"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api/player/packets"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

type ScheduleResolver interface {
	Resolve(ctx context.Context, p model.PlayerContext, instant time.Time) (*model.ResolvedSchedule, error)
}

type PlayerDirectory interface {
	FindPlayer(ctx context.Context, playerID, customerID int) (model.Player, error)
}

type LayoutLookup interface {
	FindLayoutWithLayers(ctx context.Context, layoutID, customerID int) (model.Layout, error)
}

type Options struct {
	// Timeout bounds each resolution, including repository retries.
	Timeout time.Duration
	// RetryAfter is advertised to players when resolution is unavailable.
	RetryAfter time.Duration
	Now        func() time.Time
}

type ScheduleController struct {
	resolver ScheduleResolver
	players  PlayerDirectory
	layouts  LayoutLookup
	opts     Options
}

func NewScheduleController(resolver ScheduleResolver, players PlayerDirectory, layouts LayoutLookup, opts Options) *ScheduleController {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ScheduleController{resolver: resolver, players: players, layouts: layouts, opts: opts}
}

func ScheduleModule(resolver ScheduleResolver, players PlayerDirectory, layouts LayoutLookup, opts Options) api.Module {
	ctl := NewScheduleController(resolver, players, layouts, opts)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/player-devices/:playerId/schedule", api.ResolvePlayerEndpoint(ctl.getSchedule))
	})
}

// GET /player-devices/:playerId/schedule
func (s *ScheduleController) getSchedule(ctx *gin.Context, player *model.PlayerContext) (any, *api.APIError) {
	playerID, err := strconv.Atoi(ctx.Param("playerId"))
	if err != nil || playerID <= 0 {
		return nil, api.NewError(http.StatusBadRequest, api.ReasonBadRequest, "invalid player id")
	}
	if playerID != player.PlayerID {
		return nil, api.NewError(http.StatusForbidden, api.ReasonForbidden, "token does not belong to this player")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), s.opts.Timeout)
	defer cancel()

	device, err := s.players.FindPlayer(reqCtx, playerID, player.CustomerID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, api.NewError(http.StatusNotFound, api.ReasonPlayerNotFound, "player not found")
	}
	if err != nil {
		return nil, s.unavailable(ctx, err)
	}

	pc := *player
	if device.SiteID != player.SiteID {
		log.Warn().
			Int("player_id", playerID).
			Int("token_site_id", player.SiteID).
			Int("site_id", device.SiteID).
			Msg("player moved sites since its token was issued")
		pc.SiteID = device.SiteID
	}

	now := s.opts.Now()
	resolved, err := s.resolver.Resolve(reqCtx, pc, now)
	if err != nil {
		return nil, s.unavailable(ctx, err)
	}
	if resolved == nil {
		return nil, api.NewError(http.StatusNotFound, api.ReasonNoActiveSchedule, "no active schedule")
	}

	layout, err := s.layouts.FindLayoutWithLayers(reqCtx, resolved.Schedule.LayoutID, pc.CustomerID)
	if errors.Is(err, db.ErrNotFound) {
		log.Warn().
			Int("schedule_id", resolved.Schedule.ID).
			Int("layout_id", resolved.Schedule.LayoutID).
			Msg("resolved schedule points at a missing layout")
		return nil, api.NewError(http.StatusNotFound, api.ReasonLayoutNotFound, "layout not found")
	}
	if err != nil {
		return nil, s.unavailable(ctx, err)
	}

	return packets.ScheduleResponse{
		Schedule:   resolved.Schedule,
		MatchedBy:  resolved.MatchedBy,
		Layout:     layout,
		ResolvedAt: now.UTC().Format(time.RFC3339),
	}, nil
}

func (s *ScheduleController) unavailable(ctx *gin.Context, err error) *api.APIError {
	log.Error().Err(err).Str("path", ctx.Request.URL.Path).Msg("schedule resolution failed")
	ctx.Header("Retry-After", strconv.Itoa(int(s.opts.RetryAfter.Seconds())))
	return api.NewError(http.StatusServiceUnavailable, api.ReasonScheduleUnavailable, "schedule temporarily unavailable")
}
