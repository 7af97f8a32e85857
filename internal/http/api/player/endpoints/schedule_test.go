package endpoints_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/db"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api/player/endpoints"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/schedule"
)

const jwtSecret = "supersecret"

// Tuesday 7 January 2025, 10:00 UTC.
var tuesday = time.Date(2025, time.January, 7, 10, 0, 0, 0, time.UTC)

type fakeDirectory struct {
	players map[int]model.Player
	layouts map[int]model.Layout
	rows    []model.ScheduleWithAssignments
	err     error
}

func (f *fakeDirectory) FindPlayer(_ context.Context, playerID, customerID int) (model.Player, error) {
	p, ok := f.players[playerID]
	if !ok || p.CustomerID != customerID {
		return model.Player{}, db.ErrNotFound
	}
	return p, nil
}

func (f *fakeDirectory) FindLayoutWithLayers(_ context.Context, layoutID, customerID int) (model.Layout, error) {
	l, ok := f.layouts[layoutID]
	if !ok || l.CustomerID != customerID {
		return model.Layout{}, fmt.Errorf("layout %d: %w", layoutID, db.ErrNotFound)
	}
	return l, nil
}

func (f *fakeDirectory) FindActiveSchedulesWithAssignments(_ context.Context, customerID int) ([]model.ScheduleWithAssignments, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		players: map[int]model.Player{42: {ID: 42, SiteID: 7, CustomerID: 1, Name: "Lobby"}},
		layouts: map[int]model.Layout{
			100: {ID: 100, CustomerID: 1, Name: "Welcome", Layers: []model.Layer{{ID: 1, LayoutID: 100, Name: "full", Width: 1920, Height: 1080}}},
		},
	}
}

func setupRouter(dir *fakeDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	resolver := schedule.NewResolver(dir, schedule.FixedLocation{Loc: time.UTC})
	api.MountGroup(r, api.GroupConfig{
		Middleware: []gin.HandlerFunc{middleware.PlayerJWTMiddleware(jwtSecret)},
	}, endpoints.ScheduleModule(resolver, dir, dir, endpoints.Options{
		Timeout:    time.Second,
		RetryAfter: 15 * time.Second,
		Now:        func() time.Time { return tuesday },
	}))
	return r
}

func playerToken(t *testing.T, p model.PlayerContext) string {
	t.Helper()
	token, err := middleware.GeneratePlayerJWT(p, jwtSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func getSchedule(r http.Handler, playerID int, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/player-devices/%d/schedule", playerID), nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

var lobby = model.PlayerContext{PlayerID: 42, SiteID: 7, CustomerID: 1}

func withSchedule(dir *fakeDirectory, s model.Schedule, target model.Target) {
	dir.rows = append(dir.rows, model.ScheduleWithAssignments{
		Schedule:    s,
		Assignments: []model.ScheduleAssignment{{ID: s.ID, ScheduleID: s.ID, Target: target}},
	})
}

func TestGetSchedule_Match(t *testing.T) {
	dir := newDirectory()
	withSchedule(dir, model.Schedule{ID: 1, CustomerID: 1, Name: "Player A", LayoutID: 100, Priority: 10, IsActive: true}, model.PlayerTarget(42))
	withSchedule(dir, model.Schedule{ID: 2, CustomerID: 1, Name: "Mondays", LayoutID: 100, Priority: 50, IsActive: true,
		DaysOfWeek: model.NewWeekdays(time.Monday)}, model.CustomerTarget(1))
	r := setupRouter(dir)

	w := getSchedule(r, 42, playerToken(t, lobby))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Schedule struct {
			ID int `json:"schedule_id"`
		} `json:"schedule"`
		MatchedBy string `json:"matched_by"`
		Layout    struct {
			ID     int           `json:"layout_id"`
			Layers []model.Layer `json:"layers"`
		} `json:"layout"`
		ResolvedAt string `json:"resolved_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Schedule.ID)
	assert.Equal(t, "Player", body.MatchedBy)
	assert.Equal(t, 100, body.Layout.ID)
	assert.Len(t, body.Layout.Layers, 1)
	assert.Equal(t, "2025-01-07T10:00:00Z", body.ResolvedAt)
}

func TestGetSchedule_NoActiveSchedule(t *testing.T) {
	dir := newDirectory()
	withSchedule(dir, model.Schedule{ID: 2, CustomerID: 1, Name: "Mondays", LayoutID: 100, Priority: 50, IsActive: true,
		DaysOfWeek: model.NewWeekdays(time.Monday)}, model.CustomerTarget(1))
	r := setupRouter(dir)

	w := getSchedule(r, 42, playerToken(t, lobby))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.ReasonNoActiveSchedule, errorCode(t, w))
}

func TestGetSchedule_PlayerNotFound(t *testing.T) {
	r := setupRouter(newDirectory())
	ghost := model.PlayerContext{PlayerID: 99, SiteID: 7, CustomerID: 1}

	w := getSchedule(r, 99, playerToken(t, ghost))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.ReasonPlayerNotFound, errorCode(t, w))
}

func TestGetSchedule_LayoutNotFound(t *testing.T) {
	dir := newDirectory()
	withSchedule(dir, model.Schedule{ID: 1, CustomerID: 1, Name: "Dangling", LayoutID: 555, Priority: 10, IsActive: true}, model.SiteTarget(7))
	r := setupRouter(dir)

	w := getSchedule(r, 42, playerToken(t, lobby))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.ReasonLayoutNotFound, errorCode(t, w))
}

func TestGetSchedule_RepositoryFailureIsRetryable(t *testing.T) {
	dir := newDirectory()
	dir.err = errors.New("connection refused")
	r := setupRouter(dir)

	w := getSchedule(r, 42, playerToken(t, lobby))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, api.ReasonScheduleUnavailable, errorCode(t, w))
	assert.Equal(t, "15", w.Header().Get("Retry-After"))
}

func TestGetSchedule_Auth(t *testing.T) {
	r := setupRouter(newDirectory())

	assert.Equal(t, http.StatusUnauthorized, getSchedule(r, 42, "").Code)

	admin, err := middleware.GenerateAdminJWT(1, 1, jwtSecret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, getSchedule(r, 42, admin).Code)

	other := model.PlayerContext{PlayerID: 43, SiteID: 7, CustomerID: 1}
	assert.Equal(t, http.StatusForbidden, getSchedule(r, 42, playerToken(t, other)).Code)
}

func TestGetSchedule_UsesCurrentSiteOfPlayer(t *testing.T) {
	dir := newDirectory()
	withSchedule(dir, model.Schedule{ID: 1, CustomerID: 1, Name: "Site 7", LayoutID: 100, Priority: 10, IsActive: true}, model.SiteTarget(7))
	r := setupRouter(dir)

	stale := model.PlayerContext{PlayerID: 42, SiteID: 8, CustomerID: 1}
	w := getSchedule(r, 42, playerToken(t, stale))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
