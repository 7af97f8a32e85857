// Package db is the PostgreSQL store behind schedule resolution and the
// admin schedule endpoints.
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

type Store interface {
	// schedule functions
	CreateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error)
	GetSchedule(ctx context.Context, scheduleID, customerID int) (model.Schedule, error)
	ListSchedules(ctx context.Context, customerID int) ([]model.Schedule, error)
	UpdateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error)
	DeleteSchedule(ctx context.Context, scheduleID, customerID int) error
	FindActiveSchedulesWithAssignments(ctx context.Context, customerID int) ([]model.ScheduleWithAssignments, error)

	// assignment functions
	CreateAssignment(ctx context.Context, customerID, scheduleID int, target model.Target) (model.ScheduleAssignment, error)
	ListAssignments(ctx context.Context, scheduleID, customerID int) ([]model.ScheduleAssignment, error)
	DeleteAssignment(ctx context.Context, assignmentID, scheduleID, customerID int) error

	// player and site functions
	FindPlayer(ctx context.Context, playerID, customerID int) (model.Player, error)
	GetSite(ctx context.Context, siteID, customerID int) (model.Site, error)
	SiteTimeZone(ctx context.Context, siteID, customerID int) (string, error)

	// layout functions
	LayoutExists(ctx context.Context, layoutID, customerID int) (bool, error)
	FindLayoutWithLayers(ctx context.Context, layoutID, customerID int) (model.Layout, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
