package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

// TestStoreIntegration runs against a real PostgreSQL when TEST_DATABASE_URL is set.
func TestStoreIntegration(t *testing.T) {
	conn, err := OpenTestDB("../../migrations")
	if errors.Is(err, ErrNoTestDatabase) {
		t.Skip(err.Error())
	}
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	store := NewStore(conn)
	customerID, siteID, playerID, layoutID := seedDirectory(t, conn)

	t.Run("Schedule lifecycle", func(t *testing.T) {
		start, _ := model.ParseClockTime("22:00")
		end, _ := model.ParseClockTime("06:00")
		created, err := store.CreateSchedule(ctx, model.Schedule{
			CustomerID: customerID, Name: "Overnight", LayoutID: layoutID, Priority: 30,
			StartTime: &start, EndTime: &end, DaysOfWeek: model.NewWeekdays(time.Saturday),
			IsActive: true, CreatedBy: 1,
		})
		require.NoError(t, err)
		assert.True(t, created.Overnight())

		_, err = store.CreateAssignment(ctx, customerID, created.ID, model.SiteTarget(siteID))
		require.NoError(t, err)
		_, err = store.CreateAssignment(ctx, customerID, created.ID, model.PlayerTarget(playerID))
		require.NoError(t, err)
		_, err = store.CreateAssignment(ctx, customerID, created.ID, model.PlayerTarget(playerID))
		assert.ErrorIs(t, err, ErrConflict)

		candidates, err := store.FindActiveSchedulesWithAssignments(ctx, customerID)
		require.NoError(t, err)
		require.NotEmpty(t, candidates)

		_, err = store.GetSchedule(ctx, created.ID, customerID+1000)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.DeleteSchedule(ctx, created.ID, customerID))
		assignments, err := store.ListAssignments(ctx, created.ID, customerID)
		require.NoError(t, err)
		assert.Empty(t, assignments, "assignments cascade with their schedule")
	})

	t.Run("Directory lookups", func(t *testing.T) {
		player, err := store.FindPlayer(ctx, playerID, customerID)
		require.NoError(t, err)
		assert.Equal(t, siteID, player.SiteID)

		zone, err := store.SiteTimeZone(ctx, siteID, customerID)
		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", zone)

		layout, err := store.FindLayoutWithLayers(ctx, layoutID, customerID)
		require.NoError(t, err)
		assert.Len(t, layout.Layers, 1)
	})
}

func seedDirectory(t *testing.T, conn *sqlx.DB) (customerID, siteID, playerID, layoutID int) {
	t.Helper()
	require.NoError(t, conn.Get(&customerID, `INSERT INTO customers (name) VALUES ('Acme') RETURNING customer_id`))
	require.NoError(t, conn.Get(&siteID, `INSERT INTO sites (customer_id, name, time_zone) VALUES ($1, 'HQ', 'Europe/Berlin') RETURNING site_id`, customerID))
	require.NoError(t, conn.Get(&playerID, `INSERT INTO players (site_id, customer_id, name) VALUES ($1, $2, 'Lobby TV') RETURNING player_id`, siteID, customerID))
	require.NoError(t, conn.Get(&layoutID, `INSERT INTO layouts (customer_id, name) VALUES ($1, 'Default') RETURNING layout_id`, customerID))
	_, err := conn.Exec(`INSERT INTO layout_layers (layout_id, name, width, height) VALUES ($1, 'full', 1920, 1080)`, layoutID)
	require.NoError(t, err)
	return
}
