package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

func (p *pgStore) FindPlayer(ctx context.Context, playerID, customerID int) (model.Player, error) {
	var player model.Player
	err := p.db.GetContext(ctx, &player, `
		SELECT player_id, site_id, customer_id, name
		FROM players
		WHERE player_id = $1 AND customer_id = $2
		`, playerID, customerID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("player_id", playerID).Msg("failed to find player")
		}
		return model.Player{}, translate(err)
	}
	return player, nil
}

func (p *pgStore) GetSite(ctx context.Context, siteID, customerID int) (model.Site, error) {
	var site model.Site
	err := p.db.GetContext(ctx, &site, `
		SELECT site_id, customer_id, name, time_zone
		FROM sites
		WHERE site_id = $1 AND customer_id = $2
		`, siteID, customerID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("site_id", siteID).Msg("failed to get site")
		}
		return model.Site{}, translate(err)
	}
	return site, nil
}

// SiteTimeZone returns the site's IANA zone name, or "" when none is set.
func (p *pgStore) SiteTimeZone(ctx context.Context, siteID, customerID int) (string, error) {
	site, err := p.GetSite(ctx, siteID, customerID)
	if err != nil {
		return "", err
	}
	if site.TimeZone == nil {
		return "", nil
	}
	return *site.TimeZone, nil
}
