package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/db"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

// FixedLocation evaluates every player in the same zone.
type FixedLocation struct {
	Loc *time.Location
}

func (f FixedLocation) Location(context.Context, model.PlayerContext) (*time.Location, error) {
	if f.Loc == nil {
		return time.UTC, nil
	}
	return f.Loc, nil
}

// SiteDirectory returns a site's IANA zone name, "" when unset.
type SiteDirectory interface {
	SiteTimeZone(ctx context.Context, siteID, customerID int) (string, error)
}

// SiteLocations evaluates schedules in the zone configured on the player's
// site, falling back to a default zone when the site has none.
type SiteLocations struct {
	sites    SiteDirectory
	fallback *time.Location
	zones    sync.Map // zone name -> *time.Location
}

func NewSiteLocations(sites SiteDirectory, fallback *time.Location) *SiteLocations {
	if fallback == nil {
		fallback = time.UTC
	}
	return &SiteLocations{sites: sites, fallback: fallback}
}

func (s *SiteLocations) Location(ctx context.Context, p model.PlayerContext) (*time.Location, error) {
	name, err := s.sites.SiteTimeZone(ctx, p.SiteID, p.CustomerID)
	if errors.Is(err, db.ErrNotFound) {
		log.Warn().Int("site_id", p.SiteID).Msg("site not found, using default time zone")
		return s.fallback, nil
	}
	if err != nil {
		return nil, err
	}
	if name == "" {
		return s.fallback, nil
	}
	if loc, ok := s.zones.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Int("site_id", p.SiteID).Str("time_zone", name).Msg("invalid site time zone, using default")
		return s.fallback, nil
	}
	s.zones.Store(name, loc)
	return loc, nil
}
