package model

// PlayerContext is the authenticated identity of a polling player device.
type PlayerContext struct {
	PlayerID   int `json:"player_id"`
	SiteID     int `json:"site_id"`
	CustomerID int `json:"customer_id"`
}

// Player is a display device. Players are managed elsewhere; this service only reads them.
type Player struct {
	ID         int    `db:"player_id"   json:"player_id"`
	SiteID     int    `db:"site_id"     json:"site_id"`
	CustomerID int    `db:"customer_id" json:"customer_id"`
	Name       string `db:"name"        json:"name"`
}

type Site struct {
	ID         int     `db:"site_id"     json:"site_id"`
	CustomerID int     `db:"customer_id" json:"customer_id"`
	Name       string  `db:"name"        json:"name"`
	TimeZone   *string `db:"time_zone"   json:"time_zone,omitempty"`
}
