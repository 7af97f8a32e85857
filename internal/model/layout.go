package model

import "time"

type Layout struct {
	ID         int       `db:"layout_id"   json:"layout_id"`
	CustomerID int       `db:"customer_id" json:"customer_id"`
	Name       string    `db:"name"        json:"name"`
	Width      int       `db:"width"       json:"width"`
	Height     int       `db:"height"      json:"height"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
	Layers     []Layer   `db:"-"           json:"layers"`
}

// Layer is one visual zone of a layout.
type Layer struct {
	ID        int    `db:"layer_id"   json:"layer_id"`
	LayoutID  int    `db:"layout_id"  json:"layout_id"`
	Name      string `db:"name"       json:"name"`
	ZIndex    int    `db:"z_index"    json:"z_index"`
	X         int    `db:"x"          json:"x"`
	Y         int    `db:"y"          json:"y"`
	Width     int    `db:"width"      json:"width"`
	Height    int    `db:"height"     json:"height"`
	ContentID *int   `db:"content_id" json:"content_id,omitempty"`
}
