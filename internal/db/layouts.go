package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

func (p *pgStore) LayoutExists(ctx context.Context, layoutID, customerID int) (bool, error) {
	var exists bool
	err := p.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM layouts WHERE layout_id = $1 AND customer_id = $2)
		`, layoutID, customerID)
	if err != nil {
		log.Error().Err(err).Int("layout_id", layoutID).Msg("LayoutExists failed")
		return false, err
	}
	return exists, nil
}

// FindLayoutWithLayers loads a layout and its layers ordered by z-index.
func (p *pgStore) FindLayoutWithLayers(ctx context.Context, layoutID, customerID int) (model.Layout, error) {
	var layout model.Layout
	err := p.db.GetContext(ctx, &layout, `
		SELECT layout_id, customer_id, name, width, height, created_at, updated_at
		FROM layouts
		WHERE layout_id = $1 AND customer_id = $2
		`, layoutID, customerID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("layout_id", layoutID).Msg("failed to get layout")
		}
		return model.Layout{}, translate(err)
	}

	layout.Layers = []model.Layer{}
	err = p.db.SelectContext(ctx, &layout.Layers, `
		SELECT layer_id, layout_id, name, z_index, x, y, width, height, content_id
		FROM layout_layers
		WHERE layout_id = $1
		ORDER BY z_index, layer_id
		`, layoutID)
	if err != nil {
		log.Error().Err(err).Int("layout_id", layoutID).Msg("failed to list layout layers")
		return model.Layout{}, err
	}
	return layout, nil
}
