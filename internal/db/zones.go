package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

func (s *sqlStore) ListZones(ctx context.Context) ([]model.Zone, error) {
	zones := []model.Zone{}
	query := `
	SELECT
	id,
	display_name,
	description,
	display_order
	FROM zones
	ORDER BY display_order, id;`

	if err := s.db.SelectContext(ctx, &zones, query); err != nil {
		log.Error().Err(err).Msg("[db] failed to list zones")
		return nil, err
	}
	return zones, nil
}

func (s *sqlStore) GetZone(ctx context.Context, id string) (model.Zone, error) {
	var z model.Zone
	query := s.db.Rebind(`SELECT id, display_name, description, display_order FROM zones WHERE id = ?;`)

	if err := s.db.GetContext(ctx, &z, query, id); err != nil {
		return model.Zone{}, notFound(err, "zone", id)
	}
	return z, nil
}
