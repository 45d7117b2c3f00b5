package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const contentColumns = `id, type, title, media_url, mime_type, zone, duration_seconds, active, created_at, updated_at`

func (s *sqlStore) CreateContent(ctx context.Context, c model.ContentItem) (model.ContentItem, error) {
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	query := s.db.Rebind(`
	INSERT INTO content
	(` + contentColumns + `)
	VALUES
	(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)

	if _, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.Type,
		c.Title,
		c.MediaURL,
		c.MimeType,
		c.Zone,
		c.DurationSeconds,
		c.Active,
		c.CreatedAt,
		c.UpdatedAt,
	); err != nil {
		log.Error().Err(err).Str("content_id", c.ID).Msg("[db] failed to create content")
		return model.ContentItem{}, err
	}
	return c, nil
}

func (s *sqlStore) GetContentByID(ctx context.Context, id string) (model.ContentItem, error) {
	var c model.ContentItem
	query := s.db.Rebind(`SELECT ` + contentColumns + ` FROM content WHERE id = ?;`)

	if err := s.db.GetContext(ctx, &c, query, id); err != nil {
		return model.ContentItem{}, notFound(err, "content", id)
	}
	return c, nil
}

func (s *sqlStore) GetContentByIDs(ctx context.Context, ids []string) (map[string]model.ContentItem, error) {
	out := make(map[string]model.ContentItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+contentColumns+` FROM content WHERE id IN (?);`, ids)
	if err != nil {
		return nil, err
	}

	var rows []model.ContentItem
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		log.Error().Err(err).Int("count", len(ids)).Msg("[db] failed to load content batch")
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (s *sqlStore) ListContent(ctx context.Context, f ContentFilter) ([]model.ContentItem, error) {
	var (
		where []string
		args  []any
	)
	if !f.IncludeInactive {
		where = append(where, "active = ?")
		args = append(args, true)
	}
	if f.Zone != "" {
		where = append(where, "(zone = ? OR zone = ?)")
		args = append(args, f.Zone, model.AllZones)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}

	query := `SELECT ` + contentColumns + ` FROM content`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id;`

	all := []model.ContentItem{}
	if err := s.db.SelectContext(ctx, &all, s.db.Rebind(query), args...); err != nil {
		log.Error().Err(err).Msg("[db] failed to list content")
		return nil, err
	}
	return all, nil
}

// UpdateContent applies the non-nil fields of p and returns the updated record.
func (s *sqlStore) UpdateContent(ctx context.Context, id string, p ContentPatch) (model.ContentItem, error) {
	var (
		sets []string
		args []any
	)
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.MediaURL != nil {
		sets = append(sets, "media_url = ?")
		args = append(args, *p.MediaURL)
	}
	if p.Zone != nil {
		sets = append(sets, "zone = ?")
		args = append(args, *p.Zone)
	}
	if p.DurationSeconds != nil {
		sets = append(sets, "duration_seconds = ?")
		args = append(args, *p.DurationSeconds)
	}

	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, updatedAt.UTC(), id)

	query := s.db.Rebind(`UPDATE content SET ` + strings.Join(sets, ", ") + ` WHERE id = ?;`)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Str("content_id", id).Msg("[db] failed to update content")
		return model.ContentItem{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ContentItem{}, fmt.Errorf("content %q: %w", id, model.ErrNotFound)
	}
	return s.GetContentByID(ctx, id)
}

func (s *sqlStore) DeactivateContent(ctx context.Context, id string) error {
	query := s.db.Rebind(`UPDATE content SET active = ?, updated_at = ? WHERE id = ?;`)
	res, err := s.db.ExecContext(ctx, query, false, time.Now().UTC(), id)
	if err != nil {
		log.Error().Err(err).Str("content_id", id).Msg("[db] failed to deactivate content")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("content %q: %w", id, model.ErrNotFound)
	}
	return nil
}
