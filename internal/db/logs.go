package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

func (s *sqlStore) AddLog(ctx context.Context, entry model.LogEntry) error {
	if entry.Data == "" {
		entry.Data = "{}"
	}
	query := s.db.Rebind(`INSERT INTO logs (id, kind, message, data, created_at) VALUES (?, ?, ?, ?, ?);`)

	if _, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Kind,
		entry.Message,
		entry.Data,
		entry.CreatedAt.UTC(),
	); err != nil {
		log.Error().Err(err).Str("kind", entry.Kind).Msg("[db] failed to write audit log")
		return err
	}
	return nil
}

// ListLogs returns the newest entries first.
func (s *sqlStore) ListLogs(ctx context.Context, limit int) ([]model.LogEntry, error) {
	entries := []model.LogEntry{}
	query := s.db.Rebind(`SELECT id, kind, message, data, created_at FROM logs ORDER BY created_at DESC, id DESC LIMIT ?;`)

	if err := s.db.SelectContext(ctx, &entries, query, limit); err != nil {
		log.Error().Err(err).Msg("[db] failed to list audit log")
		return nil, err
	}
	return entries, nil
}
