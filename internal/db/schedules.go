package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const scheduleColumns = `id, content_id, zone, start_time, end_time, priority, active, created_at`

func (s *sqlStore) CreateScheduleEntry(ctx context.Context, e model.ScheduleEntry) (model.ScheduleEntry, error) {
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	query := s.db.Rebind(`
	INSERT INTO schedule_entries
	(` + scheduleColumns + `)
	VALUES
	(?, ?, ?, ?, ?, ?, ?, ?);`)

	if _, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.ContentID,
		e.Zone,
		e.StartTime,
		e.EndTime,
		e.Priority,
		e.Active,
		e.CreatedAt,
	); err != nil {
		log.Error().Err(err).Str("entry_id", e.ID).Msg("[db] failed to create schedule entry")
		return model.ScheduleEntry{}, err
	}
	return e, nil
}

func (s *sqlStore) GetScheduleEntry(ctx context.Context, id string) (model.ScheduleEntry, error) {
	var e model.ScheduleEntry
	query := s.db.Rebind(`SELECT ` + scheduleColumns + ` FROM schedule_entries WHERE id = ?;`)

	if err := s.db.GetContext(ctx, &e, query, id); err != nil {
		return model.ScheduleEntry{}, notFound(err, "schedule entry", id)
	}
	return e, nil
}

func (s *sqlStore) DeleteScheduleEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM schedule_entries WHERE id = ?;`), id)
	if err != nil {
		log.Error().Err(err).Str("entry_id", id).Msg("[db] failed to delete schedule entry")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("schedule entry %q: %w", id, model.ErrNotFound)
	}
	return nil
}

func (s *sqlStore) ListActiveEntries(ctx context.Context, zone string) ([]model.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_entries WHERE active = ?`
	args := []any{true}
	if zone != "" {
		query += ` AND (zone = ? OR zone = ?)`
		args = append(args, zone, model.AllZones)
	}
	query += ` ORDER BY priority DESC, created_at ASC, id ASC;`

	entries := []model.ScheduleEntry{}
	if err := s.db.SelectContext(ctx, &entries, s.db.Rebind(query), args...); err != nil {
		log.Error().Err(err).Str("zone", zone).Msg("[db] failed to list active schedule entries")
		return nil, err
	}
	return entries, nil
}

func (s *sqlStore) ListUpcomingEntries(ctx context.Context, zone string, after time.Time, limit int) ([]model.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_entries WHERE active = ? AND start_time > ?`
	args := []any{true, after.UTC()}
	if zone != "" {
		query += ` AND (zone = ? OR zone = ?)`
		args = append(args, zone, model.AllZones)
	}
	query += ` ORDER BY start_time ASC, priority DESC, id ASC LIMIT ?;`
	args = append(args, limit)

	entries := []model.ScheduleEntry{}
	if err := s.db.SelectContext(ctx, &entries, s.db.Rebind(query), args...); err != nil {
		log.Error().Err(err).Str("zone", zone).Msg("[db] failed to list upcoming schedule entries")
		return nil, err
	}
	return entries, nil
}

func (s *sqlStore) ScheduleStats(ctx context.Context, now time.Time) (model.ScheduleStats, error) {
	var stats model.ScheduleStats
	now = now.UTC()

	counts := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&stats.Total, `SELECT COUNT(*) FROM schedule_entries WHERE active = ?;`, []any{true}},
		{&stats.Active, `SELECT COUNT(*) FROM schedule_entries WHERE active = ? AND start_time <= ? AND end_time >= ?;`, []any{true, now, now}},
		{&stats.Upcoming, `SELECT COUNT(*) FROM schedule_entries WHERE active = ? AND start_time > ?;`, []any{true, now}},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, s.db.Rebind(c.query), c.args...); err != nil {
			log.Error().Err(err).Msg("[db] failed to count schedule entries")
			return model.ScheduleStats{}, err
		}
	}
	return stats, nil
}
