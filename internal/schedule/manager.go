package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/audit"
	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
	"github.com/Nixie-Tech-LLC/zonecast/internal/metrics"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const DefaultUpcomingLimit = 10

// Notifier receives schedule changes after they are committed.
type Notifier interface {
	NotifyScheduleChanged(ev model.ScheduleChanged)
}

type NewEntry struct {
	ContentID string
	Zone      string
	StartTime time.Time
	EndTime   time.Time
	Priority  int
}

// CreateResult carries the stored entry and any higher priority entries
// that overlap it. Advisories never prevent the write.
type CreateResult struct {
	Entry      model.ScheduleEntry
	Advisories []model.ScheduleEntry
}

type Manager struct {
	store    db.Store
	advisor  *Advisor
	notifier Notifier
	audit    *audit.Recorder
	clock    clockwork.Clock
}

func NewManager(store db.Store, notifier Notifier, recorder *audit.Recorder, clock clockwork.Clock) *Manager {
	return &Manager{
		store:    store,
		advisor:  NewAdvisor(store),
		notifier: notifier,
		audit:    recorder,
		clock:    clock,
	}
}

func (m *Manager) Create(ctx context.Context, in NewEntry) (CreateResult, error) {
	if err := m.validate(ctx, in); err != nil {
		return CreateResult{}, err
	}

	advisories, err := m.advisor.FindHigherPriorityOverlaps(ctx, in.Zone, in.StartTime, in.EndTime, in.Priority)
	if err != nil {
		return CreateResult{}, err
	}

	entry := model.ScheduleEntry{
		ID:        uuid.NewString(),
		ContentID: in.ContentID,
		Zone:      in.Zone,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		Priority:  in.Priority,
		Active:    true,
		CreatedAt: m.clock.Now().UTC(),
	}
	entry, err = m.store.CreateScheduleEntry(ctx, entry)
	if err != nil {
		return CreateResult{}, fmt.Errorf("create schedule entry: %w", err)
	}

	if len(advisories) > 0 {
		ids := make([]string, 0, len(advisories))
		for _, a := range advisories {
			ids = append(ids, a.ID)
		}
		metrics.OverlapAdvisories.Inc()
		log.Warn().
			Str("entry_id", entry.ID).
			Str("zone", entry.Zone).
			Int("priority", entry.Priority).
			Strs("overlapping", ids).
			Msg("[schedule] entry overlaps higher priority entries")
	}

	m.audit.Record(ctx, audit.KindSchedule, "schedule entry created", entry)
	log.Info().Str("entry_id", entry.ID).Str("zone", entry.Zone).Msg("[schedule] entry created")
	m.notifier.NotifyScheduleChanged(model.ScheduleChanged{Kind: model.ChangeAdded, Entry: entry})

	return CreateResult{Entry: entry, Advisories: advisories}, nil
}

func (m *Manager) validate(ctx context.Context, in NewEntry) error {
	if in.ContentID == "" {
		return model.Invalid("content_id", "is required")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return model.Invalid("start_time", "start and end time are required")
	}
	if !in.StartTime.Before(in.EndTime) {
		return model.Invalid("end_time", "must be after start_time")
	}

	c, err := m.store.GetContentByID(ctx, in.ContentID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Invalid("content_id", "references unknown content %q", in.ContentID)
	}
	if err != nil {
		return err
	}
	if !c.Active {
		return model.Invalid("content_id", "content %q is inactive", in.ContentID)
	}

	if err := checkZone(ctx, m.store, in.Zone); err != nil {
		return err
	}
	return nil
}

// checkZone rejects empty and unknown zone ids.
func checkZone(ctx context.Context, zones db.ZoneStore, zone string) error {
	if zone == "" {
		return model.Invalid("zone", "is required")
	}
	if _, err := zones.GetZone(ctx, zone); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Invalid("zone", "unknown zone %q", zone)
		}
		return err
	}
	return nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	entry, err := m.store.GetScheduleEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := m.store.DeleteScheduleEntry(ctx, id); err != nil {
		return err
	}

	m.audit.Record(ctx, audit.KindSchedule, "schedule entry deleted", entry)
	log.Info().Str("entry_id", id).Str("zone", entry.Zone).Msg("[schedule] entry deleted")
	m.notifier.NotifyScheduleChanged(model.ScheduleChanged{Kind: model.ChangeDeleted, Entry: entry})
	return nil
}

// Upcoming lists entries of zone that start after now, soonest first,
// joined with their active content.
func (m *Manager) Upcoming(ctx context.Context, zone string, now time.Time, limit int) ([]model.ActiveItem, error) {
	if _, err := m.store.GetZone(ctx, zone); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	entries, err := m.store.ListUpcomingEntries(ctx, zone, now, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ContentID)
	}
	content, err := m.store.GetContentByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]model.ActiveItem, 0, len(entries))
	for _, e := range entries {
		if c, ok := content[e.ContentID]; ok && c.Active {
			items = append(items, model.ActiveItem{Entry: e, Content: c})
		}
	}
	return items, nil
}

func (m *Manager) Stats(ctx context.Context) (model.ScheduleStats, error) {
	return m.store.ScheduleStats(ctx, m.clock.Now())
}
