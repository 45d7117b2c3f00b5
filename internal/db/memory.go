package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

type mapStore struct {
	m        *sync.RWMutex
	content  map[string]model.ContentItem
	schedule map[string]model.ScheduleEntry
	zones    map[string]model.Zone
	logs     []model.LogEntry
}

// compile-time check that mapStore implements Store
var _ Store = (*mapStore)(nil)

// NewMemoryStore returns a process-local Store seeded with the default zones.
func NewMemoryStore() Store {
	ms := &mapStore{
		m:        new(sync.RWMutex),
		content:  map[string]model.ContentItem{},
		schedule: map[string]model.ScheduleEntry{},
		zones:    map[string]model.Zone{},
		logs:     []model.LogEntry{},
	}
	for _, z := range model.DefaultZones {
		ms.zones[z.ID] = z
	}
	return ms
}

func (ms *mapStore) CreateContent(_ context.Context, c model.ContentItem) (model.ContentItem, error) {
	ms.m.Lock()
	defer ms.m.Unlock()
	if _, ok := ms.content[c.ID]; ok {
		return model.ContentItem{}, fmt.Errorf("content %q already exists", c.ID)
	}
	ms.content[c.ID] = c
	return c, nil
}

func (ms *mapStore) GetContentByID(_ context.Context, id string) (model.ContentItem, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	c, ok := ms.content[id]
	if !ok {
		return model.ContentItem{}, fmt.Errorf("content %q: %w", id, model.ErrNotFound)
	}
	return c, nil
}

func (ms *mapStore) GetContentByIDs(_ context.Context, ids []string) (map[string]model.ContentItem, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	out := make(map[string]model.ContentItem, len(ids))
	for _, id := range ids {
		if c, ok := ms.content[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (ms *mapStore) ListContent(_ context.Context, f ContentFilter) ([]model.ContentItem, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	all := []model.ContentItem{}
	for _, c := range ms.content {
		if !f.IncludeInactive && !c.Active {
			continue
		}
		if f.Zone != "" && !model.ZoneMatches(c.Zone, f.Zone) {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func (ms *mapStore) UpdateContent(_ context.Context, id string, p ContentPatch) (model.ContentItem, error) {
	ms.m.Lock()
	defer ms.m.Unlock()
	c, ok := ms.content[id]
	if !ok {
		return model.ContentItem{}, fmt.Errorf("content %q: %w", id, model.ErrNotFound)
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.MediaURL != nil {
		c.MediaURL = *p.MediaURL
	}
	if p.Zone != nil {
		c.Zone = *p.Zone
	}
	if p.DurationSeconds != nil {
		c.DurationSeconds = *p.DurationSeconds
	}
	c.UpdatedAt = p.UpdatedAt
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	ms.content[id] = c
	return c, nil
}

func (ms *mapStore) DeactivateContent(_ context.Context, id string) error {
	ms.m.Lock()
	defer ms.m.Unlock()
	c, ok := ms.content[id]
	if !ok {
		return fmt.Errorf("content %q: %w", id, model.ErrNotFound)
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	ms.content[id] = c
	return nil
}

func (ms *mapStore) CreateScheduleEntry(_ context.Context, e model.ScheduleEntry) (model.ScheduleEntry, error) {
	ms.m.Lock()
	defer ms.m.Unlock()
	if _, ok := ms.schedule[e.ID]; ok {
		return model.ScheduleEntry{}, fmt.Errorf("schedule entry %q already exists", e.ID)
	}
	ms.schedule[e.ID] = e
	return e, nil
}

func (ms *mapStore) GetScheduleEntry(_ context.Context, id string) (model.ScheduleEntry, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	e, ok := ms.schedule[id]
	if !ok {
		return model.ScheduleEntry{}, fmt.Errorf("schedule entry %q: %w", id, model.ErrNotFound)
	}
	return e, nil
}

func (ms *mapStore) DeleteScheduleEntry(_ context.Context, id string) error {
	ms.m.Lock()
	defer ms.m.Unlock()
	if _, ok := ms.schedule[id]; !ok {
		return fmt.Errorf("schedule entry %q: %w", id, model.ErrNotFound)
	}
	delete(ms.schedule, id)
	return nil
}

func (ms *mapStore) ListActiveEntries(_ context.Context, zone string) ([]model.ScheduleEntry, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	entries := ms.filterEntries(func(e model.ScheduleEntry) bool {
		return zone == "" || model.ZoneMatches(e.Zone, zone)
	})
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return entries, nil
}

func (ms *mapStore) ListUpcomingEntries(_ context.Context, zone string, after time.Time, limit int) ([]model.ScheduleEntry, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	entries := ms.filterEntries(func(e model.ScheduleEntry) bool {
		return e.StartTime.After(after) && (zone == "" || model.ZoneMatches(e.Zone, zone))
	})
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (ms *mapStore) ScheduleStats(_ context.Context, now time.Time) (model.ScheduleStats, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	var stats model.ScheduleStats
	for _, e := range ms.schedule {
		if !e.Active {
			continue
		}
		stats.Total++
		if e.Covers(now) {
			stats.Active++
		}
		if e.StartTime.After(now) {
			stats.Upcoming++
		}
	}
	return stats, nil
}

// filterEntries returns the active entries accepted by keep. Callers hold the lock.
func (ms *mapStore) filterEntries(keep func(model.ScheduleEntry) bool) []model.ScheduleEntry {
	entries := []model.ScheduleEntry{}
	for _, e := range ms.schedule {
		if e.Active && keep(e) {
			entries = append(entries, e)
		}
	}
	return entries
}

func (ms *mapStore) ListZones(_ context.Context) ([]model.Zone, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	zones := make([]model.Zone, 0, len(ms.zones))
	for _, z := range ms.zones {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool {
		if zones[i].DisplayOrder != zones[j].DisplayOrder {
			return zones[i].DisplayOrder < zones[j].DisplayOrder
		}
		return zones[i].ID < zones[j].ID
	})
	return zones, nil
}

func (ms *mapStore) GetZone(_ context.Context, id string) (model.Zone, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	z, ok := ms.zones[id]
	if !ok {
		return model.Zone{}, fmt.Errorf("zone %q: %w", id, model.ErrNotFound)
	}
	return z, nil
}

func (ms *mapStore) AddLog(_ context.Context, entry model.LogEntry) error {
	ms.m.Lock()
	defer ms.m.Unlock()
	if entry.Data == "" {
		entry.Data = "{}"
	}
	ms.logs = append(ms.logs, entry)
	return nil
}

func (ms *mapStore) ListLogs(_ context.Context, limit int) ([]model.LogEntry, error) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	out := []model.LogEntry{}
	for i := len(ms.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, ms.logs[i])
	}
	return out, nil
}
