// Package schedule resolves which content a zone shows at an instant and
// owns the schedule mutation boundary.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Nixie-Tech-LLC/zonecast/internal/metrics"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

// Source is the read side of the content and schedule stores.
type Source interface {
	ListActiveEntries(ctx context.Context, zone string) ([]model.ScheduleEntry, error)
	GetContentByIDs(ctx context.Context, ids []string) (map[string]model.ContentItem, error)
}

// Resolver computes active sets. It holds no state of its own and is safe
// for concurrent use.
type Resolver struct {
	src Source
}

func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve returns the entries of zone (or of the wildcard zone) whose window
// contains now and whose content is active, joined with that content and in
// playback order. An empty zone yields an empty, non-nil slice.
func (r *Resolver) Resolve(ctx context.Context, zone string, now time.Time) ([]model.ActiveItem, error) {
	start := time.Now()
	defer func() { metrics.ResolveDuration.Observe(time.Since(start).Seconds()) }()

	entries, err := r.src.ListActiveEntries(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("list entries for zone %q: %w", zone, err)
	}

	candidates := make([]model.ScheduleEntry, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Active || !model.ZoneMatches(e.Zone, zone) || !e.Covers(now) {
			continue
		}
		candidates = append(candidates, e)
		ids = append(ids, e.ContentID)
	}

	items := make([]model.ActiveItem, 0, len(candidates))
	if len(candidates) == 0 {
		return items, nil
	}

	content, err := r.src.GetContentByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load content for zone %q: %w", zone, err)
	}
	for _, e := range candidates {
		c, ok := content[e.ContentID]
		if !ok || !c.Active {
			continue
		}
		items = append(items, model.ActiveItem{Entry: e, Content: c})
	}

	SortActive(items)
	return items, nil
}

// ActiveSet wraps Resolve into the payload pushed to displays.
func (r *Resolver) ActiveSet(ctx context.Context, zone string, now time.Time) (model.ActiveSetUpdate, error) {
	items, err := r.Resolve(ctx, zone, now)
	if err != nil {
		return model.ActiveSetUpdate{}, err
	}
	return model.ActiveSetUpdate{Zone: zone, Items: items, Timestamp: now}, nil
}

// SortActive orders items by priority descending, then creation time
// ascending, then id, which is also the playback order.
func SortActive(items []model.ActiveItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return before(items[i].Entry, items[j].Entry)
	})
}

func before(a, b model.ScheduleEntry) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
