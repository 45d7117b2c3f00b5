package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedEntry(t *testing.T, s Store, id, zone string, priority int, created time.Time) model.ScheduleEntry {
	t.Helper()
	e, err := s.CreateScheduleEntry(context.Background(), model.ScheduleEntry{
		ID:        id,
		ContentID: "c-" + id,
		Zone:      zone,
		StartTime: base.Add(-time.Hour),
		EndTime:   base.Add(time.Hour),
		Priority:  priority,
		Active:    true,
		CreatedAt: created,
	})
	require.NoError(t, err)
	return e
}

func TestMapStore_ListActiveEntriesOrdersAndFiltersByZone(t *testing.T) {
	s := NewMemoryStore()
	seedEntry(t, s, "low", "reception", 1, base)
	seedEntry(t, s, "high", "reception", 5, base.Add(time.Minute))
	seedEntry(t, s, "wild", model.AllZones, 5, base)
	seedEntry(t, s, "other", "shop", 9, base)

	got, err := s.ListActiveEntries(context.Background(), "reception")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"wild", "high", "low"}, ids)

	all, err := s.ListActiveEntries(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMapStore_DeleteScheduleEntry(t *testing.T) {
	s := NewMemoryStore()
	seedEntry(t, s, "a", "reception", 1, base)

	require.NoError(t, s.DeleteScheduleEntry(context.Background(), "a"))
	err := s.DeleteScheduleEntry(context.Background(), "a")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMapStore_UpcomingAndStats(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedEntry(t, s, "now", "reception", 1, base)
	for i, id := range []string{"later", "soon"} {
		_, err := s.CreateScheduleEntry(ctx, model.ScheduleEntry{
			ID:        id,
			Zone:      "reception",
			StartTime: base.Add(time.Duration(2-i) * time.Hour),
			EndTime:   base.Add(5 * time.Hour),
			Active:    true,
			CreatedAt: base,
		})
		require.NoError(t, err)
	}

	up, err := s.ListUpcomingEntries(ctx, "reception", base, 10)
	require.NoError(t, err)
	require.Len(t, up, 2)
	assert.Equal(t, "soon", up[0].ID)
	assert.Equal(t, "later", up[1].ID)

	stats, err := s.ScheduleStats(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleStats{Total: 3, Active: 1, Upcoming: 2}, stats)
}

func TestMapStore_ContentLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.CreateContent(ctx, model.ContentItem{ID: "c1", Title: "Menu", Zone: "restaurant", Type: model.ContentImage, DurationSeconds: 10, Active: true, CreatedAt: base})
	require.NoError(t, err)
	_, err = s.CreateContent(ctx, model.ContentItem{ID: "c2", Title: "Welcome", Zone: model.AllZones, Type: model.ContentVideo, DurationSeconds: 30, Active: true, CreatedAt: base.Add(time.Second)})
	require.NoError(t, err)

	inRestaurant, err := s.ListContent(ctx, ContentFilter{Zone: "restaurant"})
	require.NoError(t, err)
	assert.Len(t, inRestaurant, 2)

	title := "Lunch menu"
	updated, err := s.UpdateContent(ctx, "c1", ContentPatch{Title: &title, UpdatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, "Lunch menu", updated.Title)
	assert.Equal(t, "restaurant", updated.Zone)

	require.NoError(t, s.DeactivateContent(ctx, "c1"))
	active, err := s.ListContent(ctx, ContentFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "c2", active[0].ID)

	byID, err := s.GetContentByIDs(ctx, []string{"c1", "c2", "missing"})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.False(t, byID["c1"].Active)

	_, err = s.GetContentByID(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMapStore_ZonesAndLogs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	zones, err := s.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, len(model.DefaultZones))
	assert.Equal(t, model.AllZones, zones[0].ID)
	assert.Equal(t, "shop", zones[len(zones)-1].ID)

	_, err = s.GetZone(ctx, "pool")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.AddLog(ctx, model.LogEntry{ID: "1", Kind: "content", CreatedAt: base}))
	require.NoError(t, s.AddLog(ctx, model.LogEntry{ID: "2", Kind: "schedule", CreatedAt: base.Add(time.Second)}))
	logs, err := s.ListLogs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2", logs[0].ID)
	assert.Equal(t, "{}", logs[0].Data)
}
