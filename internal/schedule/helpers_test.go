package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

var now = time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)

func addContent(t *testing.T, s db.Store, id, zone string, active bool) model.ContentItem {
	t.Helper()
	c, err := s.CreateContent(context.Background(), model.ContentItem{
		ID:              id,
		Type:            model.ContentImage,
		Title:           id,
		MediaURL:        "/media/" + id + ".png",
		Zone:            zone,
		DurationSeconds: 10,
		Active:          active,
		CreatedAt:       now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	return c
}

func addEntry(t *testing.T, s db.Store, id, contentID, zone string, priority int, start, end, created time.Time) model.ScheduleEntry {
	t.Helper()
	e, err := s.CreateScheduleEntry(context.Background(), model.ScheduleEntry{
		ID:        id,
		ContentID: contentID,
		Zone:      zone,
		StartTime: start,
		EndTime:   end,
		Priority:  priority,
		Active:    true,
		CreatedAt: created,
	})
	require.NoError(t, err)
	return e
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.ScheduleChanged
}

func (n *recordingNotifier) NotifyScheduleChanged(ev model.ScheduleChanged) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) all() []model.ScheduleChanged {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.ScheduleChanged(nil), n.events...)
}
