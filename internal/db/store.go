// exposes a Store interface that is passed to managers and API modules
package db

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

type ContentFilter struct {
	Zone            string
	Type            model.ContentType
	IncludeInactive bool
}

// ContentPatch carries soft updates; nil fields are left unchanged.
type ContentPatch struct {
	Title           *string
	MediaURL        *string
	Zone            *string
	DurationSeconds *int
	UpdatedAt       time.Time
}

type ContentStore interface {
	CreateContent(ctx context.Context, c model.ContentItem) (model.ContentItem, error)
	GetContentByID(ctx context.Context, id string) (model.ContentItem, error)
	GetContentByIDs(ctx context.Context, ids []string) (map[string]model.ContentItem, error)
	ListContent(ctx context.Context, f ContentFilter) ([]model.ContentItem, error)
	UpdateContent(ctx context.Context, id string, p ContentPatch) (model.ContentItem, error)
	DeactivateContent(ctx context.Context, id string) error
}

type ScheduleStore interface {
	CreateScheduleEntry(ctx context.Context, e model.ScheduleEntry) (model.ScheduleEntry, error)
	GetScheduleEntry(ctx context.Context, id string) (model.ScheduleEntry, error)
	DeleteScheduleEntry(ctx context.Context, id string) error
	// ListActiveEntries returns active entries tagged with zone or with the
	// wildcard zone. An empty zone returns every active entry.
	ListActiveEntries(ctx context.Context, zone string) ([]model.ScheduleEntry, error)
	ListUpcomingEntries(ctx context.Context, zone string, after time.Time, limit int) ([]model.ScheduleEntry, error)
	ScheduleStats(ctx context.Context, now time.Time) (model.ScheduleStats, error)
}

type ZoneStore interface {
	ListZones(ctx context.Context) ([]model.Zone, error)
	GetZone(ctx context.Context, id string) (model.Zone, error)
}

type LogStore interface {
	AddLog(ctx context.Context, entry model.LogEntry) error
	ListLogs(ctx context.Context, limit int) ([]model.LogEntry, error)
}

type Store interface {
	ContentStore
	ScheduleStore
	ZoneStore
	LogStore
}
