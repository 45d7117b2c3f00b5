// Package content owns the content mutation boundary.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/audit"
	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

// Notifier receives content changes after they are committed.
type Notifier interface {
	NotifyContentChanged(ev model.ContentChanged)
}

var mimeTypes = map[string]model.ContentType{
	"image/jpeg":                    model.ContentImage,
	"image/jpg":                     model.ContentImage,
	"image/png":                     model.ContentImage,
	"image/gif":                     model.ContentImage,
	"image/webp":                    model.ContentImage,
	"video/mp4":                     model.ContentVideo,
	"video/webm":                    model.ContentVideo,
	"video/ogg":                     model.ContentVideo,
	"application/x-mpegurl":         model.ContentLivestream,
	"application/vnd.apple.mpegurl": model.ContentLivestream,
}

var defaultDurations = map[model.ContentType]int{
	model.ContentImage:      10,
	model.ContentVideo:      30,
	model.ContentLivestream: 3600,
	model.ContentOther:      10,
}

// TypeForMime maps a mime type to a content type, falling back to other.
func TypeForMime(mime string) model.ContentType {
	if t, ok := mimeTypes[strings.ToLower(strings.TrimSpace(mime))]; ok {
		return t
	}
	return model.ContentOther
}

// DefaultDuration is the dwell time in seconds used when none is given.
func DefaultDuration(t model.ContentType) int {
	if d, ok := defaultDurations[t]; ok {
		return d
	}
	return defaultDurations[model.ContentOther]
}

type NewContent struct {
	Title           string
	Type            model.ContentType
	MediaURL        string
	MimeType        string
	Zone            string
	DurationSeconds int
}

type Stats struct {
	Total  int                       `json:"total"`
	Active int                       `json:"active"`
	ByType map[model.ContentType]int `json:"by_type"`
	ByZone map[string]int            `json:"by_zone"`
}

type Manager struct {
	store    db.Store
	notifier Notifier
	audit    *audit.Recorder
	clock    clockwork.Clock
}

func NewManager(store db.Store, notifier Notifier, recorder *audit.Recorder, clock clockwork.Clock) *Manager {
	return &Manager{store: store, notifier: notifier, audit: recorder, clock: clock}
}

func (m *Manager) Create(ctx context.Context, in NewContent) (model.ContentItem, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return model.ContentItem{}, model.Invalid("title", "is required")
	}
	if in.MediaURL == "" {
		return model.ContentItem{}, model.Invalid("media_url", "is required")
	}
	if in.Type == "" {
		in.Type = TypeForMime(in.MimeType)
	}
	if !in.Type.Valid() {
		return model.ContentItem{}, model.Invalid("type", "unknown content type %q", in.Type)
	}
	if in.Zone == "" {
		in.Zone = model.AllZones
	}
	if err := m.checkZone(ctx, in.Zone); err != nil {
		return model.ContentItem{}, err
	}
	if in.DurationSeconds < 0 {
		return model.ContentItem{}, model.Invalid("duration_seconds", "must be positive")
	}
	if in.DurationSeconds == 0 {
		in.DurationSeconds = DefaultDuration(in.Type)
	}

	now := m.clock.Now().UTC()
	c := model.ContentItem{
		ID:              uuid.NewString(),
		Type:            in.Type,
		Title:           in.Title,
		MediaURL:        in.MediaURL,
		MimeType:        in.MimeType,
		Zone:            in.Zone,
		DurationSeconds: in.DurationSeconds,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	c, err := m.store.CreateContent(ctx, c)
	if err != nil {
		return model.ContentItem{}, fmt.Errorf("create content: %w", err)
	}

	m.audit.Record(ctx, audit.KindContent, "content created", c)
	log.Info().Str("content_id", c.ID).Str("zone", c.Zone).Str("type", string(c.Type)).Msg("[content] created")
	m.notifier.NotifyContentChanged(model.ContentChanged{Kind: model.ChangeAdded, Content: c})
	return c, nil
}

func (m *Manager) Update(ctx context.Context, id string, p db.ContentPatch) (model.ContentItem, error) {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return model.ContentItem{}, model.Invalid("title", "must not be empty")
		}
		p.Title = &t
	}
	if p.MediaURL != nil && *p.MediaURL == "" {
		return model.ContentItem{}, model.Invalid("media_url", "must not be empty")
	}
	if p.DurationSeconds != nil && *p.DurationSeconds <= 0 {
		return model.ContentItem{}, model.Invalid("duration_seconds", "must be positive")
	}
	if p.Zone != nil {
		if err := m.checkZone(ctx, *p.Zone); err != nil {
			return model.ContentItem{}, err
		}
	}

	before, err := m.store.GetContentByID(ctx, id)
	if err != nil {
		return model.ContentItem{}, err
	}

	p.UpdatedAt = m.clock.Now().UTC()
	c, err := m.store.UpdateContent(ctx, id, p)
	if err != nil {
		return model.ContentItem{}, err
	}

	ev := model.ContentChanged{Kind: model.ChangeUpdated, Content: c}
	if before.Zone != c.Zone {
		ev.PreviousZone = before.Zone
	}
	m.audit.Record(ctx, audit.KindContent, "content updated", c)
	log.Info().Str("content_id", c.ID).Str("zone", c.Zone).Msg("[content] updated")
	m.notifier.NotifyContentChanged(ev)
	return c, nil
}

// Delete deactivates the item. Records are never removed.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.DeactivateContent(ctx, id); err != nil {
		return err
	}
	c, err := m.store.GetContentByID(ctx, id)
	if err != nil {
		return err
	}

	m.audit.Record(ctx, audit.KindContent, "content deactivated", c)
	log.Info().Str("content_id", id).Str("zone", c.Zone).Msg("[content] deactivated")
	m.notifier.NotifyContentChanged(model.ContentChanged{Kind: model.ChangeDeleted, Content: c})
	return nil
}

func (m *Manager) Get(ctx context.Context, id string) (model.ContentItem, error) {
	return m.store.GetContentByID(ctx, id)
}

func (m *Manager) List(ctx context.Context, f db.ContentFilter) ([]model.ContentItem, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, model.Invalid("type", "unknown content type %q", f.Type)
	}
	return m.store.ListContent(ctx, f)
}

func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	all, err := m.store.ListContent(ctx, db.ContentFilter{IncludeInactive: true})
	if err != nil {
		return Stats{}, err
	}

	s := Stats{
		ByType: map[model.ContentType]int{},
		ByZone: map[string]int{},
	}
	for _, c := range all {
		s.Total++
		if !c.Active {
			continue
		}
		s.Active++
		s.ByType[c.Type]++
		s.ByZone[c.Zone]++
	}
	return s, nil
}

func (m *Manager) checkZone(ctx context.Context, zone string) error {
	if _, err := m.store.GetZone(ctx, zone); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Invalid("zone", "unknown zone %q", zone)
		}
		return err
	}
	return nil
}
