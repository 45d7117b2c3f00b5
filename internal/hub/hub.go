// Package hub keeps zone membership of connected sessions and fans out
// recomputed active sets whenever content or schedules change.
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/audit"
	"github.com/Nixie-Tech-LLC/zonecast/internal/metrics"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

var ErrUnknownSession = errors.New("unknown session")

// Session is a connected display or dashboard. Deliver must not block; it
// reports false when the update was dropped.
type Session interface {
	ID() string
	Deliver(update model.ActiveSetUpdate) bool
}

// Mirror receives a copy of every published active set.
type Mirror interface {
	Name() string
	Publish(update model.ActiveSetUpdate) error
}

type Resolver interface {
	ActiveSet(ctx context.Context, zone string, now time.Time) (model.ActiveSetUpdate, error)
}

// Directory answers zone and schedule lookups needed to route changes.
type Directory interface {
	ListZones(ctx context.Context) ([]model.Zone, error)
	GetZone(ctx context.Context, id string) (model.Zone, error)
	ListActiveEntries(ctx context.Context, zone string) ([]model.ScheduleEntry, error)
}

type Recorder interface {
	Record(ctx context.Context, kind, message string, subject any)
}

type sweepEvent struct{}

type Options struct {
	Resolver  Resolver
	Directory Directory
	Mirrors   []Mirror
	Recorder  Recorder
	Clock     clockwork.Clock
	// QueueSize bounds the inbound event channel.
	QueueSize int
	// MirrorQueueSize bounds the backlog held for each mirror.
	MirrorQueueSize int
}

type Hub struct {
	resolver  Resolver
	directory Directory
	mirrors   []*mirrorQueue
	recorder  Recorder
	clock     clockwork.Clock

	events chan any
	done   chan struct{}
	once   sync.Once

	mu       sync.RWMutex
	sessions map[string]Session
	zoneOf   map[string]string
	members  map[string]map[string]struct{}
}

func New(opts Options) *Hub {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MirrorQueueSize <= 0 {
		opts.MirrorQueueSize = mirrorQueueSize
	}
	mirrors := make([]*mirrorQueue, 0, len(opts.Mirrors))
	for _, m := range opts.Mirrors {
		mirrors = append(mirrors, newMirrorQueue(m, opts.MirrorQueueSize))
	}
	return &Hub{
		resolver:  opts.Resolver,
		directory: opts.Directory,
		mirrors:   mirrors,
		recorder:  opts.Recorder,
		clock:     opts.Clock,
		events:    make(chan any, opts.QueueSize),
		done:      make(chan struct{}),
		sessions:  map[string]Session{},
		zoneOf:    map[string]string{},
		members:   map[string]map[string]struct{}{},
	}
}

func (h *Hub) Register(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s.ID()]; !ok {
		metrics.Sessions.Inc()
	}
	h.sessions[s.ID()] = s
	log.Debug().Str("session", s.ID()).Msg("[hub] session registered")
}

// Unregister drops the session and its membership.
func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[sessionID]; !ok {
		return
	}
	h.removeLocked(sessionID)
	delete(h.sessions, sessionID)
	metrics.Sessions.Dec()
	log.Debug().Str("session", sessionID).Msg("[hub] session unregistered")
}

// Join subscribes the session to zone, leaving whatever zone it was in.
// Joining the zone it already belongs to is a no-op.
func (h *Hub) Join(ctx context.Context, sessionID, zone string) error {
	if zone == model.AdminZone {
		return h.join(sessionID, zone)
	}
	if _, err := h.directory.GetZone(ctx, zone); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Invalid("zone", "unknown zone %q", zone)
		}
		return err
	}
	return h.join(sessionID, zone)
}

// JoinAdmin subscribes the session to the dashboard channel, which sees
// every push.
func (h *Hub) JoinAdmin(sessionID string) error {
	return h.join(sessionID, model.AdminZone)
}

func (h *Hub) join(sessionID, zone string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[sessionID]; !ok {
		return fmt.Errorf("join %q: %w", sessionID, ErrUnknownSession)
	}
	if h.zoneOf[sessionID] == zone {
		return nil
	}
	h.removeLocked(sessionID)

	set, ok := h.members[zone]
	if !ok {
		set = map[string]struct{}{}
		h.members[zone] = set
	}
	set[sessionID] = struct{}{}
	h.zoneOf[sessionID] = zone
	log.Info().Str("session", sessionID).Str("zone", zone).Msg("[hub] joined zone")
	return nil
}

// Leave removes the session from zone. It is a no-op when the session is
// not a member of zone.
func (h *Hub) Leave(sessionID, zone string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.zoneOf[sessionID] != zone {
		return
	}
	h.removeLocked(sessionID)
	log.Info().Str("session", sessionID).Str("zone", zone).Msg("[hub] left zone")
}

// removeLocked clears the session's membership. Callers hold mu.
func (h *Hub) removeLocked(sessionID string) {
	zone, ok := h.zoneOf[sessionID]
	if !ok {
		return
	}
	delete(h.zoneOf, sessionID)
	if set := h.members[zone]; set != nil {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(h.members, zone)
		}
	}
}

// ZoneOf returns the zone the session belongs to, if any.
func (h *Hub) ZoneOf(sessionID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	z, ok := h.zoneOf[sessionID]
	return z, ok
}

// Members returns the session ids subscribed to zone.
func (h *Hub) Members(zone string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.members[zone]))
	for id := range h.members[zone] {
		out = append(out, id)
	}
	return out
}

// Counts returns the number of subscribed sessions per zone.
func (h *Hub) Counts() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]int, len(h.members))
	for zone, set := range h.members {
		out[zone] = len(set)
	}
	return out
}

func (h *Hub) NotifyContentChanged(ev model.ContentChanged) { h.enqueue(ev) }

func (h *Hub) NotifyScheduleChanged(ev model.ScheduleChanged) { h.enqueue(ev) }

// Sweep republishes every zone.
func (h *Hub) Sweep() { h.enqueue(sweepEvent{}) }

func (h *Hub) enqueue(ev any) {
	select {
	case h.events <- ev:
	case <-h.done:
		log.Warn().Msgf("[hub] dropping %T, hub stopped", ev)
	}
}

// Run dispatches inbound events until ctx is cancelled. It is the only
// goroutine that publishes, so pushes are never interleaved. Each mirror
// drains on its own goroutine for the lifetime of ctx.
func (h *Hub) Run(ctx context.Context) {
	defer h.once.Do(func() { close(h.done) })
	for _, q := range h.mirrors {
		go q.run(ctx)
	}
	log.Info().Msg("[hub] dispatch loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[hub] dispatch loop stopped")
			return
		case ev := <-h.events:
			h.dispatch(ctx, ev)
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, ev any) {
	var (
		zones []string
		err   error
		cause string
	)
	switch e := ev.(type) {
	case model.ContentChanged:
		zones, err = h.contentZones(ctx, e)
		cause = "content " + string(e.Kind)
	case model.ScheduleChanged:
		zones, err = h.expand(ctx, e.Entry.Zone)
		cause = "schedule " + string(e.Kind)
	case sweepEvent:
		zones, err = h.allZones(ctx)
	default:
		log.Warn().Msgf("[hub] unknown event %T", ev)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("[hub] failed to route change")
		return
	}

	for _, zone := range zones {
		update, err := h.Publish(ctx, zone)
		if err != nil {
			log.Error().Err(err).Str("zone", zone).Msg("[hub] failed to publish")
			continue
		}
		if cause != "" && h.recorder != nil {
			h.recorder.Record(ctx, audit.KindPublish, "active set published after "+cause, map[string]any{
				"zone":  zone,
				"items": len(update.Items),
			})
		}
	}
}

// contentZones is the content's zone, its previous zone, and the zones of
// active schedule entries that reference it.
func (h *Hub) contentZones(ctx context.Context, ev model.ContentChanged) ([]string, error) {
	seen := map[string]struct{}{ev.Content.Zone: {}}
	if ev.PreviousZone != "" {
		seen[ev.PreviousZone] = struct{}{}
	}
	entries, err := h.directory.ListActiveEntries(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ContentID == ev.Content.ID {
			seen[e.Zone] = struct{}{}
		}
	}
	if _, ok := seen[model.AllZones]; ok {
		return h.allZones(ctx)
	}
	out := make([]string, 0, len(seen))
	for z := range seen {
		out = append(out, z)
	}
	return out, nil
}

func (h *Hub) expand(ctx context.Context, zone string) ([]string, error) {
	if zone == model.AllZones {
		return h.allZones(ctx)
	}
	return []string{zone}, nil
}

func (h *Hub) allZones(ctx context.Context) ([]string, error) {
	zones, err := h.directory.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(zones))
	for _, z := range zones {
		out = append(out, z.ID)
	}
	return out, nil
}

// Now is the hub clock's current time.
func (h *Hub) Now() time.Time { return h.clock.Now() }

// Snapshot resolves zone at the current instant without pushing it.
func (h *Hub) Snapshot(ctx context.Context, zone string) (model.ActiveSetUpdate, error) {
	return h.resolver.ActiveSet(ctx, zone, h.clock.Now())
}

// Publish resolves zone and pushes the result to its members, the admin
// channel and every mirror. Delivery is best-effort: a session whose
// buffer is full misses this update, and mirrors are fed asynchronously.
func (h *Hub) Publish(ctx context.Context, zone string) (model.ActiveSetUpdate, error) {
	update, err := h.Snapshot(ctx, zone)
	if err != nil {
		return model.ActiveSetUpdate{}, err
	}
	metrics.ActiveSetSize.WithLabelValues(zone).Set(float64(len(update.Items)))

	h.mu.RLock()
	delivered, dropped := 0, 0
	sent := map[string]struct{}{}
	for _, group := range []string{zone, model.AdminZone} {
		for id := range h.members[group] {
			if _, ok := sent[id]; ok {
				continue
			}
			sent[id] = struct{}{}
			if h.sessions[id].Deliver(update) {
				delivered++
			} else {
				dropped++
			}
		}
	}
	h.mu.RUnlock()

	metrics.Pushes.WithLabelValues(zone, "delivered").Add(float64(delivered))
	metrics.Pushes.WithLabelValues(zone, "dropped").Add(float64(dropped))
	if dropped > 0 {
		log.Warn().Str("zone", zone).Int("dropped", dropped).Msg("[hub] push dropped for slow sessions")
	}

	for _, q := range h.mirrors {
		q.offer(update)
	}

	log.Debug().Str("zone", zone).Int("items", len(update.Items)).Int("delivered", delivered).Msg("[hub] published active set")
	return update, nil
}
