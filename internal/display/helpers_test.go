package display

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

var start = time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func item(entryID, contentID string, seconds int) model.ActiveItem {
	return model.ActiveItem{
		Entry: model.ScheduleEntry{ID: entryID, ContentID: contentID},
		Content: model.ContentItem{
			ID: contentID, Type: model.ContentImage, Title: contentID,
			MediaURL: "/media/" + contentID, DurationSeconds: seconds, Active: true,
		},
	}
}

// fakeRenderer records what was drawn. Media listed in broken fails to render.
type fakeRenderer struct {
	mu           sync.Mutex
	broken       map[string]bool
	shown        []string
	itemErrors   []string
	placeholders []string
	overlays     []string
	clears       int
}

func newFakeRenderer(broken ...string) *fakeRenderer {
	r := &fakeRenderer{broken: map[string]bool{}}
	for _, b := range broken {
		r.broken[b] = true
	}
	return r
}

func (r *fakeRenderer) Show(it model.ActiveItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, it.Content.ID)
	if r.broken[it.Content.ID] {
		return errors.New("404 media not found")
	}
	return nil
}

func (r *fakeRenderer) ShowItemError(it model.ActiveItem, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemErrors = append(r.itemErrors, it.Content.ID)
}

func (r *fakeRenderer) ShowPlaceholder(zone string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placeholders = append(r.placeholders, zone)
}

func (r *fakeRenderer) ShowOverlay(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlays = append(r.overlays, msg)
}

func (r *fakeRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
}

func (r *fakeRenderer) shownIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.shown...)
}

func (r *fakeRenderer) placeholderZones() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.placeholders...)
}

func (r *fakeRenderer) failedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.itemErrors...)
}

func (r *fakeRenderer) lastOverlay() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.overlays) == 0 {
		return ""
	}
	return r.overlays[len(r.overlays)-1]
}

func startPlayer(t *testing.T, r Renderer) (*Player, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(start)
	p := NewPlayer(r, clock)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go p.Run(ctx)
	return p, clock
}

func currentID(p *Player) string {
	st := p.State()
	if st.Current == nil {
		return ""
	}
	return st.Current.Content.ID
}

// showing waits until the player shows contentID with its dwell timer armed.
func showing(t *testing.T, p *Player, contentID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		st := p.State()
		return st.Current != nil && st.Current.Content.ID == contentID && st.TimerPending
	}, waitFor, tick, "expected %s on screen", contentID)
}
