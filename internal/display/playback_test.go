package display

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

func TestPlayer_EmptySetShowsPlaceholderWithoutTimer(t *testing.T) {
	r := newFakeRenderer()
	p, _ := startPlayer(t, r)

	p.Load("shop", []model.ActiveItem{})

	require.Eventually(t, func() bool { return p.State().Mode == ModePlaceholder }, waitFor, tick)
	st := p.State()
	assert.False(t, st.TimerPending)
	assert.Nil(t, st.Current)
	assert.Equal(t, "shop", st.Zone)
	assert.Equal(t, []string{"shop"}, r.placeholderZones())
}

func TestPlayer_CyclesInResolverOrder(t *testing.T) {
	r := newFakeRenderer()
	p, clock := startPlayer(t, r)

	p.Load("reception", []model.ActiveItem{item("e-a", "a", 10), item("e-b", "b", 30)})
	showing(t, p, "a")

	clock.Advance(10 * time.Second)
	showing(t, p, "b")
	assert.Equal(t, 1, p.State().Index)

	clock.Advance(30 * time.Second)
	showing(t, p, "a")

	clock.Advance(10 * time.Second)
	showing(t, p, "b")
	assert.Equal(t, []string{"a", "b", "a", "b"}, r.shownIDs())
}

func TestPlayer_LoadMidPlaybackRestartsAtFirstItem(t *testing.T) {
	r := newFakeRenderer()
	p, clock := startPlayer(t, r)

	p.Load("reception", []model.ActiveItem{item("e-a", "a", 10), item("e-b", "b", 10)})
	showing(t, p, "a")
	clock.Advance(10 * time.Second)
	showing(t, p, "b")

	p.Load("reception", []model.ActiveItem{item("e-c", "c", 20), item("e-a", "a", 10)})
	showing(t, p, "c")
	assert.Equal(t, 0, p.State().Index)

	// the old 10s dwell must not leak into the new set
	clock.Advance(10 * time.Second)
	clock.Advance(9 * time.Second)
	assert.Equal(t, "c", currentID(p))
	clock.Advance(time.Second)
	showing(t, p, "a")
}

func TestPlayer_PauseKeepsIndexAndResumeRearms(t *testing.T) {
	r := newFakeRenderer()
	p, clock := startPlayer(t, r)

	p.Load("lockers", []model.ActiveItem{item("e-a", "a", 10), item("e-b", "b", 10)})
	showing(t, p, "a")
	clock.Advance(10 * time.Second)
	showing(t, p, "b")

	p.Pause()
	require.Eventually(t, func() bool { return p.State().Mode == ModePaused }, waitFor, tick)
	assert.False(t, p.State().TimerPending)

	clock.Advance(time.Hour)
	assert.Equal(t, "b", currentID(p))
	assert.Equal(t, 1, p.State().Index)

	p.Resume()
	showing(t, p, "b")
	assert.Equal(t, ModePlaying, p.State().Mode)
	clock.Advance(10 * time.Second)
	showing(t, p, "a")
}

func TestPlayer_RenderFailureDoesNotAdvance(t *testing.T) {
	r := newFakeRenderer("a")
	p, clock := startPlayer(t, r)

	p.Load("restaurant", []model.ActiveItem{item("e-a", "a", 10), item("e-b", "b", 10)})
	showing(t, p, "a")
	st := p.State()
	assert.NotEmpty(t, st.ItemError)
	assert.Equal(t, 2, st.Items)

	clock.Advance(9 * time.Second)
	assert.Equal(t, "a", currentID(p))

	clock.Advance(time.Second)
	showing(t, p, "b")
	assert.Empty(t, p.State().ItemError)

	// the failing item is tried again on the next cycle
	clock.Advance(10 * time.Second)
	showing(t, p, "a")
	assert.Equal(t, []string{"a", "b", "a"}, r.shownIDs())
	assert.Equal(t, []string{"a", "a"}, r.failedIDs())
}

func TestPlayer_RenderFailedReport(t *testing.T) {
	r := newFakeRenderer()
	p, _ := startPlayer(t, r)

	p.Load("skislope", []model.ActiveItem{item("e-a", "a", 10), item("e-b", "b", 10)})
	showing(t, p, "a")

	p.RenderFailed("e-b", errors.New("not on screen"))
	p.RenderFailed("e-a", errors.New("decode error"))
	require.Eventually(t, func() bool { return p.State().ItemError == "decode error" }, waitFor, tick)
	assert.Equal(t, "a", currentID(p))
	assert.Equal(t, []string{"a"}, r.failedIDs())
}

func TestPlayer_StopCancelsTimer(t *testing.T) {
	r := newFakeRenderer()
	p, clock := startPlayer(t, r)

	p.Load("reception", []model.ActiveItem{item("e-a", "a", 10), item("e-b", "b", 10)})
	showing(t, p, "a")

	p.Stop()
	require.Eventually(t, func() bool { return p.State().Mode == ModeIdle }, waitFor, tick)
	assert.False(t, p.State().TimerPending)

	clock.Advance(time.Minute)
	p.Load("shop", []model.ActiveItem{item("e-s", "s", 15)})
	showing(t, p, "s")
	assert.Equal(t, []string{"a", "s"}, r.shownIDs())
}
