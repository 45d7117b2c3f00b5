package display

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const (
	playerInboxSize = 64
	minDwell        = time.Second
)

type Mode int

const (
	// ModeIdle shows nothing: nothing was loaded yet or the player was stopped.
	ModeIdle Mode = iota
	ModePlaying
	ModePaused
	// ModePlaceholder is an empty set: "no content for this zone".
	ModePlaceholder
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePlaying:
		return "playing"
	case ModePaused:
		return "paused"
	case ModePlaceholder:
		return "placeholder"
	}
	return "unknown"
}

// PlayerState is a snapshot of the playback loop.
type PlayerState struct {
	Mode         Mode
	Zone         string
	Index        int
	Items        int
	Current      *model.ActiveItem
	TimerPending bool
	// ItemError is set while the current item failed to render.
	ItemError string
}

type (
	loadMsg struct {
		zone  string
		items []model.ActiveItem
	}
	pauseMsg   struct{}
	resumeMsg  struct{}
	stopMsg    struct{}
	dwellMsg   struct{ gen uint64 }
	overlayMsg struct{ text string }
	renderFail struct {
		entryID string
		err     error
	}
)

// Player cycles through an active set, one item per dwell period. All
// state is owned by Run; the exported methods only post messages to it.
type Player struct {
	renderer Renderer
	inbox    chan any
	done     chan struct{}

	mu       sync.RWMutex
	snapshot PlayerState

	zone    string
	loaded  bool
	items   []model.ActiveItem
	index   int
	paused  bool
	itemErr error
	dwell   timer
}

func NewPlayer(renderer Renderer, clock clockwork.Clock) *Player {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Player{
		renderer: renderer,
		inbox:    make(chan any, playerInboxSize),
		done:     make(chan struct{}),
		dwell:    timer{clock: clock},
	}
}

// Load replaces the current set, even mid-playback, and restarts from the
// first item. An empty set shows the placeholder.
func (p *Player) Load(zone string, items []model.ActiveItem) {
	p.post(loadMsg{zone: zone, items: append([]model.ActiveItem(nil), items...)})
}

func (p *Player) Pause()  { p.post(pauseMsg{}) }
func (p *Player) Resume() { p.post(resumeMsg{}) }

// Stop cancels the dwell timer and clears the screen.
func (p *Player) Stop() { p.post(stopMsg{}) }

// RenderFailed reports that the media of the given entry failed to load
// after it was shown.
func (p *Player) RenderFailed(entryID string, err error) {
	p.post(renderFail{entryID: entryID, err: err})
}

// SetOverlay shows a connection notice; "" removes it.
func (p *Player) SetOverlay(text string) { p.post(overlayMsg{text: text}) }

func (p *Player) State() PlayerState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

func (p *Player) post(msg any) {
	select {
	case p.inbox <- msg:
	case <-p.done:
	}
}

// Run processes messages until ctx is cancelled.
func (p *Player) Run(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			p.dwell.stop()
			p.publish()
			return
		case msg := <-p.inbox:
			p.handle(msg)
			p.publish()
		}
	}
}

func (p *Player) handle(msg any) {
	switch m := msg.(type) {
	case loadMsg:
		p.dwell.stop()
		p.zone = m.zone
		p.loaded = true
		p.items = m.items
		p.index = 0
		p.itemErr = nil
		if len(p.items) == 0 {
			p.renderer.ShowPlaceholder(p.zone)
			return
		}
		p.show()
		if !p.paused {
			p.arm()
		}

	case dwellMsg:
		if !p.dwell.fired(m.gen) || p.paused || len(p.items) == 0 {
			return
		}
		p.index = (p.index + 1) % len(p.items)
		p.show()
		p.arm()

	case pauseMsg:
		p.paused = true
		p.dwell.stop()

	case resumeMsg:
		if !p.paused {
			return
		}
		p.paused = false
		if len(p.items) > 0 {
			p.arm()
		}

	case stopMsg:
		p.dwell.stop()
		p.zone = ""
		p.loaded = false
		p.items = nil
		p.index = 0
		p.itemErr = nil
		p.renderer.Clear()

	case renderFail:
		if len(p.items) == 0 || p.items[p.index].Entry.ID != m.entryID {
			return
		}
		p.itemErr = m.err
		p.renderer.ShowItemError(p.items[p.index], m.err)

	case overlayMsg:
		p.renderer.ShowOverlay(m.text)
	}
}

func (p *Player) show() {
	item := p.items[p.index]
	if err := p.renderer.Show(item); err != nil {
		p.itemErr = err
		p.renderer.ShowItemError(item, err)
		return
	}
	p.itemErr = nil
}

func (p *Player) arm() {
	d := p.items[p.index].Content.Dwell()
	if d < minDwell {
		log.Warn().Str("content_id", p.items[p.index].Content.ID).Dur("dwell", d).Msg("[display] dwell too short, clamping")
		d = minDwell
	}
	p.dwell.arm(d, func(gen uint64) { p.post(dwellMsg{gen: gen}) })
}

func (p *Player) publish() {
	s := PlayerState{
		Zone:         p.zone,
		Index:        p.index,
		Items:        len(p.items),
		TimerPending: p.dwell.pending(),
	}
	switch {
	case len(p.items) > 0 && p.paused:
		s.Mode = ModePaused
	case len(p.items) > 0:
		s.Mode = ModePlaying
	case p.loaded:
		s.Mode = ModePlaceholder
	default:
		s.Mode = ModeIdle
	}
	if len(p.items) > 0 {
		cur := p.items[p.index]
		s.Current = &cur
	}
	if p.itemErr != nil {
		s.ItemError = p.itemErr.Error()
	}

	p.mu.Lock()
	p.snapshot = s
	p.mu.Unlock()
}
