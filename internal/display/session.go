package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/display/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const (
	sessionInboxSize = 64
	slowLatency      = time.Second
)

type State int

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
	// StateFailed is entered once the reconnect budget is spent. Only
	// Retry leaves it.
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Status is a snapshot of a session.
type Status struct {
	State      State
	Zone       string
	Attempts   int
	NextRetry  time.Duration
	LastUpdate time.Time
	Latency    time.Duration
	Err        string
}

type Options struct {
	Zone   string
	Dialer Dialer
	Puller Puller
	Player *Player
	Clock  clockwork.Clock

	ReconnectBaseDelay   time.Duration
	MaxReconnectAttempts int
	HeartbeatInterval    time.Duration
	PollInterval         time.Duration
}

type (
	dialResult struct {
		gen  uint64
		link Link
		err  error
	}
	linkMessage struct {
		gen uint64
		env packets.Envelope
	}
	linkClosed struct {
		gen uint64
		err error
	}
	reconnectTick struct{ gen uint64 }
	pollTick      struct{ gen uint64 }
	heartbeatTick struct{ gen uint64 }
	pullResult    struct {
		zone   string
		update model.ActiveSetUpdate
		err    error
	}
	setZoneMsg struct{ zone string }
	retryMsg   struct{}
)

// Session keeps one terminal attached to its zone: it pushes over the
// socket when it can and polls over HTTP when it cannot. Content from
// either path is handed to the Player.
type Session struct {
	dialer Dialer
	puller Puller
	player *Player
	clock  clockwork.Clock

	heartbeatInterval time.Duration
	pollInterval      time.Duration

	inbox chan any
	done  chan struct{}

	mu     sync.RWMutex
	status Status

	// owned by Run
	ctx        context.Context
	state      State
	zone       string
	link       Link
	linkGen    uint64
	backoff    backoff.BackOff
	attempts   int
	nextRetry  time.Duration
	lastErr    error
	hasContent bool
	lastUpdate time.Time
	latency    time.Duration
	reconnect  timer
	poll       timer
	heartbeat  timer
}

func NewSession(opts Options) *Session {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.MaxReconnectAttempts < 1 {
		opts.MaxReconnectAttempts = 10
	}
	if opts.ReconnectBaseDelay <= 0 {
		opts.ReconnectBaseDelay = time.Second
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 30 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	return &Session{
		dialer:            opts.Dialer,
		puller:            opts.Puller,
		player:            opts.Player,
		clock:             clock,
		heartbeatInterval: opts.HeartbeatInterval,
		pollInterval:      opts.PollInterval,
		inbox:             make(chan any, sessionInboxSize),
		done:              make(chan struct{}),
		zone:              opts.Zone,
		backoff:           newReconnectBackOff(opts.ReconnectBaseDelay, opts.MaxReconnectAttempts),
		reconnect:         timer{clock: clock},
		poll:              timer{clock: clock},
		heartbeat:         timer{clock: clock},
		status:            Status{State: StateConnecting, Zone: opts.Zone},
	}
}

// SetZone moves the terminal to zone: leave the old one, join the new
// one and pull its set right away.
func (s *Session) SetZone(zone string) { s.post(setZoneMsg{zone: zone}) }

// Retry leaves the Failed state with a fresh reconnect budget. It does
// nothing in any other state.
func (s *Session) Retry() { s.post(retryMsg{}) }

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Session) post(msg any) bool {
	select {
	case s.inbox <- msg:
		return true
	case <-s.done:
		return false
	}
}

// Run connects and then processes events until ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	s.ctx = ctx
	s.connect()
	s.publish()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			s.publish()
			return
		case msg := <-s.inbox:
			s.handle(msg)
			s.publish()
		}
	}
}

func (s *Session) handle(msg any) {
	switch m := msg.(type) {
	case dialResult:
		s.onDialResult(m)

	case linkMessage:
		if m.gen != s.linkGen || s.link == nil {
			return
		}
		s.onEnvelope(m.env)

	case linkClosed:
		if m.gen != s.linkGen || s.link == nil {
			return
		}
		s.link = nil
		s.heartbeat.stop()
		if m.err == nil {
			m.err = errors.New("connection closed")
		}
		log.Warn().Err(m.err).Str("zone", s.zone).Msg("[display] disconnected from hub")
		s.disconnected(m.err)

	case reconnectTick:
		if !s.reconnect.fired(m.gen) || s.state != StateDisconnected {
			return
		}
		s.connect()

	case pollTick:
		if !s.poll.fired(m.gen) {
			return
		}
		if s.state == StateDisconnected || s.state == StateFailed || s.state == StateConnecting {
			s.pull()
			s.armPoll()
		}

	case heartbeatTick:
		if !s.heartbeat.fired(m.gen) || s.state != StateConnected {
			return
		}
		s.send(packets.Envelope{Type: packets.TypePing, Zone: s.zone, SentAt: s.clock.Now().UnixMilli()})
		s.armHeartbeat()

	case pullResult:
		s.onPullResult(m)

	case setZoneMsg:
		s.setZone(m.zone)

	case retryMsg:
		if s.state != StateFailed {
			return
		}
		log.Info().Str("zone", s.zone).Msg("[display] manual retry")
		s.backoff.Reset()
		s.attempts = 0
		s.connect()
	}
}

func (s *Session) connect() {
	s.state = StateConnecting
	s.linkGen++
	gen := s.linkGen
	ctx := s.ctx
	go func() {
		link, err := s.dialer.Dial(ctx)
		if !s.post(dialResult{gen: gen, link: link, err: err}) && link != nil {
			link.Close()
		}
	}()
}

func (s *Session) onDialResult(m dialResult) {
	if m.gen != s.linkGen || s.state != StateConnecting {
		if m.link != nil {
			m.link.Close()
		}
		return
	}
	if m.err != nil {
		log.Warn().Err(m.err).Int("attempt", s.attempts).Msg("[display] connect failed")
		s.disconnected(m.err)
		return
	}

	s.link = m.link
	s.state = StateConnected
	s.attempts = 0
	s.nextRetry = 0
	s.lastErr = nil
	s.backoff.Reset()
	s.reconnect.stop()
	s.poll.stop()
	s.player.SetOverlay("")
	log.Info().Str("zone", s.zone).Msg("[display] connected to hub")

	gen := m.gen
	link := m.link
	go func() {
		for env := range link.Messages() {
			s.post(linkMessage{gen: gen, env: env})
		}
		s.post(linkClosed{gen: gen, err: link.Err()})
	}()

	// the push alone is not trusted for the first view
	s.send(packets.Envelope{Type: packets.TypeJoinZone, Zone: s.zone})
	s.send(packets.Envelope{Type: packets.TypeRequestContent, Zone: s.zone})
	s.armHeartbeat()
}

func (s *Session) disconnected(err error) {
	s.lastErr = err
	s.state = StateDisconnected
	if !s.hasContent {
		s.pull()
	}
	if !s.poll.pending() {
		s.armPoll()
	}

	d := s.backoff.NextBackOff()
	if d == backoff.Stop {
		s.fail()
		return
	}
	s.attempts++
	s.nextRetry = d
	s.reconnect.arm(d, func(gen uint64) { s.post(reconnectTick{gen: gen}) })
	log.Info().Int("attempt", s.attempts).Dur("delay", d).Msg("[display] reconnect scheduled")
}

func (s *Session) fail() {
	s.state = StateFailed
	s.nextRetry = 0
	s.reconnect.stop()
	log.Error().Err(s.lastErr).Int("attempts", s.attempts).Str("zone", s.zone).Msg("[display] giving up on hub connection")
	s.player.SetOverlay(fmt.Sprintf("connection to server lost: %v", s.lastErr))
}

func (s *Session) onEnvelope(env packets.Envelope) {
	switch env.Type {
	case packets.TypeActiveSetUpdated:
		if env.Update == nil || env.Zone != s.zone {
			log.Debug().Str("zone", env.Zone).Str("current", s.zone).Msg("[display] ignoring update for another zone")
			return
		}
		s.apply(*env.Update)

	case packets.TypePong:
		s.latency = s.clock.Now().Sub(time.UnixMilli(env.SentAt))
		if s.latency > slowLatency {
			log.Warn().Dur("latency", s.latency).Msg("[display] high hub latency")
		}

	case packets.TypeError:
		log.Warn().Str("zone", env.Zone).Str("error", env.Error).Msg("[display] hub reported an error")
	}
}

func (s *Session) setZone(zone string) {
	old := s.zone
	if s.link != nil && old != "" && old != zone {
		s.send(packets.Envelope{Type: packets.TypeLeaveZone, Zone: old})
	}
	s.zone = zone
	s.hasContent = false
	s.player.Stop()
	log.Info().Str("from", old).Str("to", zone).Msg("[display] zone changed")

	if s.state == StateConnected {
		s.send(packets.Envelope{Type: packets.TypeJoinZone, Zone: zone})
		s.send(packets.Envelope{Type: packets.TypeRequestContent, Zone: zone})
		return
	}
	s.pull()
}

func (s *Session) pull() {
	zone := s.zone
	ctx := s.ctx
	go func() {
		update, err := s.puller.Pull(ctx, zone)
		s.post(pullResult{zone: zone, update: update, err: err})
	}()
}

func (s *Session) onPullResult(m pullResult) {
	if m.zone != s.zone {
		return
	}
	if m.err != nil {
		log.Warn().Err(m.err).Str("zone", m.zone).Msg("[display] pull failed")
		if !s.hasContent {
			s.player.Load(s.zone, nil)
		}
		return
	}
	s.apply(m.update)
}

func (s *Session) apply(u model.ActiveSetUpdate) {
	s.hasContent = true
	s.lastUpdate = s.clock.Now()
	s.player.Load(s.zone, u.Items)
}

func (s *Session) send(env packets.Envelope) {
	if s.link == nil {
		return
	}
	if !s.link.Send(env) {
		log.Warn().Str("type", env.Type).Msg("[display] send queue full, dropping message")
	}
}

func (s *Session) armPoll() {
	s.poll.arm(s.pollInterval, func(gen uint64) { s.post(pollTick{gen: gen}) })
}

func (s *Session) armHeartbeat() {
	s.heartbeat.arm(s.heartbeatInterval, func(gen uint64) { s.post(heartbeatTick{gen: gen}) })
}

func (s *Session) shutdown() {
	s.reconnect.stop()
	s.poll.stop()
	s.heartbeat.stop()
	if s.link != nil {
		s.link.Close()
		s.link = nil
	}
	s.linkGen++
	s.state = StateClosed
}

func (s *Session) publish() {
	st := Status{
		State:      s.state,
		Zone:       s.zone,
		Attempts:   s.attempts,
		NextRetry:  s.nextRetry,
		LastUpdate: s.lastUpdate,
		Latency:    s.latency,
	}
	if s.lastErr != nil {
		st.Err = s.lastErr.Error()
	}
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}
