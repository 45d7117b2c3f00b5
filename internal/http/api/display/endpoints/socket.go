package endpoints

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/display/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/hub"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsSession adapts one websocket connection to hub.Session.
type wsSession struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan packets.Envelope
	closed bool
}

func newWSSession(conn *websocket.Conn) *wsSession {
	return &wsSession{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan packets.Envelope, sendBuffer),
	}
}

func (s *wsSession) ID() string { return s.id }

func (s *wsSession) Deliver(update model.ActiveSetUpdate) bool {
	return s.enqueue(packets.ActiveSetUpdated(update))
}

// enqueue never blocks; a full buffer drops the frame.
func (s *wsSession) enqueue(env packets.Envelope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- env:
		return true
	default:
		return false
	}
}

func (s *wsSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// SocketModule upgrades display and dashboard connections and bridges them
// to the hub.
func SocketModule(h *hub.Hub, presence Presence) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/display/socket", func(ctx *gin.Context) {
			conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
			if err != nil {
				log.Warn().Err(err).Msg("[socket] websocket upgrade failed")
				return
			}
			serveSession(h, presence, conn)
		})
	})
}

func serveSession(h *hub.Hub, presence Presence, conn *websocket.Conn) {
	s := newWSSession(conn)
	h.Register(s)
	log.Info().Str("session", s.id).Str("remote", conn.RemoteAddr().String()).Msg("[socket] connected")

	done := make(chan struct{})
	go func() {
		writePump(s)
		close(done)
	}()

	readPump(h, presence, s)

	h.Unregister(s.id)
	presence.Forget(context.Background(), s.id)
	s.close()
	<-done
	conn.Close()
	log.Info().Str("session", s.id).Msg("[socket] disconnected")
}

func readPump(h *hub.Hub, presence Presence, s *wsSession) {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := context.Background()
	for {
		var env packets.Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", s.id).Msg("[socket] read failed")
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		handleEnvelope(ctx, h, presence, s, env)
	}
}

func handleEnvelope(ctx context.Context, h *hub.Hub, presence Presence, s *wsSession, env packets.Envelope) {
	switch env.Type {
	case packets.TypeJoinZone:
		if err := h.Join(ctx, s.id, env.Zone); err != nil {
			s.enqueue(packets.ErrorMessage(env.Zone, err.Error()))
			return
		}
		presence.Touch(ctx, s.id, env.Zone)

	case packets.TypeLeaveZone:
		h.Leave(s.id, env.Zone)
		presence.Forget(ctx, s.id)

	case packets.TypeJoinAdmin:
		if err := h.JoinAdmin(s.id); err != nil {
			s.enqueue(packets.ErrorMessage(model.AdminZone, err.Error()))
		}

	case packets.TypeRequestContent:
		zone := env.Zone
		if zone == "" {
			zone, _ = h.ZoneOf(s.id)
		}
		if zone == "" || zone == model.AdminZone {
			s.enqueue(packets.ErrorMessage(zone, "requestContent needs a display zone"))
			return
		}
		update, err := h.Snapshot(ctx, zone)
		if err != nil {
			log.Error().Err(err).Str("zone", zone).Msg("[socket] failed to resolve requested zone")
			s.enqueue(packets.ErrorMessage(zone, "failed to resolve zone"))
			return
		}
		s.enqueue(packets.ActiveSetUpdated(update))

	case packets.TypePing:
		if zone, ok := h.ZoneOf(s.id); ok {
			presence.Touch(ctx, s.id, zone)
		}
		s.enqueue(packets.Envelope{Type: packets.TypePong, SentAt: env.SentAt})

	default:
		s.enqueue(packets.ErrorMessage(env.Zone, "unknown message type "+env.Type))
	}
}

func writePump(s *wsSession) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(env); err != nil {
				log.Warn().Err(err).Str("session", s.id).Msg("[socket] write failed")
				// unblock readPump so the session is torn down
				s.conn.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}
		}
	}
}
