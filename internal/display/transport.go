package display

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/display/packets"
)

const (
	socketPath    = "/api/display/socket"
	sendQueueSize = 16
	recvQueueSize = 16
	writeWait     = 10 * time.Second
)

// Link is one live push connection to the hub.
type Link interface {
	// Send queues env without blocking. It reports false when the queue is
	// full or the link is closed.
	Send(env packets.Envelope) bool
	// Messages is closed when the connection ends.
	Messages() <-chan packets.Envelope
	// Err is the reason the connection ended, once Messages is closed.
	Err() error
	Close()
}

type Dialer interface {
	Dial(ctx context.Context) (Link, error)
}

// WebsocketDialer connects to the hub's display socket.
type WebsocketDialer struct {
	url    string
	dialer *websocket.Dialer
}

// NewWebsocketDialer derives the socket URL from the server's base http(s) URL.
func NewWebsocketDialer(serverURL string) (*WebsocketDialer, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + socketPath

	d := *websocket.DefaultDialer
	d.HandshakeTimeout = 10 * time.Second
	return &WebsocketDialer{url: u.String(), dialer: &d}, nil
}

func (d *WebsocketDialer) URL() string { return d.url }

func (d *WebsocketDialer) Dial(ctx context.Context) (Link, error) {
	conn, _, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.url, err)
	}
	l := &wsLink{
		conn: conn,
		send: make(chan packets.Envelope, sendQueueSize),
		recv: make(chan packets.Envelope, recvQueueSize),
		done: make(chan struct{}),
	}
	go l.readPump()
	go l.writePump()
	return l, nil
}

type wsLink struct {
	conn *websocket.Conn
	send chan packets.Envelope
	recv chan packets.Envelope
	done chan struct{}
	once sync.Once

	mu  sync.Mutex
	err error
}

func (l *wsLink) Send(env packets.Envelope) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.send <- env:
		return true
	default:
		return false
	}
}

func (l *wsLink) Messages() <-chan packets.Envelope { return l.recv }

func (l *wsLink) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *wsLink) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *wsLink) fail(err error) {
	l.mu.Lock()
	if l.err == nil {
		l.err = err
	}
	l.mu.Unlock()
}

func (l *wsLink) readPump() {
	defer close(l.recv)
	for {
		var env packets.Envelope
		if err := l.conn.ReadJSON(&env); err != nil {
			l.fail(err)
			l.Close()
			return
		}
		select {
		case l.recv <- env:
		case <-l.done:
			return
		}
	}
}

func (l *wsLink) writePump() {
	defer l.conn.Close()
	for {
		select {
		case env := <-l.send:
			_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteJSON(env); err != nil {
				log.Warn().Err(err).Msg("[display] socket write failed")
				l.fail(err)
				l.Close()
				return
			}
		case <-l.done:
			_ = l.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
