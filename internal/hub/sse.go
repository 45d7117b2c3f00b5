package hub

import (
	"encoding/json"
	"net/http"

	"github.com/r3labs/sse/v2"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

// AdminStream is the SSE stream carrying every published active set.
const AdminStream = "active-sets"

// SSEMirror forwards published active sets to dashboard browsers over
// server-sent events.
type SSEMirror struct {
	server *sse.Server
}

func NewSSEMirror() *SSEMirror {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(AdminStream)
	return &SSEMirror{server: server}
}

func (m *SSEMirror) Name() string { return "sse" }

func (m *SSEMirror) Publish(update model.ActiveSetUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	m.server.Publish(AdminStream, &sse.Event{
		Event: []byte("activeSetUpdated"),
		Data:  data,
	})
	return nil
}

// ServeHTTP subscribes the request to the admin stream.
func (m *SSEMirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set("stream", AdminStream)
	r.URL.RawQuery = q.Encode()
	m.server.ServeHTTP(w, r)
}

func (m *SSEMirror) Close() {
	m.server.Close()
}
