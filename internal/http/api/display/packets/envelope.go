package packets

import (
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

// Websocket message types. Display to hub:
const (
	TypeJoinZone       = "joinZone"
	TypeLeaveZone      = "leaveZone"
	TypeJoinAdmin      = "joinAdmin"
	TypeRequestContent = "requestContent"
	TypePing           = "ping"
)

// Hub to display:
const (
	TypeActiveSetUpdated = "activeSetUpdated"
	TypePong             = "pong"
	TypeError            = "error"
)

// Envelope is the JSON frame exchanged on the display socket.
type Envelope struct {
	Type   string                 `json:"type"`
	Zone   string                 `json:"zone,omitempty"`
	Update *model.ActiveSetUpdate `json:"update,omitempty"`
	// SentAt is echoed from ping to pong, unix milliseconds.
	SentAt int64  `json:"sent_at,omitempty"`
	Error  string `json:"error,omitempty"`
}

func ActiveSetUpdated(u model.ActiveSetUpdate) Envelope {
	return Envelope{Type: TypeActiveSetUpdated, Zone: u.Zone, Update: &u}
}

func ErrorMessage(zone, msg string) Envelope {
	return Envelope{Type: TypeError, Zone: zone, Error: msg}
}
