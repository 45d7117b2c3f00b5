// Package audit writes the mutation and publish trail kept in the logs table.
package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const (
	KindContent  = "content"
	KindSchedule = "schedule"
	KindPublish  = "publish"
)

type Store interface {
	AddLog(ctx context.Context, entry model.LogEntry) error
}

type Recorder struct {
	store Store
	clock clockwork.Clock
}

func NewRecorder(store Store, clock clockwork.Clock) *Recorder {
	return &Recorder{store: store, clock: clock}
}

// Record persists one audit entry. Failures are logged and swallowed; a
// lost audit line never fails the mutation it describes.
func (r *Recorder) Record(ctx context.Context, kind, message string, subject any) {
	data := "{}"
	if subject != nil {
		if b, err := json.Marshal(subject); err == nil {
			data = string(b)
		}
	}

	entry := model.LogEntry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		Data:      data,
		CreatedAt: r.clock.Now().UTC(),
	}
	if err := r.store.AddLog(ctx, entry); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("[audit] failed to record entry")
	}
}
