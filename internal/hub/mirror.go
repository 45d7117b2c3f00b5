package hub

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/metrics"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const mirrorQueueSize = 64

// mirrorQueue feeds one mirror from its own goroutine.
type mirrorQueue struct {
	mirror  Mirror
	updates chan model.ActiveSetUpdate
}

func newMirrorQueue(m Mirror, size int) *mirrorQueue {
	return &mirrorQueue{mirror: m, updates: make(chan model.ActiveSetUpdate, size)}
}

// offer queues update without blocking. A full queue drops it.
func (q *mirrorQueue) offer(update model.ActiveSetUpdate) bool {
	select {
	case q.updates <- update:
		return true
	default:
		metrics.MirrorErrors.WithLabelValues(q.mirror.Name()).Inc()
		log.Warn().Str("mirror", q.mirror.Name()).Str("zone", update.Zone).Msg("[hub] mirror queue full, update dropped")
		return false
	}
}

func (q *mirrorQueue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-q.updates:
			if err := q.mirror.Publish(update); err != nil {
				metrics.MirrorErrors.WithLabelValues(q.mirror.Name()).Inc()
				log.Warn().Err(err).Str("mirror", q.mirror.Name()).Str("zone", update.Zone).Msg("[hub] mirror publish failed")
			}
		}
	}
}
