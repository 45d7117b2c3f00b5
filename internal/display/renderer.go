package display

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

// Renderer draws what the player decides to show. Calls come from the
// player loop only and must not block on the network.
type Renderer interface {
	// Show draws item. An error means the media could not be rendered.
	Show(item model.ActiveItem) error
	// ShowItemError replaces the failing item's visual with an inline error.
	ShowItemError(item model.ActiveItem, err error)
	ShowPlaceholder(zone string)
	// ShowOverlay puts a connection notice over whatever is on screen.
	// An empty message removes it.
	ShowOverlay(message string)
	Clear()
}

// LogRenderer writes every screen change to the log.
type LogRenderer struct{}

func (LogRenderer) Show(item model.ActiveItem) error {
	log.Info().
		Str("entry_id", item.Entry.ID).
		Str("content_id", item.Content.ID).
		Str("type", string(item.Content.Type)).
		Str("title", item.Content.Title).
		Str("media_url", item.Content.MediaURL).
		Dur("dwell", item.Content.Dwell()).
		Msg("[display] showing")
	return nil
}

func (LogRenderer) ShowItemError(item model.ActiveItem, err error) {
	log.Warn().Err(err).Str("content_id", item.Content.ID).Msg("[display] media failed to load")
}

func (LogRenderer) ShowPlaceholder(zone string) {
	log.Info().Str("zone", zone).Msg("[display] no content for this zone")
}

func (LogRenderer) ShowOverlay(message string) {
	if message == "" {
		log.Info().Msg("[display] overlay cleared")
		return
	}
	log.Warn().Str("message", message).Msg("[display] overlay")
}

func (LogRenderer) Clear() {
	log.Debug().Msg("[display] screen cleared")
}
