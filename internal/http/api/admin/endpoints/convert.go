package endpoints

import (
	"encoding/json"
	"time"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

func contentResponse(c model.ContentItem) packets.ContentResponse {
	return packets.ContentResponse{
		ID:              c.ID,
		Type:            string(c.Type),
		Title:           c.Title,
		MediaURL:        c.MediaURL,
		MimeType:        c.MimeType,
		Zone:            c.Zone,
		DurationSeconds: c.DurationSeconds,
		Active:          c.Active,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
	}
}

func scheduleEntryResponse(e model.ScheduleEntry) packets.ScheduleEntryResponse {
	return packets.ScheduleEntryResponse{
		ID:        e.ID,
		ContentID: e.ContentID,
		Zone:      e.Zone,
		StartTime: e.StartTime.Format(time.RFC3339),
		EndTime:   e.EndTime.Format(time.RFC3339),
		Priority:  e.Priority,
		Active:    e.Active,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func logResponse(l model.LogEntry) packets.LogResponse {
	data := json.RawMessage(l.Data)
	if !json.Valid(data) {
		data = json.RawMessage("{}")
	}
	return packets.LogResponse{
		ID:        l.ID,
		Kind:      l.Kind,
		Message:   l.Message,
		Data:      data,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}
