package packets

import "encoding/json"

// ContentResponse mirrors model.ContentItem but flattens times to RFC3339
type ContentResponse struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	MediaURL        string `json:"media_url"`
	MimeType        string `json:"mime_type"`
	Zone            string `json:"zone"`
	DurationSeconds int    `json:"duration_seconds"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type ScheduleEntryResponse struct {
	ID        string `json:"id"`
	ContentID string `json:"content_id"`
	Zone      string `json:"zone"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Priority  int    `json:"priority"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// CreateScheduleResponse carries the stored entry plus any higher
// priority entries that overlap it. Warning is set when Overlaps is not empty.
type CreateScheduleResponse struct {
	Entry    ScheduleEntryResponse   `json:"entry"`
	Overlaps []ScheduleEntryResponse `json:"overlaps"`
	Warning  string                  `json:"warning,omitempty"`
}

type LogResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"created_at"`
}
