package packets

import "time"

// CreateContentRequest registers a media item. Type is derived from
// MimeType when empty; DurationSeconds defaults by type when zero.
type CreateContentRequest struct {
	Title           string `json:"title"     binding:"required"`
	Type            string `json:"type"`
	MediaURL        string `json:"media_url" binding:"required"`
	MimeType        string `json:"mime_type"`
	Zone            string `json:"zone"`
	DurationSeconds int    `json:"duration_seconds"`
}

type UpdateContentRequest struct {
	Title           *string `json:"title"`
	MediaURL        *string `json:"media_url"`
	Zone            *string `json:"zone"`
	DurationSeconds *int    `json:"duration_seconds"`
}

type CreateScheduleRequest struct {
	ContentID string    `json:"content_id" binding:"required"`
	Zone      string    `json:"zone"       binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time"   binding:"required"`
	Priority  int       `json:"priority"`
}
