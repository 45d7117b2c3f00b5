package model

import "time"

type ContentType string

const (
	ContentImage      ContentType = "image"
	ContentVideo      ContentType = "video"
	ContentLivestream ContentType = "livestream"
	ContentOther      ContentType = "other"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentImage, ContentVideo, ContentLivestream, ContentOther:
		return true
	}
	return false
}

// ContentItem is a piece of displayable media. Records are never hard
// deleted; Active=false hides them from every resolved set.
type ContentItem struct {
	ID              string      `db:"id"               json:"id"`
	Type            ContentType `db:"type"             json:"type"`
	Title           string      `db:"title"            json:"title"`
	MediaURL        string      `db:"media_url"        json:"media_url"`
	MimeType        string      `db:"mime_type"        json:"mime_type"`
	Zone            string      `db:"zone"             json:"zone"`
	DurationSeconds int         `db:"duration_seconds" json:"duration_seconds"`
	Active          bool        `db:"active"           json:"active"`
	CreatedAt       time.Time   `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"       json:"updated_at"`
}

// Dwell is how long the item stays on screen before the loop advances.
func (c ContentItem) Dwell() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}
