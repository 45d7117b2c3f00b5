package model

import "time"

// ActiveItem pairs a schedule entry with the content it points at. The
// content is joined at read time and never copied into the entry.
type ActiveItem struct {
	Entry   ScheduleEntry `json:"entry"`
	Content ContentItem   `json:"content"`
}

// ActiveSetUpdate is the resolved, ordered set for one zone at one instant.
// It lives only in memory and is recomputed on demand.
type ActiveSetUpdate struct {
	Zone      string       `json:"zone"`
	Items     []ActiveItem `json:"items"`
	Timestamp time.Time    `json:"timestamp"`
}
