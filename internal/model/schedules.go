package model

import "time"

type ScheduleEntry struct {
	ID        string    `db:"id"         json:"id"`
	ContentID string    `db:"content_id" json:"content_id"`
	Zone      string    `db:"zone"       json:"zone"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time"   json:"end_time"`
	Priority  int       `db:"priority"   json:"priority"`
	Active    bool      `db:"active"     json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Covers reports whether t falls inside the closed window [StartTime, EndTime].
func (e ScheduleEntry) Covers(t time.Time) bool {
	return !t.Before(e.StartTime) && !t.After(e.EndTime)
}

// Overlaps reports whether the entry's window strictly intersects the
// half-open interval [start, end).
func (e ScheduleEntry) Overlaps(start, end time.Time) bool {
	return e.StartTime.Before(end) && e.EndTime.After(start)
}

type ScheduleStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Upcoming int `json:"upcoming"`
}
