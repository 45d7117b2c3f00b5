package model

import "time"

// LogEntry is an audit record of a mutation or publish. Data holds a JSON
// document describing the subject.
type LogEntry struct {
	ID        string    `db:"id"         json:"id"`
	Kind      string    `db:"kind"       json:"kind"`
	Message   string    `db:"message"    json:"message"`
	Data      string    `db:"data"       json:"data"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
