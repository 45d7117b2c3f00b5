package model

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeDeleted ChangeKind = "deleted"
	ChangeUpdated ChangeKind = "updated"
)

// ContentChanged is raised by the content boundary after a successful write.
// PreviousZone is set on updates that moved the item to another zone.
type ContentChanged struct {
	Kind         ChangeKind
	Content      ContentItem
	PreviousZone string
}

// ScheduleChanged is raised by the schedule boundary after a successful write.
type ScheduleChanged struct {
	Kind  ChangeKind
	Entry ScheduleEntry
}
