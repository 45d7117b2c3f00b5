package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

// EntryLister lists active schedule entries for a zone, or all of them for "".
type EntryLister interface {
	ListActiveEntries(ctx context.Context, zone string) ([]model.ScheduleEntry, error)
}

// Advisor reports higher priority entries that would shadow a candidate.
// Its answer is a warning for operators and never rejects a write.
type Advisor struct {
	entries EntryLister
}

func NewAdvisor(entries EntryLister) *Advisor {
	return &Advisor{entries: entries}
}

// FindHigherPriorityOverlaps returns active entries sharing a zone with the
// candidate whose window intersects [start, end) and whose priority is
// strictly greater. A candidate in the wildcard zone is compared against
// every zone.
func (a *Advisor) FindHigherPriorityOverlaps(ctx context.Context, zone string, start, end time.Time, priority int) ([]model.ScheduleEntry, error) {
	lookup := zone
	if zone == model.AllZones {
		lookup = ""
	}
	entries, err := a.entries.ListActiveEntries(ctx, lookup)
	if err != nil {
		return nil, fmt.Errorf("list entries for overlap check: %w", err)
	}

	out := []model.ScheduleEntry{}
	for _, e := range entries {
		if !e.Active || e.Priority <= priority {
			continue
		}
		if zone != model.AllZones && !model.ZoneMatches(e.Zone, zone) {
			continue
		}
		if e.Overlaps(start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}
