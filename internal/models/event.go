package models

import "time"

// Priority ranks how strongly an event or task should hold its place on the calendar.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid returns true when the priority is a supported value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Weight maps priorities to their numeric rank. Unknown values rank lowest.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Event represents a scheduled calendar occupation.
type Event struct {
	EventID   string    `db:"event_id" json:"event_id"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Source    string    `db:"source" json:"source"`
	Priority  Priority  `db:"priority" json:"priority"`
	Location  *string   `db:"location" json:"location,omitempty"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
}

// Duration returns the length of the event.
func (e Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Overlaps reports whether the two events occupy any common moment.
// The relation is symmetric: A.Start < B.End && B.Start < A.End.
func (e Event) Overlaps(other Event) bool {
	return e.StartTime.Before(other.EndTime) && other.StartTime.Before(e.EndTime)
}

// ConflictGroup is a set of two or more events whose time ranges overlap.
type ConflictGroup struct {
	Events []Event `json:"events"`
}

// EventIDs returns the member ids as a set.
func (g ConflictGroup) EventIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.Events))
	for _, e := range g.Events {
		ids[e.EventID] = struct{}{}
	}
	return ids
}

// ResolutionDecision records which event of a conflict group stays in place
// and which one should be rescheduled.
type ResolutionDecision struct {
	KeepEventID       string `json:"keep_event_id"`
	RescheduleEventID string `json:"reschedule_event_id"`
	Reason            string `json:"reason"`
}

// PendingTask is a piece of work awaiting a calendar slot, not yet an event.
// Tasks are supplied per scheduling run and never persisted.
type PendingTask struct {
	Name             string   `json:"name" validate:"required"`
	EstimatedMinutes int      `json:"estimated_minutes" validate:"required,gt=0"`
	Deadline         string   `json:"deadline" validate:"required"`
	Priority         Priority `json:"priority" validate:"required,priority"`
}

// SlotProposal is a proposed non-overlapping time slot for a pending task.
type SlotProposal struct {
	Task              string    `json:"task"`
	ProposedStartTime time.Time `json:"proposed_start_time"`
	ProposedEndTime   time.Time `json:"proposed_end_time"`
	Reason            string    `json:"reason"`
}

// FreeBlock is a maximal unoccupied sub-interval of working hours on a given
// day. Free blocks are derived per scheduling run and never persisted.
type FreeBlock struct {
	Start time.Time
	End   time.Time
}
