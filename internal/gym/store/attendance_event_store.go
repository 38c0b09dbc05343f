package store

import (
	"context"
	"time"
)

// EventKind names the engine transition an AttendanceEventRecord describes.
type EventKind string

const (
	EventEntry          EventKind = "entry"
	EventExit           EventKind = "exit"
	EventQueued         EventKind = "queued"
	EventWaitlistAdmit  EventKind = "waitlist_admit"
	EventWaitlistCancel EventKind = "waitlist_cancel"
)

// AttendanceEventRecord captures a single admission-engine transition for the
// attendance journal. RecordID links entry/admit/exit rows to the day-log
// record they touched; it is empty for queue and cancel events.
type AttendanceEventRecord struct {
	RecordID   string
	Kind       EventKind
	MemberKey  string
	MemberName string
	Category   string
	OccurredAt time.Time
}

// AttendanceEventStore persists engine transitions as an append-only journal.
type AttendanceEventStore interface {
	RecordEvent(ctx context.Context, rec AttendanceEventRecord) error
}

// PrunableStore is a journal that can drop rows older than a cutoff.
type PrunableStore interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
