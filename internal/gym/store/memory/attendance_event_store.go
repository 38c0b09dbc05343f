package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BrandonDHaskell/gymgate/internal/gym/store"
)

// AttendanceEventStore is an in-memory append-only journal.
// It is intended for use in tests and dev environments.
type AttendanceEventStore struct {
	mu     sync.Mutex
	events []store.AttendanceEventRecord
}

func NewAttendanceEventStore() *AttendanceEventStore {
	return &AttendanceEventStore{}
}

func (s *AttendanceEventStore) RecordEvent(_ context.Context, rec store.AttendanceEventRecord) error {
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, rec)
	return nil
}

func (s *AttendanceEventStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, ev := range s.events {
		if ev.OccurredAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	return deleted, nil
}

// Events returns a copy of all recorded events.  Test-only helper.
func (s *AttendanceEventStore) Events() []store.AttendanceEventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.AttendanceEventRecord, len(s.events))
	copy(out, s.events)
	return out
}
