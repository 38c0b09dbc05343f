package service

import (
	"time"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
)

// InsideEntry is a member currently in the gym.
type InsideEntry struct {
	Key       string
	Member    roster.Member
	EnteredAt time.Time
}

// WaitingEntry is a member on the waiting list. Position is 1-based.
type WaitingEntry struct {
	Position int
	Key      string
	Member   roster.Member
}

// Snapshot is a consistent, caller-owned copy of the engine state.
type Snapshot struct {
	Capacity  int
	Remaining int
	Inside    []InsideEntry
	Waiting   []WaitingEntry
	DayLog    []AuditRecord
	Summary   map[roster.Category]int
}

func (s *AdmissionService) Capacity() int { return s.capacity }

// Now reads the engine's clock.
func (s *AdmissionService) Now() time.Time { return s.now() }

// Remaining returns how many more members can enter right now.
func (s *AdmissionService) Remaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacity - len(s.inside)
}

// Inside lists the members inside in admission order.
func (s *AdmissionService) Inside() []InsideEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insideLocked()
}

// Waiting lists the waiting members in arrival order.
func (s *AdmissionService) Waiting() []WaitingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.waitingLocked()
}

// DayLog returns today's records in admission order.
func (s *AdmissionService) DayLog() []AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.snapshot()
}

// Summary returns today's admissions per category.
func (s *AdmissionService) Summary() map[roster.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.summaryCopy()
}

// Snapshot returns every view at once under a single read lock.
func (s *AdmissionService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Capacity:  s.capacity,
		Remaining: s.capacity - len(s.inside),
		Inside:    s.insideLocked(),
		Waiting:   s.waitingLocked(),
		DayLog:    s.log.snapshot(),
		Summary:   s.log.summaryCopy(),
	}
}

func (s *AdmissionService) insideLocked() []InsideEntry {
	out := make([]InsideEntry, 0, len(s.insideOrder))
	for _, k := range s.insideOrder {
		m, _ := s.dir.Get(k)
		out = append(out, InsideEntry{Key: k, Member: m, EnteredAt: s.inside[k]})
	}
	return out
}

func (s *AdmissionService) waitingLocked() []WaitingEntry {
	out := make([]WaitingEntry, 0, len(s.waiting))
	for i, k := range s.waiting {
		m, _ := s.dir.Get(k)
		out = append(out, WaitingEntry{Position: i + 1, Key: k, Member: m})
	}
	return out
}
