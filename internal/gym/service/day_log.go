package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
)

// AuditRecord is one attendance session in the day log.
type AuditRecord struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	Category  roster.Category `json:"category"`
	EnteredAt time.Time       `json:"entered_at"`
	ExitedAt  *time.Time      `json:"exited_at,omitempty"`
}

// Open reports whether the member has not yet exited for this record.
func (r AuditRecord) Open() bool { return r.ExitedAt == nil }

// dayLog is the append-only record of today's sessions plus the per-category
// admission counters. Not safe for concurrent use; the engine's lock guards it.
type dayLog struct {
	records []AuditRecord
	summary map[roster.Category]int
}

func newDayLog() *dayLog {
	s := make(map[roster.Category]int, len(roster.Categories))
	for _, c := range roster.Categories {
		s[c] = 0
	}
	return &dayLog{summary: s}
}

// admit appends a fresh open record and bumps the member's category.
func (l *dayLog) admit(key string, m roster.Member, at time.Time) AuditRecord {
	rec := AuditRecord{
		ID:        uuid.NewString(),
		Key:       key,
		Name:      m.Name,
		Category:  m.Category,
		EnteredAt: at,
	}
	l.records = append(l.records, rec)
	l.summary[m.Category]++
	return rec
}

// exit stamps the earliest open record for key. It never appends.
func (l *dayLog) exit(key string, at time.Time) (AuditRecord, bool) {
	for i := range l.records {
		r := &l.records[i]
		if r.Key == key && r.ExitedAt == nil {
			t := at
			r.ExitedAt = &t
			return *r, true
		}
	}
	return AuditRecord{}, false
}

func (l *dayLog) snapshot() []AuditRecord {
	out := make([]AuditRecord, len(l.records))
	for i, r := range l.records {
		if r.ExitedAt != nil {
			t := *r.ExitedAt
			r.ExitedAt = &t
		}
		out[i] = r
	}
	return out
}

func (l *dayLog) summaryCopy() map[roster.Category]int {
	out := make(map[roster.Category]int, len(l.summary))
	for c, n := range l.summary {
		out[c] = n
	}
	return out
}
