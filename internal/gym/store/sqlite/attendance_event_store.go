package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/gymgate/internal/db"
	"github.com/BrandonDHaskell/gymgate/internal/gym/store"
)

type AttendanceEventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAttendanceEventStore(db *sql.DB, writer *dbpkg.Worker) *AttendanceEventStore {
	return &AttendanceEventStore{db: db, writer: writer}
}

func (s *AttendanceEventStore) RecordEvent(ctx context.Context, rec store.AttendanceEventRecord) error {
	if rec.MemberKey == "" {
		return fmt.Errorf("RecordEvent: member key is required")
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}
	occurredMs := rec.OccurredAt.UTC().UnixMilli()

	var recordID any
	if rec.RecordID != "" {
		recordID = rec.RecordID
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureMember(ctx, tx, rec.MemberKey, rec.Category, occurredMs); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO attendance_events(
  record_id, kind, member_key, category, occurred_at_ms
) VALUES (?, ?, ?, ?, ?);
`,
			recordID, string(rec.Kind), rec.MemberKey, rec.Category, occurredMs,
		); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}

		return nil
	})
}

// PruneOlderThan deletes journal rows with occurred_at_ms before cutoff and
// returns the number of rows deleted. Uses idx_attendance_events_time.
func (s *AttendanceEventStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM attendance_events
WHERE occurred_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
