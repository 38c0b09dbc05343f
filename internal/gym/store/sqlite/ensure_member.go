package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ensureMember guarantees a members row exists for key so the foreign key
// from attendance_events is satisfied even if the roster sync has not seen
// this member. The placeholder row carries the event's category and no name;
// the next SyncMembers fills it in.
//
// Must be called inside an existing transaction.
func ensureMember(ctx context.Context, tx *sql.Tx, key, category string, nowMs int64) error {
	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO members(
  member_key, category, created_at_ms, updated_at_ms
) VALUES (?, ?, ?, ?);
`, key, category, nowMs, nowMs); err != nil {
		return fmt.Errorf("ensureMember %s: %w", key, err)
	}
	return nil
}
