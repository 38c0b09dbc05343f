package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/gymgate/internal/db"
	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
)

type MemberStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewMemberStore(db *sql.DB, writer *dbpkg.Worker) *MemberStore {
	return &MemberStore{db: db, writer: writer}
}

// SyncMembers upserts the loaded roster in one transaction and marks members
// missing from it inactive. Journal rows keep pointing at inactive members.
// Returns the number of members written.
func (s *MemberStore) SyncMembers(ctx context.Context, members []roster.Member) (int, error) {
	nowMs := time.Now().UTC().UnixMilli()

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE members SET active = 0;`); err != nil {
			return fmt.Errorf("SyncMembers deactivate: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO members(
  member_key, display_name, category, active, created_at_ms, updated_at_ms
) VALUES (?, ?, ?, 1, ?, ?)
ON CONFLICT(member_key) DO UPDATE SET
  display_name = excluded.display_name,
  category = excluded.category,
  active = 1,
  updated_at_ms = excluded.updated_at_ms;
`)
		if err != nil {
			return fmt.Errorf("SyncMembers prepare: %w", err)
		}
		defer stmt.Close()

		for _, m := range members {
			if _, err := stmt.ExecContext(ctx, m.Key, m.Name, m.Category.String(), nowMs, nowMs); err != nil {
				return fmt.Errorf("SyncMembers upsert %s: %w", m.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(members), nil
}
