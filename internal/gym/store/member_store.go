package store

import (
	"context"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
)

// MemberStore mirrors the loaded roster so journal rows can reference it.
type MemberStore interface {
	SyncMembers(ctx context.Context, members []roster.Member) (int, error)
}
