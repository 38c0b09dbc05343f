package service

import (
	"errors"
	"fmt"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
)

// ErrInvalidID is the NotFound case for blank input. Kind and the HTTP layer
// check it before ErrNotFound.
var (
	ErrNotFound       = roster.ErrNotFound
	ErrInvalidID      = fmt.Errorf("%w: member id is required", ErrNotFound)
	ErrAmbiguousID    = roster.ErrAmbiguous
	ErrAlreadyInside  = errors.New("member is already inside")
	ErrAlreadyWaiting = errors.New("member is already on the waiting list")
	ErrNotInside      = errors.New("member is not inside")
	ErrNotWaiting     = errors.New("member is not on the waiting list")
	ErrCannotAdmit    = errors.New("member cannot be admitted from the waiting list")
)

// RejectionError is returned when an operation's precondition fails. It
// carries whatever identifying data was known at the time so the desk can
// tell the member what happened. Err is one of the sentinel errors above.
type RejectionError struct {
	Err    error
	Input  string
	Key    string
	Member *roster.Member
}

func (e *RejectionError) Error() string {
	switch {
	case e.Member != nil:
		return fmt.Sprintf("%s (%s): %v", e.Member.Name, e.Key, e.Err)
	case e.Key != "":
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	default:
		return fmt.Sprintf("%q: %v", e.Input, e.Err)
	}
}

func (e *RejectionError) Unwrap() error { return e.Err }

func reject(err error, input, key string, m *roster.Member) error {
	return &RejectionError{Err: err, Input: input, Key: key, Member: m}
}

// Kind returns a stable snake_case name for a rejection, suitable for API
// payloads and metric labels. Unknown errors map to "internal_error".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, ErrAmbiguousID):
		return "ambiguous_id"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyInside):
		return "already_inside"
	case errors.Is(err, ErrAlreadyWaiting):
		return "already_waiting"
	case errors.Is(err, ErrNotInside):
		return "not_inside"
	case errors.Is(err, ErrNotWaiting):
		return "not_waiting"
	case errors.Is(err, ErrCannotAdmit):
		return "cannot_admit"
	default:
		return "internal_error"
	}
}
