package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the identifier matched no roster key.
	ErrNotFound = errors.New("member not found")
	// ErrAmbiguous indicates a numeric identifier matched several keys and
	// the directory was built to reject such input.
	ErrAmbiguous = errors.New("identifier matches more than one member")
	// ErrDirectoryLoad wraps every failure to build a directory from a source.
	ErrDirectoryLoad = errors.New("roster load failed")
)

// Directory is the read-only member roster. Keys keep the order in which the
// source listed them; digit-suffix resolution walks that order.
type Directory struct {
	order   []string
	members map[string]Member

	rejectAmbiguous bool
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// RejectAmbiguous makes numeric resolution fail with ErrAmbiguous when more
// than one key shares the typed digits, instead of taking the first key.
func RejectAmbiguous(on bool) DirectoryOption {
	return func(d *Directory) { d.rejectAmbiguous = on }
}

// NewDirectory builds a directory from members in source order. Keys are
// trimmed; blank or duplicate keys are rejected.
func NewDirectory(members []Member, opts ...DirectoryOption) (*Directory, error) {
	d := &Directory{
		order:   make([]string, 0, len(members)),
		members: make(map[string]Member, len(members)),
	}
	for _, opt := range opts {
		opt(d)
	}

	for i, m := range members {
		m.Key = strings.TrimSpace(m.Key)
		if m.Key == "" {
			return nil, fmt.Errorf("%w: member %d has no identifier", ErrDirectoryLoad, i+1)
		}
		if _, dup := d.members[m.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate identifier %q", ErrDirectoryLoad, m.Key)
		}
		d.order = append(d.order, m.Key)
		d.members[m.Key] = m
	}
	return d, nil
}

// Len returns the number of members.
func (d *Directory) Len() int { return len(d.order) }

// Get looks up a member by its exact key.
func (d *Directory) Get(key string) (Member, bool) {
	m, ok := d.members[key]
	return m, ok
}

// Members returns every member in source order.
func (d *Directory) Members() []Member {
	out := make([]Member, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.members[k])
	}
	return out
}
