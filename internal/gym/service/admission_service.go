package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
	"github.com/BrandonDHaskell/gymgate/internal/gym/store"
)

// DefaultCapacity is the number of members allowed inside at once when the
// configuration does not say otherwise.
const DefaultCapacity = 25

// MemberDirectory resolves desk input to roster members.
type MemberDirectory interface {
	Resolve(raw string) (string, roster.Member, error)
	Get(key string) (roster.Member, bool)
}

// Outcome is the successful result of an engine operation.
type Outcome string

const (
	OutcomeAdmitted  Outcome = "admitted"
	OutcomeQueued    Outcome = "queued"
	OutcomeExited    Outcome = "exited"
	OutcomeCancelled Outcome = "cancelled"
)

// Result describes what an operation did. At is set for admissions and
// exits; Position (1-based) is set when the member was queued.
type Result struct {
	Outcome     Outcome
	Key         string
	Member      roster.Member
	At          time.Time
	Position    int
	RecordID    string
	FromWaiting bool
}

// Observer receives engine activity after the engine lock is released.
type Observer interface {
	ObserveOutcome(o Outcome, c roster.Category, fromWaiting bool)
	ObserveRejection(kind string)
	ObserveOccupancy(inside, waiting, capacity int)
}

type nopObserver struct{}

func (nopObserver) ObserveOutcome(Outcome, roster.Category, bool) {}
func (nopObserver) ObserveRejection(string)                       {}
func (nopObserver) ObserveOccupancy(int, int, int)                {}

// Option configures an AdmissionService.
type Option func(*AdmissionService)

// WithClock replaces time.Now for timestamping entries and exits.
func WithClock(now func() time.Time) Option {
	return func(s *AdmissionService) { s.now = now }
}

// WithEventStore mirrors every transition to a journal.
func WithEventStore(es store.AttendanceEventStore) Option {
	return func(s *AdmissionService) { s.events = es }
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(s *AdmissionService) { s.observer = o }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *AdmissionService) { s.logger = l }
}

// AdmissionService enforces the gym's capacity. It owns the set of members
// inside, the FIFO waiting list and today's log; a single mutex guards all
// of it and every operation checks its preconditions before mutating.
type AdmissionService struct {
	dir      MemberDirectory
	capacity int
	now      func() time.Time
	events   store.AttendanceEventStore
	observer Observer
	logger   *slog.Logger

	mu          sync.RWMutex
	inside      map[string]time.Time
	insideOrder []string
	waiting     []string
	log         *dayLog
}

var ErrInvalidCapacity = errors.New("capacity must be positive")

func NewAdmissionService(dir MemberDirectory, capacity int, opts ...Option) (*AdmissionService, error) {
	if dir == nil {
		return nil, errors.New("member directory is required")
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	s := &AdmissionService{
		dir:      dir,
		capacity: capacity,
		now:      func() time.Time { return time.Now().UTC() },
		observer: nopObserver{},
		inside:   make(map[string]time.Time, capacity),
		log:      newDayLog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s, nil
}

// RegisterEntry admits the member if there is room, otherwise appends them
// to the waiting list.
func (s *AdmissionService) RegisterEntry(ctx context.Context, raw string) (Result, error) {
	key, m, err := s.resolve(raw)
	if err != nil {
		return Result{}, s.rejected(err)
	}

	s.mu.Lock()
	if _, ok := s.inside[key]; ok {
		s.mu.Unlock()
		return Result{}, s.rejected(reject(ErrAlreadyInside, raw, key, &m))
	}
	if s.waitingIndex(key) >= 0 {
		s.mu.Unlock()
		return Result{}, s.rejected(reject(ErrAlreadyWaiting, raw, key, &m))
	}

	now := s.now()
	var (
		res Result
		ev  store.AttendanceEventRecord
	)
	if len(s.inside) < s.capacity {
		rec := s.admitLocked(key, m, now)
		res = Result{Outcome: OutcomeAdmitted, Key: key, Member: m, At: now, RecordID: rec.ID}
		ev = newEvent(store.EventEntry, rec.ID, key, m, now)
	} else {
		s.waiting = append(s.waiting, key)
		res = Result{Outcome: OutcomeQueued, Key: key, Member: m, Position: len(s.waiting)}
		ev = newEvent(store.EventQueued, "", key, m, now)
	}
	inside, waiting := len(s.inside), len(s.waiting)
	s.mu.Unlock()

	s.publish(ctx, res, ev, inside, waiting)
	return res, nil
}

// RegisterExit removes the member from the inside set and closes their
// earliest open log record. Waiting members are never promoted here; the
// desk admits them explicitly.
func (s *AdmissionService) RegisterExit(ctx context.Context, raw string) (Result, error) {
	key, m, err := s.resolve(raw)
	if err != nil {
		return Result{}, s.rejected(err)
	}

	s.mu.Lock()
	if _, ok := s.inside[key]; !ok {
		s.mu.Unlock()
		return Result{}, s.rejected(reject(ErrNotInside, raw, key, &m))
	}

	now := s.now()
	delete(s.inside, key)
	s.insideOrder = removeKey(s.insideOrder, key)
	rec, ok := s.log.exit(key, now)
	if !ok {
		s.logger.Warn("exit without open log record", "key", key)
	}
	inside, waiting := len(s.inside), len(s.waiting)
	s.mu.Unlock()

	res := Result{Outcome: OutcomeExited, Key: key, Member: m, At: now, RecordID: rec.ID}
	s.publish(ctx, res, newEvent(store.EventExit, rec.ID, key, m, now), inside, waiting)
	return res, nil
}

// AdmitFromWaiting moves a waiting member inside. It fails with
// ErrCannotAdmit when the key is not waiting or the gym is full.
func (s *AdmissionService) AdmitFromWaiting(ctx context.Context, key string) (Result, error) {
	key = strings.TrimSpace(key)

	s.mu.Lock()
	idx := s.waitingIndex(key)
	if idx < 0 || len(s.inside) >= s.capacity {
		s.mu.Unlock()
		return Result{}, s.rejected(s.rejectKey(ErrCannotAdmit, key))
	}
	m, ok := s.dir.Get(key)
	if !ok {
		s.mu.Unlock()
		return Result{}, s.rejected(s.rejectKey(ErrCannotAdmit, key))
	}

	now := s.now()
	s.waiting = append(s.waiting[:idx], s.waiting[idx+1:]...)
	rec := s.admitLocked(key, m, now)
	inside, waiting := len(s.inside), len(s.waiting)
	s.mu.Unlock()

	res := Result{Outcome: OutcomeAdmitted, Key: key, Member: m, At: now, RecordID: rec.ID, FromWaiting: true}
	s.publish(ctx, res, newEvent(store.EventWaitlistAdmit, rec.ID, key, m, now), inside, waiting)
	return res, nil
}

// CancelWaiting drops a member from the waiting list.
func (s *AdmissionService) CancelWaiting(ctx context.Context, key string) (Result, error) {
	key = strings.TrimSpace(key)

	s.mu.Lock()
	idx := s.waitingIndex(key)
	if idx < 0 {
		s.mu.Unlock()
		return Result{}, s.rejected(s.rejectKey(ErrNotWaiting, key))
	}
	s.waiting = append(s.waiting[:idx], s.waiting[idx+1:]...)
	inside, waiting := len(s.inside), len(s.waiting)
	now := s.now()
	s.mu.Unlock()

	m, _ := s.dir.Get(key)
	res := Result{Outcome: OutcomeCancelled, Key: key, Member: m}
	s.publish(ctx, res, newEvent(store.EventWaitlistCancel, "", key, m, now), inside, waiting)
	return res, nil
}

// BatchResult collects the outcome of a multi-key waitlist operation.
type BatchResult struct {
	Done     []Result
	Rejected []error
}

// AdmitSelected admits the given waiting members in order. Once the gym is
// full the remaining keys are rejected with ErrCannotAdmit without being
// attempted.
func (s *AdmissionService) AdmitSelected(ctx context.Context, keys []string) BatchResult {
	var out BatchResult
	for i, k := range keys {
		if s.Remaining() <= 0 {
			for _, rest := range keys[i:] {
				out.Rejected = append(out.Rejected, s.rejectKey(ErrCannotAdmit, strings.TrimSpace(rest)))
			}
			break
		}
		res, err := s.AdmitFromWaiting(ctx, k)
		if err != nil {
			out.Rejected = append(out.Rejected, err)
			continue
		}
		out.Done = append(out.Done, res)
	}
	return out
}

// CancelSelected cancels each of the given waiting members.
func (s *AdmissionService) CancelSelected(ctx context.Context, keys []string) BatchResult {
	var out BatchResult
	for _, k := range keys {
		res, err := s.CancelWaiting(ctx, k)
		if err != nil {
			out.Rejected = append(out.Rejected, err)
			continue
		}
		out.Done = append(out.Done, res)
	}
	return out
}

func (s *AdmissionService) resolve(raw string) (string, roster.Member, error) {
	if strings.TrimSpace(raw) == "" {
		return "", roster.Member{}, reject(ErrInvalidID, raw, "", nil)
	}
	key, m, err := s.dir.Resolve(raw)
	if err != nil {
		return "", roster.Member{}, reject(err, raw, "", nil)
	}
	return key, m, nil
}

func (s *AdmissionService) rejectKey(err error, key string) error {
	if m, ok := s.dir.Get(key); ok {
		return reject(err, key, key, &m)
	}
	return reject(err, key, key, nil)
}

func (s *AdmissionService) rejected(err error) error {
	s.observer.ObserveRejection(Kind(err))
	return err
}

// admitLocked must be called with s.mu held and free capacity checked.
func (s *AdmissionService) admitLocked(key string, m roster.Member, at time.Time) AuditRecord {
	s.inside[key] = at
	s.insideOrder = append(s.insideOrder, key)
	return s.log.admit(key, m, at)
}

func (s *AdmissionService) waitingIndex(key string) int {
	for i, k := range s.waiting {
		if k == key {
			return i
		}
	}
	return -1
}

// publish forwards a completed transition to the journal and the observer.
// Journal errors are logged rather than returned; the desk's decision
// stands even if the audit write fails.
func (s *AdmissionService) publish(ctx context.Context, res Result, ev store.AttendanceEventRecord, inside, waiting int) {
	s.observer.ObserveOutcome(res.Outcome, res.Member.Category, res.FromWaiting)
	s.observer.ObserveOccupancy(inside, waiting, s.capacity)

	s.logger.Info("attendance",
		"outcome", string(res.Outcome),
		"key", res.Key,
		"category", res.Member.Category.String(),
		"inside", inside,
		"waiting", waiting,
	)

	if s.events == nil {
		return
	}
	if err := s.events.RecordEvent(ctx, ev); err != nil {
		s.logger.Error("journal write failed", "kind", string(ev.Kind), "key", ev.MemberKey, "error", err)
	}
}

func newEvent(kind store.EventKind, recordID, key string, m roster.Member, at time.Time) store.AttendanceEventRecord {
	return store.AttendanceEventRecord{
		RecordID:   recordID,
		Kind:       kind,
		MemberKey:  key,
		MemberName: m.Name,
		Category:   m.Category.String(),
		OccurredAt: at,
	}
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
