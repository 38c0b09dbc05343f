package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/BrandonDHaskell/gymgate/internal/gym/store"
)

// JournalPruner drops attendance journal rows that fall outside the
// retention window. Retention is counted in whole UTC days: the cutoff is
// midnight at the start of the oldest kept day, so a day's entries and
// exits are always kept or dropped together.
//
// A retention of 0 disables pruning entirely.
type JournalPruner struct {
	store     store.PrunableStore
	journal   string
	retention int
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger

	deleted atomic.Int64
	cancel  context.CancelFunc
	done    chan struct{}
}

type PrunerConfig struct {
	// RetentionDays is how many days of journal history to keep, today
	// included. 0 keeps everything.
	RetentionDays int

	// IntervalHours is how often the pruner runs. Defaults to 6.
	IntervalHours int

	// Journal names the backing store in log lines ("memory", "sqlite").
	Journal string

	// Now should be the same clock the AdmissionService stamps events with.
	// Defaults to time.Now in UTC.
	Now func() time.Time
}

// NewJournalPruner creates a pruner but does not start it.
func NewJournalPruner(s store.PrunableStore, cfg PrunerConfig, logger *slog.Logger) *JournalPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &JournalPruner{
		store:     s,
		journal:   cfg.Journal,
		retention: cfg.RetentionDays,
		interval:  interval,
		now:       now,
		logger:    logger.With("journal", cfg.Journal),
		done:      make(chan struct{}),
	}
}

// Cutoff returns the instant before which journal rows are dropped.
func (p *JournalPruner) Cutoff() time.Time {
	y, m, d := p.now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -(p.retention - 1))
}

// Deleted reports how many rows this pruner has removed since it was built.
func (p *JournalPruner) Deleted() int64 { return p.deleted.Load() }

// PruneNow runs one pass synchronously. It is a no-op when retention is 0.
func (p *JournalPruner) PruneNow(ctx context.Context) (int64, error) {
	if p.retention <= 0 {
		return 0, nil
	}
	cutoff := p.Cutoff()
	n, err := p.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	p.deleted.Add(n)
	if n > 0 {
		p.logger.Info("journal pruned",
			"deleted", n,
			"deleted_total", p.deleted.Load(),
			"cutoff", cutoff.Format(time.DateOnly))
	}
	return n, nil
}

// Start runs an immediate prune, then repeats on the configured interval
// until ctx is cancelled or Stop is called.
func (p *JournalPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Info("journal pruner disabled", "retention_days", 0)
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Info("journal pruner started",
		"retention_days", p.retention,
		"interval_hours", int(p.interval.Hours()))
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *JournalPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *JournalPruner) loop(ctx context.Context) {
	defer close(p.done)

	p.run(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

func (p *JournalPruner) run(ctx context.Context) {
	if _, err := p.PruneNow(ctx); err != nil {
		p.logger.Error("journal prune failed", "error", err)
	}
}
