// Package app assembles the admission engine from configuration. Both the
// HTTP server and the console front desk start from here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/BrandonDHaskell/gymgate/internal/config"
	"github.com/BrandonDHaskell/gymgate/internal/db"
	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
	"github.com/BrandonDHaskell/gymgate/internal/gym/store"
	"github.com/BrandonDHaskell/gymgate/internal/gym/store/memory"
	"github.com/BrandonDHaskell/gymgate/internal/gym/store/sqlite"
)

// Engine is a running admission engine plus the journal resources it owns.
type Engine struct {
	Directory *roster.Directory
	Admission *service.AdmissionService

	pruner *service.JournalPruner
	writer *db.Worker
	conn   *sql.DB
}

// NewEngine loads the roster, opens the configured journal and builds the
// admission service. The observer may be nil.
func NewEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, obs service.Observer) (*Engine, error) {
	dir, err := roster.LoadFile(cfg.RosterPath, roster.RejectAmbiguous(cfg.RejectAmbiguous))
	if err != nil {
		return nil, err
	}
	logger.Info("roster loaded", "path", cfg.RosterPath, "members", dir.Len())

	e := &Engine{Directory: dir}

	journal, prunable, err := e.openJournal(ctx, cfg, logger)
	if err != nil {
		e.Close()
		return nil, err
	}

	opts := []service.Option{
		service.WithEventStore(journal),
		service.WithLogger(logger.With("component", "admission")),
	}
	if obs != nil {
		opts = append(opts, service.WithObserver(obs))
	}

	e.Admission, err = service.NewAdmissionService(dir, cfg.Capacity, opts...)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.pruner = service.NewJournalPruner(prunable, service.PrunerConfig{
		RetentionDays: cfg.JournalRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
		Journal:       cfg.Journal,
		Now:           e.Admission.Now,
	}, logger.With("component", "pruner"))
	e.pruner.Start(ctx)

	return e, nil
}

func (e *Engine) openJournal(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.AttendanceEventStore, store.PrunableStore, error) {
	if cfg.Journal != config.JournalSQLite {
		mem := memory.NewAttendanceEventStore()
		logger.Info("journal ready", "kind", config.JournalMemory)
		return mem, mem, nil
	}

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	e.conn = conn
	e.writer = db.NewWorker(conn)

	version, err := db.SchemaVersion(ctx, conn)
	if err != nil {
		return nil, nil, fmt.Errorf("read schema version: %w", err)
	}

	n, err := sqlite.NewMemberStore(conn, e.writer).SyncMembers(ctx, e.Directory.Members())
	if err != nil {
		return nil, nil, fmt.Errorf("sync roster: %w", err)
	}
	logger.Info("journal ready", "kind", config.JournalSQLite, "path", cfg.DBPath,
		"schema_version", version, "members_synced", n)

	events := sqlite.NewAttendanceEventStore(conn, e.writer)
	return events, events, nil
}

// Close stops the pruner and releases the journal. Safe to call more than once.
func (e *Engine) Close() {
	if e.pruner != nil {
		e.pruner.Stop()
		e.pruner = nil
	}
	if e.writer != nil {
		e.writer.Close()
		e.writer = nil
	}
	if e.conn != nil {
		_ = e.conn.Close()
		e.conn = nil
	}
}
