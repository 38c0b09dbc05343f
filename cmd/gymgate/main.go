// Command gymgate is the interactive front desk. It runs the admission
// engine in-process and reads commands from standard input.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BrandonDHaskell/gymgate/internal/app"
	"github.com/BrandonDHaskell/gymgate/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gymgate:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Logs go to stderr so they do not interleave with the desk output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With("app", "gymgate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := app.NewEngine(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stdout, "gymgate front desk: %d members, capacity %d. Type help for commands.\n",
		engine.Directory.Len(), engine.Admission.Capacity())

	d := &desk{svc: engine.Admission, out: os.Stdout}
	return d.run(ctx, os.Stdin)
}
