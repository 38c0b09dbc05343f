package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/BrandonDHaskell/gymgate/internal/gym/render"
	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
)

const helpText = `Commands:
  in <id>            register an entry (queues when the gym is full)
  out <id>           register an exit
  admit <key>...     admit waiting members in the order given
  cancel <key>...    remove members from the waiting list
  status             spaces remaining, members inside, waiting list
  log                today's entries and exits
  stats              today's admissions per category
  help               this text
  quit               leave
`

// desk reads front-desk commands line by line and prints the outcome of
// each one.
type desk struct {
	svc *service.AdmissionService
	out io.Writer
}

func (d *desk) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	d.prompt()
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := d.exec(ctx, sc.Text()); quit {
			return nil
		}
		d.prompt()
	}
	return sc.Err()
}

func (d *desk) prompt() {
	fmt.Fprintf(d.out, "[%d free] > ", d.svc.Remaining())
}

// exec runs one command line and reports whether the desk should stop.
func (d *desk) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "in", "entrada":
		d.single(ctx, args, d.svc.RegisterEntry)
	case "out", "salida":
		d.single(ctx, args, d.svc.RegisterExit)
	case "admit":
		d.batch(ctx, args, d.svc.AdmitSelected)
	case "cancel":
		d.batch(ctx, args, d.svc.CancelSelected)
	case "status":
		_ = render.Status(d.out, d.svc.Snapshot())
	case "log":
		_ = render.Log(d.out, d.svc.DayLog())
	case "stats":
		_ = render.Summary(d.out, d.svc.Summary())
	case "help", "?":
		fmt.Fprint(d.out, helpText)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(d.out, "unknown command %q, type help\n", cmd)
	}
	return false
}

func (d *desk) single(ctx context.Context, args []string, op func(context.Context, string) (service.Result, error)) {
	res, err := op(ctx, strings.Join(args, " "))
	if err != nil {
		_ = render.Rejection(d.out, err)
		return
	}
	_ = render.Outcome(d.out, res)
}

func (d *desk) batch(ctx context.Context, keys []string, op func(context.Context, []string) service.BatchResult) {
	if len(keys) == 0 {
		fmt.Fprintln(d.out, "select at least one waiting member")
		return
	}
	res := op(ctx, keys)
	for _, r := range res.Done {
		_ = render.Outcome(d.out, r)
	}
	for _, err := range res.Rejected {
		_ = render.Rejection(d.out, err)
	}
}
