// Package render formats engine snapshots as plain-text tables for the
// front-desk console. It holds no state; every function reads only the
// values it is given.
package render

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
)

const clock = "15:04:05"

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(clock)
}

// Status prints the remaining spaces, the members inside and the waiting list.
func Status(w io.Writer, s service.Snapshot) error {
	if _, err := fmt.Fprintf(w, "Spaces remaining: %d of %d\n\n", s.Remaining, s.Capacity); err != nil {
		return err
	}

	tw := table(w)
	fmt.Fprintln(tw, "INSIDE\tNAME\tENTERED")
	if len(s.Inside) == 0 {
		fmt.Fprintln(tw, "(none)\t\t")
	}
	for _, e := range s.Inside {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Member.Name, stamp(e.EnteredAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)

	tw = table(w)
	fmt.Fprintln(tw, "#\tWAITING\tNAME")
	if len(s.Waiting) == 0 {
		fmt.Fprintln(tw, "\t(none)\t")
	}
	for _, e := range s.Waiting {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Position, e.Key, e.Member.Name)
	}
	return tw.Flush()
}

// Log prints the day log, one row per admission.
func Log(w io.Writer, records []service.AuditRecord) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tENTERED\tEXITED")
	for _, r := range records {
		exited := "-"
		if r.ExitedAt != nil {
			exited = stamp(*r.ExitedAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Key, r.Name, r.Category, stamp(r.EnteredAt), exited)
	}
	return tw.Flush()
}

// Summary prints today's admissions per category. Weekly and monthly
// figures are never tracked, so they are reported as unavailable.
func Summary(w io.Writer, summary map[roster.Category]int) error {
	tw := table(w)
	fmt.Fprintln(tw, "CATEGORY\tTODAY")
	total := 0
	for _, c := range roster.Categories {
		n := summary[c]
		total += n
		fmt.Fprintf(tw, "%s\t%d\n", c, n)
	}
	fmt.Fprintf(tw, "total\t%d\n", total)
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprint(w, "\nWeekly: data not available\nMonthly: data not available\n")
	return err
}

// Outcome prints a one-line confirmation for a successful operation.
func Outcome(w io.Writer, res service.Result) error {
	who := fmt.Sprintf("%s (%s)", res.Member.Name, res.Key)

	var err error
	switch res.Outcome {
	case service.OutcomeAdmitted:
		_, err = fmt.Fprintf(w, "Welcome %s, entered at %s\n", who, stamp(res.At))
	case service.OutcomeQueued:
		_, err = fmt.Fprintf(w, "Gym full. %s added to the waiting list at position %d\n", who, res.Position)
	case service.OutcomeExited:
		_, err = fmt.Fprintf(w, "Goodbye %s, exited at %s\n", who, stamp(res.At))
	case service.OutcomeCancelled:
		_, err = fmt.Fprintf(w, "%s removed from the waiting list\n", who)
	default:
		_, err = fmt.Fprintf(w, "%s: %s\n", res.Outcome, who)
	}
	return err
}

// Rejection prints a human-readable message for an engine error.
func Rejection(w io.Writer, err error) error {
	name := ""
	var rej *service.RejectionError
	if errors.As(err, &rej) && rej.Member != nil {
		name = rej.Member.Name
	}

	var msg string
	switch {
	case errors.Is(err, service.ErrInvalidID):
		msg = "Please enter an identifier"
	case errors.Is(err, service.ErrAmbiguousID):
		msg = "Identifier matches more than one member, use the full identifier"
	case errors.Is(err, service.ErrNotFound):
		msg = "Identifier not found"
	case errors.Is(err, service.ErrAlreadyInside):
		msg = name + " is already inside"
	case errors.Is(err, service.ErrAlreadyWaiting):
		msg = name + " is already on the waiting list"
	case errors.Is(err, service.ErrNotInside):
		msg = name + " is not inside"
	case errors.Is(err, service.ErrNotWaiting):
		msg = name + " is not on the waiting list"
	case errors.Is(err, service.ErrCannotAdmit):
		msg = "Cannot admit " + name + ": gym is full or member is not waiting"
	default:
		msg = err.Error()
	}
	_, werr := fmt.Fprintln(w, msg)
	return werr
}
