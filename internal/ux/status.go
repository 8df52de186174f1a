package ux

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/report"
)

// RenderReport prints a saved run report.
func RenderReport(r *report.Report) {
	fmt.Fprintf(Out, "%s %s\n", bold.Sprint("Command:"), strings.Join(r.Command, " "))
	fmt.Fprintf(Out, "%s %s\n", bold.Sprint("Started:"), r.Started.Format("2006-01-02 15:04:05"))

	passed, failed, skipped := r.Counts()
	state := green.Sprint("passed")
	if failed > 0 {
		state = red.Sprint("failed")
	}
	fmt.Fprintf(Out, "%s   %s (%d passed, %d failed, %d skipped)\n", bold.Sprint("State:"), state, passed, failed, skipped)

	entries := r.Sorted()
	if failed > 0 {
		fmt.Fprintf(Out, "\n%s\n", bold.Sprint("Failures:"))
		for _, e := range entries {
			if e.Status != report.StatusFailed {
				continue
			}
			fmt.Fprintf(Out, "  %s  %s\n", red.Sprintf("%s:%d", e.Path, e.Line), e.Error)
		}
	}

	fmt.Fprintf(Out, "\n%s\n", bold.Sprint("Examples:"))
	if len(entries) == 0 {
		fmt.Fprintf(Out, "  %s\n", dim.Sprint("(none)"))
	}
	for _, e := range entries {
		status := green.Sprint(e.Status)
		switch e.Status {
		case report.StatusFailed:
			status = red.Sprint(e.Status)
		case report.StatusSkipped:
			status = dim.Sprint(e.Status)
		}
		fmt.Fprintf(Out, "  %-40s %s  %s\n", fmt.Sprintf("%s:%d", e.Path, e.Line), status, dim.Sprint(e.Duration))
	}

	if len(r.Updated) > 0 {
		fmt.Fprintf(Out, "\n%s\n", bold.Sprint("Updated:"))
		for _, p := range r.Updated {
			fmt.Fprintf(Out, "  %s\n", p)
		}
	}
	fmt.Fprintln(Out)
}
