package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	dim    = color.New(color.Faint)
	bold   = color.New(color.Bold)
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// Out receives every status line. Tests replace it.
var Out io.Writer = os.Stdout

func timestamp() string {
	return dim.Sprintf("[%s]", time.Now().Format("15:04:05"))
}

// DocumentHeader prints the header for a document being checked.
func DocumentHeader(index, total int, path string, examples int) {
	fmt.Fprintf(Out, "%s %s\n", timestamp(),
		cyan.Sprintf("%d/%d %s (%d examples)", index+1, total, path, examples))
}

// ExamplePass prints a passing example.
func ExamplePass(where string, duration time.Duration) {
	fmt.Fprintf(Out, "%s  %s %s\n", timestamp(), green.Sprint("✓"), dim.Sprintf("%s (%s)", where, formatDuration(duration)))
}

// ExampleFail prints a failing example.
func ExampleFail(where, errMsg string) {
	fmt.Fprintf(Out, "%s  %s\n", timestamp(), red.Sprintf("✗ %s: %s", where, errMsg))
}

// ExampleSkip prints an example skipped by a directive.
func ExampleSkip(where string) {
	fmt.Fprintf(Out, "%s  %s\n", timestamp(), dim.Sprintf("– %s skipped", where))
}

// Written prints a document whose code blocks were rewritten.
func Written(path string) {
	fmt.Fprintf(Out, "%s  %s\n", timestamp(), yellow.Sprintf("↺ updated %s", path))
}

// Warn prints a warning that does not stop the run.
func Warn(format string, args ...any) {
	fmt.Fprintf(Out, "%s  %s\n", timestamp(), yellow.Sprintf("⚠ "+format, args...))
}

// Summary prints the final counts.
func Summary(passed, failed, skipped int, duration time.Duration) {
	c := green
	if failed > 0 {
		c = red
	}
	fmt.Fprintf(Out, "\n%s  %s\n\n", timestamp(),
		bold.Sprint(c.Sprintf("══ %d passed, %d failed, %d skipped in %s ══", passed, failed, skipped, formatDuration(duration))))
}

// Initialized prints the outcome of doccmd init.
func Initialized(path string, languages []string, documents int) {
	fmt.Fprintf(Out, "\n%s\n\n", bold.Sprint(green.Sprintf("✓ Created %s", path)))
	if len(languages) > 0 {
		fmt.Fprintf(Out, "  Found %d documents with %s blocks.\n", documents, cyan.Sprint(strings.Join(languages, ", ")))
	} else {
		fmt.Fprintf(Out, "  Found %d documents and no code blocks; set languages by hand.\n", documents)
	}
	fmt.Fprintf(Out, "\n  Next: edit the command, then run %s\n\n", cyan.Sprint("doccmd run"))
}

// Error prints a fatal error to stderr.
func Error(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", red.Sprint("error:"), err)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}
