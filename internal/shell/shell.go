// Package shell runs external commands against generated files, streaming
// their output live while capturing it.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrPTYUnsupported is returned when a pseudo-terminal is requested on a
// platform without one.
var ErrPTYUnsupported = errors.New("pseudo-terminal not supported on Windows")

const chunkSize = 1024

// Command describes one invocation.
type Command struct {
	Args []string
	// Env is the full child environment. Nil inherits the caller's.
	Env []string
	Dir string
	// UsePTY attaches stdout and stderr to a pseudo-terminal so tools keep
	// their colors. Both streams then arrive on Stdout.
	UsePTY bool
	// Stdout and Stderr receive output as it is produced. Nil means the
	// process's own stdout and stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Result holds the outcome of a finished command.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Err returns a *RunError when the command exited non-zero.
func (r *Result) Err() error {
	if r.ExitCode == 0 {
		return nil
	}
	return &RunError{Args: r.Args, ExitCode: r.ExitCode, Stdout: r.Stdout, Stderr: r.Stderr}
}

// RunError reports a command that exited non-zero.
type RunError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("command %q returned non-zero exit status %d", strings.Join(e.Args, " "), e.ExitCode)
}

// Run starts the command and waits for it. Output is copied to the live
// writers in chunks as it arrives and captured in the result. A non-zero
// exit is not an error here; see Result.Err.
func Run(ctx context.Context, c Command) (*Result, error) {
	if len(c.Args) == 0 {
		return nil, errors.New("empty command")
	}
	log.Debug().Strs("args", c.Args).Bool("pty", c.UsePTY).Msg("running command")
	if c.UsePTY {
		return runPTY(ctx, c)
	}
	return runPipes(ctx, c)
}

func runPipes(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Env = c.Env
	cmd.Dir = c.Dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.Args[0], err)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		return copyChunks(io.MultiWriter(orDefault(c.Stdout, os.Stdout), &outBuf), stdout)
	})
	g.Go(func() error {
		return copyChunks(io.MultiWriter(orDefault(c.Stderr, os.Stderr), &errBuf), stderr)
	})
	copyErr := g.Wait()

	code, err := exitCode(cmd.Wait())
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", c.Args[0], err)
	}
	if copyErr != nil {
		return nil, fmt.Errorf("reading output of %s: %w", c.Args[0], copyErr)
	}
	return &Result{Args: c.Args, ExitCode: code, Stdout: outBuf.String(), Stderr: errBuf.String()}, nil
}

// copyChunks copies src to dst one read at a time, so dst sees output as
// soon as the child writes it.
func copyChunks(dst io.Writer, src io.Reader) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func orDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}

// exitCode extracts an exit code from a command error.
// Returns (code, nil) for ExitError, (0, err) for other errors, (0, nil) for nil.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
