//go:build !windows

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

func runPTY(ctx context.Context, c Command) (*Result, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("opening pseudo-terminal: %w", err)
	}
	defer ptmx.Close()

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Env = c.Env
	cmd.Dir = c.Dir
	cmd.Stdout = tty
	cmd.Stderr = tty
	if err := cmd.Start(); err != nil {
		tty.Close()
		return nil, fmt.Errorf("starting %s: %w", c.Args[0], err)
	}
	// The child holds its own copy; ours must go for reads to end.
	tty.Close()

	var out bytes.Buffer
	copyErr := copyChunks(io.MultiWriter(orDefault(c.Stdout, os.Stdout), &out), closedIsEOF{ptmx})

	code, err := exitCode(cmd.Wait())
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", c.Args[0], err)
	}
	if copyErr != nil {
		return nil, fmt.Errorf("reading output of %s: %w", c.Args[0], copyErr)
	}
	return &Result{Args: c.Args, ExitCode: code, Stdout: out.String()}, nil
}

// closedIsEOF turns the EIO a pty master returns once the slave side is
// closed into io.EOF.
type closedIsEOF struct {
	r io.Reader
}

func (c closedIsEOF) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if errors.Is(err, unix.EIO) {
		err = io.EOF
	}
	return n, err
}
