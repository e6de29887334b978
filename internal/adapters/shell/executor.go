// Package shell runs external tools, streaming their output through a PTY on
// interactive terminals and plain pipes otherwise.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/portable/internal/core/domain"
	"go.trai.ch/portable/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec and pty.
type Executor struct {
	usePTY bool
}

var _ ports.Executor = (*Executor)(nil)

// NewExecutor creates a new Executor. With usePTY the command's stdout and
// stderr are merged into one terminal, so tools keep their progress output.
func NewExecutor(usePTY bool) *Executor {
	return &Executor{usePTY: usePTY}
}

// Execute runs cmd and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error {
	if e.usePTY {
		c, err := command(ctx, cmd)
		if err != nil {
			return err
		}
		err = runPTY(c, stdout)
		if !errors.Is(err, pty.ErrUnsupported) {
			return result(cmd, err)
		}
	}

	c, err := command(ctx, cmd)
	if err != nil {
		return err
	}
	c.Stdout = stdout
	c.Stderr = stderr

	return result(cmd, c.Run())
}

// Output runs cmd and returns its standard output. Standard error is attached
// to the returned error when the command fails.
func (e *Executor) Output(ctx context.Context, cmd domain.Command) ([]byte, error) {
	c, err := command(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	c.Stderr = &stderr

	out, err := c.Output()
	if err = result(cmd, err); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = zerr.With(err, "stderr", msg)
		}
		return nil, err
	}
	return out, nil
}

// command resolves the executable and builds the exec.Cmd for cmd.
func command(ctx context.Context, cmd domain.Command) (*exec.Cmd, error) {
	if cmd.Name == "" {
		return nil, zerr.With(domain.ErrToolNotFound, "command", cmd.String())
	}

	executable, err := exec.LookPath(cmd.Name)
	if err != nil {
		return nil, zerr.With(domain.ErrToolNotFound, "tool", cmd.Name)
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // command comes from the CLI
	c.Args[0] = cmd.Name
	c.Dir = cmd.Dir
	return c, nil
}

// runPTY starts c on a pseudo terminal and copies its output to out until it exits.
func runPTY(c *exec.Cmd, out io.Writer) error {
	ptmx, err := pty.Start(c)
	if err != nil {
		if errors.Is(err, pty.ErrUnsupported) {
			return err
		}
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// Reads end with EIO once the child and its descendants close the terminal.
		_, _ = io.Copy(out, ptmx)
	}()

	err = c.Wait()
	<-ioDone
	return err
}

// result maps a process error to the domain taxonomy.
func result(cmd domain.Command, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return zerr.With(
			zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "command", cmd.String()),
			"exit_code", exitErr.ExitCode(),
		)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return zerr.With(domain.ErrToolNotFound, "tool", cmd.Name)
	}

	return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "command", cmd.String()), "exit_code", -1)
}
