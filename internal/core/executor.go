package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Command is one process invocation: an executable and its argument list.
// Nothing goes through a shell.
type Command struct {
	Path string
	Args []string
	Dir  string
}

// Executor spawns a command and waits for it. It returns the exit status, or
// an error only when the process could not be started at all.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (int, error)
}

// ProcessExecutor runs commands as child processes wired to the given streams.
// There is no timeout; the call blocks until the child exits.
type ProcessExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor returns an executor inheriting the console's standard streams.
func NewExecutor() *ProcessExecutor {
	return &ProcessExecutor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ProcessExecutor) Execute(ctx context.Context, cmd Command) (int, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = e.Stdin
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr

	slog.DebugContext(ctx, "spawning process", "path", cmd.Path, "args", cmd.Args, "dir", cmd.Dir)

	err := c.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
