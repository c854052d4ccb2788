// Package console implements the Batch Monitor's numbered-menu loop.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"batchmon/internal/core"
)

const commands = `1. List jobs
2. Set jobs directory
3. Compile and run specific program
4. Compile and run all jobs
5. Shutdown
6. Help
`

// Menu choices.
const (
	ChoiceList = iota + 1
	ChoiceSetDir
	ChoiceRunOne
	ChoiceRunAll
	ChoiceShutdown
	ChoiceHelp
)

const (
	choicePrompt = "Enter your choice: "
	dirPrompt    = "Enter new jobs directory: "
	jobPrompt    = "Enter the job file to compile and run (e.g. dots.cpp): "
)

// Console holds the one piece of mutable state, the jobs directory, and
// dispatches menu choices to the runner. It is not safe for concurrent use.
type Console struct {
	JobsDir string
	runner  *core.Runner
	in      *Input
	out     io.Writer
}

// New creates a console starting at jobsDir. Runner output should go to the
// same writer as out.
func New(jobsDir string, runner *core.Runner, lines LineReader, out io.Writer) *Console {
	return &Console{
		JobsDir: jobsDir,
		runner:  runner,
		in:      NewInput(lines),
		out:     out,
	}
}

// Run loops until the shutdown choice or end of input, both of which return
// nil. Any other input failure is returned.
func (c *Console) Run(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, "\nBatch Monitor Options:\n"+commands)
		tok, err := c.in.Token(choicePrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out, "\nShutting down...")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read choice: %w", err)
		}

		choice, err := strconv.Atoi(tok)
		if err != nil {
			choice = 0
		}
		if done, err := c.dispatch(ctx, choice); done || err != nil {
			return err
		}
	}
}

func (c *Console) dispatch(ctx context.Context, choice int) (bool, error) {
	switch choice {
	case ChoiceList:
		c.report(c.ListJobs())
	case ChoiceSetDir:
		if err := c.SetJobsDirectory(); err != nil {
			return c.inputDone(err)
		}
	case ChoiceRunOne:
		name, err := c.in.Token(jobPrompt)
		if err != nil {
			return c.inputDone(err)
		}
		c.report(c.runner.CompileAndRun(ctx, c.JobsDir+"/"+name))
	case ChoiceRunAll:
		c.report(c.runner.CompileAndRunAll(ctx, c.JobsDir))
	case ChoiceShutdown:
		fmt.Fprintln(c.out, "Shutting down...")
		return true, nil
	case ChoiceHelp:
		c.Help()
	default:
		fmt.Fprintln(c.out, "Invalid choice. Try again.")
	}
	return false, nil
}

// ListJobs prints the name of every job in the current jobs directory.
func (c *Console) ListJobs() error {
	dir := core.ExpandHome(c.JobsDir)
	fmt.Fprintf(c.out, "Listing jobs in directory: %s\n", dir)
	for job, err := range c.runner.Scheduler.Jobs(dir) {
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, job.Name)
	}
	return nil
}

// SetJobsDirectory reads a new jobs directory, expands it and stores it.
// Whether it exists is only discovered by the next list or batch run.
func (c *Console) SetJobsDirectory() error {
	dir, err := c.in.Line(dirPrompt)
	if err != nil {
		return err
	}
	c.JobsDir = core.ExpandHome(dir)
	fmt.Fprintf(c.out, "New jobs directory set to: %s\n", c.JobsDir)
	return nil
}

// Help prints the command list.
func (c *Console) Help() {
	fmt.Fprint(c.out, "Available commands:\n"+commands)
}

// report prints operation errors. Compile failures have already been
// announced by the runner.
func (c *Console) report(err error) {
	if err == nil || errors.Is(err, core.ErrCompileFailed) {
		return
	}
	fmt.Fprintf(c.out, "Error: %v\n", err)
}

// inputDone treats end of input mid-operation like shutdown.
func (c *Console) inputDone(err error) (bool, error) {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out, "\nShutting down...")
		return true, nil
	}
	return true, fmt.Errorf("read input: %w", err)
}
