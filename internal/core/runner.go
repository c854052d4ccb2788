package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"batchmon/internal/ledger"
)

// Runner ties together Scheduler + Executor + the run history ledger.
type Runner struct {
	Scheduler      *Scheduler
	Executor       Executor
	Ledger         *ledger.Ledger // optional; nil disables run history
	Compiler       string         // compiler command, looked up on PATH
	ArtifactSuffix string         // appended to the source base name
	WorkDir        string         // where artifacts are written and run from
	Out            io.Writer      // user-facing notices
}

// NewRunner returns a runner compiling ext files with g++ into the current
// directory, with inherited standard streams.
func NewRunner(ext string) *Runner {
	return &Runner{
		Scheduler:      NewScheduler(ext),
		Executor:       NewExecutor(),
		Compiler:       "g++",
		ArtifactSuffix: ".out",
		WorkDir:        ".",
		Out:            os.Stdout,
	}
}

// ArtifactName is the compiled output name for a source path: its base
// name plus the artifact suffix ("dots.cpp" -> "dots.cpp.out").
func (r *Runner) ArtifactName(sourcePath string) string {
	return BaseName(ExpandHome(sourcePath)) + r.ArtifactSuffix
}

// CompileAndRun compiles filePath into the work directory and, when the
// compiler exits zero, runs the artifact once with no arguments. A failed
// compile prints a notice, skips the run and returns ErrCompileFailed.
// The artifact's own exit status is not inspected.
func (r *Runner) CompileAndRun(ctx context.Context, filePath string) error {
	source := ExpandHome(filePath)
	// the compiler runs in the work dir; relative sources are anchored to ours
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}
	artifact := r.ArtifactName(source)

	compile := Command{
		Path: r.Compiler,
		Args: []string{"-o", artifact, source},
		Dir:  r.WorkDir,
	}
	status, err := r.Executor.Execute(ctx, compile)
	if err != nil || status != 0 {
		fmt.Fprintln(r.Out, "Compilation failed!")
		if err != nil {
			slog.WarnContext(ctx, "compiler did not start", "compiler", r.Compiler, "error", err)
		}
		r.record(ctx, source, artifact, ledger.OutcomeFailed, false)
		return fmt.Errorf("%s: %w", source, ErrCompileFailed)
	}

	run, err := r.artifactCommand(artifact)
	if err != nil {
		r.record(ctx, source, artifact, ledger.OutcomeCompiled, false)
		return err
	}
	if _, err := r.Executor.Execute(ctx, run); err != nil {
		slog.WarnContext(ctx, "artifact did not start", "artifact", artifact, "error", err)
		r.record(ctx, source, artifact, ledger.OutcomeCompiled, false)
		return nil
	}
	r.record(ctx, source, artifact, ledger.OutcomeCompiled, true)
	return nil
}

// CompileAndRunAll runs CompileAndRun for every job in dir, in enumeration
// order. Per-file failures never stop the batch; only a directory that
// cannot be read does, and its *DirectoryError is returned.
func (r *Runner) CompileAndRunAll(ctx context.Context, dir string) error {
	for job, err := range r.Scheduler.Jobs(dir) {
		if err != nil {
			return err
		}
		if err := r.CompileAndRun(ctx, job.Path); err != nil {
			slog.DebugContext(ctx, "job failed, continuing batch", "job", job.Name, "error", err)
		}
	}
	return nil
}

// artifactCommand resolves the artifact against the work directory so the
// executable is never looked up on PATH.
func (r *Runner) artifactCommand(artifact string) (Command, error) {
	dir, err := filepath.Abs(r.WorkDir)
	if err != nil {
		return Command{}, fmt.Errorf("resolve work dir: %w", err)
	}
	return Command{Path: filepath.Join(dir, artifact), Dir: r.WorkDir}, nil
}

// record appends to the run history, best-effort: failures are logged only.
func (r *Runner) record(ctx context.Context, source, artifact, outcome string, launched bool) {
	if r.Ledger == nil {
		return
	}
	sourceHash, err := ledger.HashSource(source)
	if err != nil {
		slog.DebugContext(ctx, "cannot hash source", "source", source, "error", err)
	}
	rec := ledger.NewRecord(source, sourceHash, artifact, outcome, launched)
	if err := r.Ledger.Append(rec); err != nil {
		slog.WarnContext(ctx, "cannot append run record", "ledger", r.Ledger.Path(), "error", err)
	}
}
