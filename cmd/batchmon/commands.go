package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"batchmon/internal/console"
	"batchmon/internal/httpapi"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs in the jobs directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := console.New(a.cfg.JobsDir, a.runner, nil, cmd.OutOrStdout())
			return c.ListJobs()
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Compile and run one job file (relative to the jobs directory unless absolute or ~)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runner.CompileAndRun(cmd.Context(), jobPath(a.cfg.JobsDir, args[0]))
		},
	}
}

func newRunAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run-all",
		Short: "Compile and run every job in the jobs directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runner.CompileAndRunAll(cmd.Context(), a.cfg.JobsDir)
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only HTTP view of jobs and run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.New(a.cfg.JobsDir, a.runner.Scheduler, a.ledger).Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				slog.Info("batchmon monitor listening", "addr", addr, "jobs_dir", a.cfg.JobsDir)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				slog.Info("shutting down monitor")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, or :$PORT)")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or verify the run history ledger",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "inspect",
			Short: "Print every run record",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.ledger == nil {
					return errNoHistory
				}
				out := cmd.OutOrStdout()
				for _, r := range a.ledger.Records() {
					fmt.Fprintf(out, "Index=%d Time=%s Source=%s Outcome=%s Launched=%t Hash=%s\n",
						r.Index, r.Timestamp, r.Source, r.Outcome, r.Launched, shortHash(r.Hash))
				}
				fmt.Fprintf(out, "Next=%d Head=%s\n", a.ledger.NextIndex(), shortHash(a.ledger.LastHash()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "verify",
			Short: "Recompute hashes and links of the run history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.ledger == nil {
					return errNoHistory
				}
				if err := a.ledger.Verify(); err != nil {
					return fmt.Errorf("verification failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Ledger verification OK (records=%d head=%s)\n",
					a.ledger.NextIndex(), shortHash(a.ledger.LastHash()))
				return nil
			},
		},
	)
	return cmd
}

var errNoHistory = errors.New("run history disabled: set history in the config file")

func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}
