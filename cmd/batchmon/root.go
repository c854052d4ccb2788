package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"batchmon/internal/config"
	"batchmon/internal/console"
	"batchmon/internal/core"
	"batchmon/internal/ledger"
)

// app carries what every subcommand shares once flags are parsed.
type app struct {
	configPath string
	jobsDir    string
	logFormat  string
	verbose    bool

	cfg    config.Config
	ledger *ledger.Ledger
	runner *core.Runner
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "batchmon",
		Short: "Batch Monitor: list, compile and run C++ jobs",
		Long: `batchmon lists .cpp sources in a jobs directory, compiles one or all of
them with g++ into the current directory and runs the result.

Without a subcommand it starts the interactive numbered menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.OutOrStdout())
		},
		RunE: a.runConsole,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "batchmon.yaml", "path to the YAML config file (optional)")
	f.StringVar(&a.jobsDir, "jobs-dir", "", "initial jobs directory (overrides config)")
	f.StringVar(&a.logFormat, "log-format", "text", "diagnostic log format: text|json")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newListCmd(a),
		newRunCmd(a),
		newRunAllCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// setup loads config, configures slog and builds the runner.
func (a *app) setup(out io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.jobsDir != "" {
		cfg.JobsDir = a.jobsDir
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch a.logFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format %q", a.logFormat)
	}
	slog.SetDefault(slog.New(handler))

	if cfg.History != "" {
		l, err := ledger.Open(core.ExpandHome(cfg.History))
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		a.ledger = l
	}

	r := core.NewRunner(cfg.SourceExt)
	r.Compiler = cfg.Compiler
	r.ArtifactSuffix = cfg.ArtifactSuffix
	r.WorkDir = core.ExpandHome(cfg.WorkDir)
	r.Ledger = a.ledger
	r.Out = out
	a.runner = r
	return nil
}

// runConsole starts the interactive menu. A terminal gets line editing;
// anything else is read as plain lines.
func (a *app) runConsole(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	var lines console.LineReader
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		rl, err := console.NewReadlineLines("")
		if err != nil {
			return err
		}
		defer rl.Close()
		lines = rl
	} else {
		lines = console.NewBufferedLines(in, out)
	}

	return console.New(a.cfg.JobsDir, a.runner, lines, out).Run(cmd.Context())
}
