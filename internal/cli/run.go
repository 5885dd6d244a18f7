package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/jafar/internal/config"
	"github.com/roach88/jafar/internal/discovery"
	"github.com/roach88/jafar/internal/reporting"
	"github.com/roach88/jafar/internal/runner"
	"github.com/roach88/jafar/internal/store"
	"github.com/roach88/jafar/internal/tree"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Charset string
	Color   string
	DB      string
	Ext     string
}

// RunReport is the JSON payload of the run command.
type RunReport struct {
	RunID   string           `json:"run_id,omitempty"`
	Files   []string         `json:"files"`
	Counts  reporting.Counts `json:"counts"`
	Results []store.Result   `json:"results"`
}

// NewRunCommand creates the run command.
func NewRunCommand(app *App, rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run the suites declared in discovered spec files",
		Long: `Discover spec files beneath the given paths (default: the configured
paths, or the current directory) and run the suites they declare.

Inside a directory whose name starts with "test" or "spec" every file with
the spec extension is selected; elsewhere only names ending in _test, _spec,
Test or Spec are.

Exit codes:
  0 - All tests passed
  1 - A test failed or errored, or a hook raised
  2 - Command error (missing path, invalid config, etc.)

Examples:
  jafar run
  jafar run ./internal/selfcheck --charset ascii
  jafar run --db .jafar/history.db --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd, app, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Charset, "charset", "", "marker charset (utf-8|ascii)")
	cmd.Flags().StringVar(&opts.Color, "color", "", "colour output (auto|always|never)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Ext, "ext", "", "spec file extension (default .go)")

	return cmd
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(cmd *cobra.Command, app *App, opts *RunOptions) (config.Config, error) {
	cfg, err := config.Load(app.Fs, opts.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", coded(CodeConfig, err))
	}

	var flags config.Config
	if cmd.Flags().Changed("charset") {
		flags.Charset = opts.Charset
	}
	if cmd.Flags().Changed("color") {
		flags.Color = opts.Color
	}
	if cmd.Flags().Changed("db") {
		flags.DB = opts.DB
	}
	if cmd.Flags().Changed("ext") {
		flags.Ext = opts.Ext
	}

	cfg = config.Merge(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid flags", coded(CodeConfig, err))
	}
	return cfg, nil
}

func runSuites(cmd *cobra.Command, app *App, opts *RunOptions, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	cfg, err := resolveConfig(cmd, app, opts)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Paths
	}
	files, err := discover(app, paths, cfg.Ext)
	if err != nil {
		return err
	}
	logger.Debug("discovered spec files", "count", len(files))

	roots := loadSuites(app.Registry, files, logger)
	if len(roots) == 0 {
		if out.JSON() {
			return out.Success(RunReport{Files: files, Results: []store.Result{}})
		}
		fmt.Fprintln(out.Writer, "No suites found.")
		return nil
	}

	summary := reporting.NewSummary()
	recorder := reporting.NewRecorder()
	listeners := reporting.Multi{summary, recorder}
	if !out.JSON() {
		charset, _ := reporting.ParseCharset(cfg.Charset)
		listeners = append(listeners, reporting.NewTerminal(out.Writer,
			reporting.WithCharset(charset),
			reporting.WithColor(useColor(cfg.Color, app, out.Writer)),
		))
	}

	started := app.Now()
	runner.New(runner.WithLogger(logger)).Run(roots, listeners)
	finished := app.Now()

	counts := summary.Counts()
	logger.Debug("run finished", "duration", finished.Sub(started), "summary", counts.String())

	report := RunReport{Files: files, Counts: counts, Results: recorder.Results()}
	if cfg.DB != "" {
		id, err := record(cmd.Context(), cfg.DB, store.Run{
			ID:          runID(app),
			StartedAt:   started,
			FinishedAt:  finished,
			Passed:      counts.Passed,
			Failed:      counts.Failed,
			Errored:     counts.Errored,
			Skipped:     counts.Skipped,
			SuiteErrors: counts.SuiteErrors,
		}, report.Results)
		if err != nil {
			return err
		}
		report.RunID = id
		logger.Debug("run recorded", "db", cfg.DB, "run_id", id)
	}

	if out.JSON() {
		if err := out.Success(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out.Writer)
		if err := summary.Render(out.Writer); err != nil {
			return err
		}
	}

	if !counts.OK() {
		return NewExitError(ExitFailure, counts.String())
	}
	return nil
}

func discover(app *App, paths []string, ext string) ([]string, error) {
	files, err := discovery.Discover(app.Fs, paths, ext)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "discovery failed", coded(CodeDiscovery, err))
	}
	return files, nil
}

// loadSuites takes the root suites declared in each file from the registry,
// in file order.
func loadSuites(reg *tree.Registry, files []string, logger *slog.Logger) []*tree.Suite {
	var roots []*tree.Suite
	for _, f := range files {
		suites := reg.TakeFile(f)
		if len(suites) == 0 {
			logger.Debug("no suites declared", "file", f)
			continue
		}
		logger.Debug("loaded suites", "file", f, "suites", len(suites))
		roots = append(roots, suites...)
	}
	return roots
}

func useColor(mode string, app *App, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return app.IsTerminal(w)
	}
}

func runID(app *App) string {
	if app.NewRunID == nil {
		return ""
	}
	return app.NewRunID()
}

func record(ctx context.Context, path string, run store.Run, results []store.Result) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(path)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to open database", coded(CodeStore, err))
	}
	defer st.Close()

	id, err := st.WriteRun(ctx, run, results)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to record run", coded(CodeStore, err))
	}
	return id, nil
}
