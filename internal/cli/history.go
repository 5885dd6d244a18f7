package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/jafar/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	RunID string
	Limit int
}

// RunDetail is the JSON payload of history --run.
type RunDetail struct {
	Run     store.Run      `json:"run"`
	Results []store.Result `json:"results"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(app *App, rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show runs recorded with run --db",
		Long: `List recorded runs, newest first, or show every result of one run.

Examples:
  jafar history --db .jafar/history.db
  jafar history --db .jafar/history.db --run 01920c1e-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.DB == "" {
				cfg, err := resolveConfig(cmd, app, &RunOptions{RootOptions: rootOpts})
				if err != nil {
					return err
				}
				opts.DB = cfg.DB
			}
			if opts.DB == "" {
				return NewExitError(ExitCommandError, "history needs --db or a db setting in the config file")
			}
			return showHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database written by run --db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the results of this run")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs to list (0 for all)")

	return cmd
}

func showHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	st, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", coded(CodeStore, err))
	}
	defer st.Close()

	if opts.RunID != "" {
		return showRun(ctx, st, opts.RunID, out)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", coded(CodeStore, err))
	}
	if out.JSON() {
		return out.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out.Writer, "No runs recorded.")
		return nil
	}
	_, err = fmt.Fprint(out.Writer, runsTable(runs))
	return err
}

func showRun(ctx context.Context, st *store.Store, id string, out *OutputFormatter) error {
	run, err := st.ReadRun(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "unknown run", coded(CodeStore, err))
		}
		return WrapExitError(ExitCommandError, "failed to read run", coded(CodeStore, err))
	}
	results, err := st.ReadResults(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read results", coded(CodeStore, err))
	}

	if out.JSON() {
		return out.Success(RunDetail{Run: run, Results: results})
	}

	fmt.Fprintf(out.Writer, "run %s  %s  (%s)\n", run.ID, run.StartedAt.Local().Format(time.DateTime), run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	for _, r := range results {
		fmt.Fprintf(out.Writer, "%4d  %-7s  %-5s  %s\n", r.Seq, r.Status, r.Kind, r.Path)
		if r.Message != "" {
			fmt.Fprintf(out.Writer, "      %s\n", r.Message)
		}
	}
	return nil
}

func runsTable(runs []store.Run) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Run", "Started", "Passed", "Failed", "Errors", "Skipped", "Hook errors"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Passed,
			r.Failed,
			r.Errored,
			r.Skipped,
			r.SuiteErrors,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	return buf.String()
}
