package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/roach88/jafar/internal/config"
	"github.com/roach88/jafar/internal/tree"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// App is what the commands run against. The zero value of each field is
// replaced by its production default in NewRootCommand.
type App struct {
	// Registry holds the suites declared by linked-in spec files.
	Registry *tree.Registry
	// Fs is used for discovery and config loading.
	Fs afero.Fs
	// IsTerminal decides --color auto.
	IsTerminal func(w io.Writer) bool
	// Now stamps the start and end of a run.
	Now func() time.Time
	// NewRunID names recorded runs. When nil the store assigns a UUIDv7.
	NewRunID func() string
}

func (a *App) withDefaults() *App {
	out := *a
	if out.Registry == nil {
		out.Registry = tree.NewRegistry()
	}
	if out.Fs == nil {
		out.Fs = afero.NewOsFs()
	}
	if out.IsTerminal == nil {
		out.IsTerminal = isTerminal
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
}

// NewRootCommand creates the root command for the jafar CLI.
func NewRootCommand(app *App) *cobra.Command {
	if app == nil {
		app = &App{}
	}
	app = app.withDefaults()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jafar",
		Short: "jafar - behavior testing with describe and it",
		Long: `Run behavior specs written with jafar's describe/it DSL.

Spec files register their suites when the binary starts; jafar discovers
which files to run much like a test runner discovers test files, then runs
the suites declared in them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.FileName+" if present)")

	cmd.AddCommand(NewRunCommand(app, opts))
	cmd.AddCommand(NewListCommand(app, opts))
	cmd.AddCommand(NewHistoryCommand(app, opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are reported on stderr, or on stdout as a JSON error response when
// --format json is in effect.
func Execute(app *App, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	reported := false
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitFailure && exitErr.Err == nil {
		// Failures were already shown by the reporter.
		reported = true
	}
	if !reported {
		format, _ := cmd.PersistentFlags().GetString("format")
		out := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr}
		_ = out.Error(errorCode(err), err.Error(), nil)
	}
	return code
}

func errorCode(err error) string {
	var codedErr *codedError
	if errors.As(err, &codedErr) {
		return codedErr.code
	}
	if GetExitCode(err) == ExitFailure {
		return CodeFailed
	}
	return CodeUsage
}

// codedError tags an error with its JSON error code.
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func coded(code string, err error) error {
	return &codedError{code: code, err: err}
}

// newLogger returns the slog logger for a command: debug with --verbose,
// warnings only otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
