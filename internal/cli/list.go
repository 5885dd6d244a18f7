package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListedSuite describes one root suite for the list command.
type ListedSuite struct {
	Name  string `json:"name"`
	Line  int    `json:"line,omitempty"`
	Tests int    `json:"tests"`
}

// ListedFile is one discovered spec file and the suites it declares.
type ListedFile struct {
	File   string        `json:"file"`
	Suites []ListedSuite `json:"suites"`
}

// NewListCommand creates the list command.
func NewListCommand(app *App, rootOpts *RootOptions) *cobra.Command {
	var ext string

	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List discovered spec files and the suites they declare",
		Long: `List the spec files run would select, and for each the root suites it
declares with their test counts.

Examples:
  jafar list
  jafar list ./internal --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &RunOptions{RootOptions: rootOpts, Ext: ext}
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

			listing := make([]ListedFile, 0, len(files))
			for _, f := range files {
				entry := ListedFile{File: f, Suites: []ListedSuite{}}
				for _, s := range app.Registry.TakeFile(f) {
					entry.Suites = append(entry.Suites, ListedSuite{Name: s.Name, Line: s.Line, Tests: s.CountTests()})
				}
				listing = append(listing, entry)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: rootOpts.Verbose}
			if out.JSON() {
				return out.Success(listing)
			}
			for _, entry := range listing {
				fmt.Fprintln(out.Writer, entry.File)
				for _, s := range entry.Suites {
					fmt.Fprintf(out.Writer, "  %s (%d %s)\n", s.Name, s.Tests, plural(s.Tests, "test", "tests"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "", "spec file extension (default .go)")

	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
