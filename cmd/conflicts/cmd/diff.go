package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	goconflict "github.com/albertocavalcante/go-conflict"
	"github.com/albertocavalcante/go-conflict/outcome"
)

// ErrOutcomesDiffer is returned by diff --check when the outcomes differ.
var ErrOutcomesDiffer = errors.New("outcomes differ")

func diffCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare the outcomes of two scenarios or saved JSON outcomes",
		Long: "Each argument is either a scenario file, which is resolved, or an outcome\n" +
			"previously written by `resolve --format json` (a .json file).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON); err != nil {
				return err
			}
			opts, err := g.options(cmd)
			if err != nil {
				return err
			}

			outcomes := make([]*outcome.Outcome, len(args))
			for i, arg := range args {
				if outcomes[i], err = loadOutcome(cmd, arg, opts); err != nil {
					return err
				}
			}
			d := outcome.Compare(outcomes[0], outcomes[1])

			if format == formatJSON {
				data, err := json.MarshalIndent(d, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				printDiff(cmd.OutOrStdout(), d)
			}

			if check && !d.IsEmpty() {
				return fmt.Errorf("%w: %d change(s)", ErrOutcomesDiffer, d.TotalChanges())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or json")
	cmd.Flags().BoolVar(&check, "check", false, "exit with an error when the outcomes differ")
	return cmd
}

func loadOutcome(cmd *cobra.Command, path string, opts []goconflict.Option) (*outcome.Outcome, error) {
	if filepath.Ext(path) == ".json" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		o, err := outcome.FromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return o, nil
	}

	runs, err := resolveAll(cmd.Context(), []string{path}, opts)
	if err != nil {
		return nil, err
	}
	return runs[0].res.Outcome, nil
}

func printDiff(w io.Writer, d *outcome.Diff) {
	if d.IsEmpty() {
		fmt.Fprintln(w, "No differences.")
		return
	}

	fmt.Fprintf(w, "%d change(s)\n", d.TotalChanges())
	for _, c := range d.Added {
		fmt.Fprintf(w, "%s %s %s\n", color.GreenString("+"), c.Subject, c.Component)
	}
	for _, c := range d.Removed {
		fmt.Fprintf(w, "%s %s %s\n", color.RedString("-"), c.Subject, c.Component)
	}
	sections := []struct {
		mark    string
		changes []outcome.Upgrade
	}{
		{color.GreenString("↑"), d.Upgraded},
		{color.RedString("↓"), d.Downgraded},
		{color.YellowString("~"), d.Switched},
	}
	for _, s := range sections {
		for _, u := range s.changes {
			fmt.Fprintf(w, "%s %s %s -> %s\n", s.mark, u.Subject, u.Old, u.New)
		}
	}
}
