package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	goconflict "github.com/albertocavalcante/go-conflict"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
)

var formats = []string{formatText, formatJSON, formatDOT}

func checkFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return fmt.Errorf("unsupported format %q (want one of %v)", format, allowed)
	}
	return nil
}

// run is the resolution of one scenario file. err is only ever a version
// conflict; any other failure aborts the whole command.
type run struct {
	file string
	res  *goconflict.Resolution
	err  error
}

// resolveAll resolves every file in its own session, concurrently.
func resolveAll(ctx context.Context, files []string, opts []goconflict.Option) ([]run, error) {
	runs := make([]run, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			sc, err := goconflict.ParseScenarioFile(file)
			if err != nil {
				return err
			}
			res, err := goconflict.NewDriver(opts...).Run(ctx, sc)
			if err != nil && !errors.Is(err, goconflict.ErrVersionConflict) {
				return fmt.Errorf("%s: %w", file, err)
			}
			runs[i] = run{file: file, res: res, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

func resolveCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "resolve SCENARIO...",
		Short: "Resolve scenario files and print the decisions taken",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formats...); err != nil {
				return err
			}
			opts, err := g.options(cmd)
			if err != nil {
				return err
			}
			runs, err := resolveAll(cmd.Context(), args, opts)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range runs {
				if len(runs) > 1 && format == formatText {
					fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", r.file)
				}
				if err := render(cmd.OutOrStdout(), r.res, format); err != nil {
					return err
				}
				if r.err != nil {
					failed++
					color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), r.err.Error())
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenario(s) failed: %w", failed, len(runs), goconflict.ErrVersionConflict)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or dot")
	return cmd
}

func render(w io.Writer, res *goconflict.Resolution, format string) error {
	switch format {
	case formatJSON:
		data, err := res.Outcome.ToJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatDOT:
		_, err := fmt.Fprint(w, res.Outcome.ToDOT())
		return err
	}

	fmt.Fprint(w, res.Outcome.ToText())
	fmt.Fprintln(w, "\nSelected components:")
	for _, m := range slices.Sorted(maps.Keys(res.Modules)) {
		fmt.Fprintf(w, "  %s -> %s\n", m, color.GreenString(res.Modules[m]))
	}
	if len(res.Evicted) > 0 {
		fmt.Fprintln(w, "\nEvicted:")
		for _, c := range res.Evicted {
			fmt.Fprintf(w, "  %s\n", color.YellowString(c))
		}
	}
	return nil
}
