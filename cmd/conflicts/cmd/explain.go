package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func explainCmd(g *globalFlags) *cobra.Command {
	var (
		subject string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "explain SCENARIO --module GROUP:NAME",
		Short: "Explain how a module or capability conflict was decided",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON); err != nil {
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
			o := runs[0].res.Outcome

			if format == formatJSON {
				e, err := o.Explain(subject)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(e, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			text, err := o.ToExplainText(subject)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "module", "m", "", "module (group:name) or capability to explain")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or json")
	_ = cmd.MarkFlagRequired("module")
	return cmd
}
