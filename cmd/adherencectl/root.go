package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/adherence/internal/report"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type rootOptions struct {
	noColor   bool
	output    string
	precision int
}

func (o *rootOptions) reportOptions() report.Options {
	return report.Options{
		UseColors: !o.noColor && !color.NoColor,
		Precision: o.precision,
	}
}

func (o *rootOptions) validate() error {
	switch o.output {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output %q, use %s or %s", o.output, outputTable, outputJSON)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "adherencectl",
		Short:         "Score plan adherence from logged days",
		Long:          "adherencectl scores nutrition, training, sleep and supplement logs against their plans and explains the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "Output format (table, json)")
	rootCmd.PersistentFlags().IntVar(&opts.precision, "precision", 1, "Decimals shown for planned and real values")

	rootCmd.AddCommand(
		newDayCmd(opts),
		newMicrocycleCmd(opts),
		newMigrateCmd(),
	)
	return rootCmd
}

// readInput decodes the JSON file at path into v, "-" reads stdin.
func readInput(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode input %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
