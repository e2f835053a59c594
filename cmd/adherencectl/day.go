package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/adherence/narrative"
	"github.com/2beens/adherence/internal/adherence/service"
	"github.com/2beens/adherence/internal/report"
)

func newDayCmd(opts *rootOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Score one logged day",
		Long:  "Score the day in the input file: its logs, plans and, optionally, the weights to combine the domains with.",
		Example: `  adherencectl day --input monday.json
  cat monday.json | adherencectl day --input - --no-color`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req service.EvaluateRequest
			if err := readInput(cmd, input, &req); err != nil {
				return err
			}
			if req.Date.IsZero() {
				return errors.New("input has no date")
			}

			weights := adherence.DefaultWeights
			if req.Weights != nil {
				if err := req.Weights.Validate(); err != nil {
					return err
				}
				weights = *req.Weights
			}

			day := adherence.BuildDay(req.DayLogs, weights)
			rep := narrative.NarrateDay(day)

			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), service.DayResult{Day: day, Report: rep})
			}
			return report.WriteDay(cmd.OutOrStdout(), day, rep, opts.reportOptions())
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with the day logs, - for stdin")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
