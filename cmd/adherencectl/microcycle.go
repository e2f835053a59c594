package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/adherence/narrative"
	"github.com/2beens/adherence/internal/adherence/sample"
	"github.com/2beens/adherence/internal/adherence/service"
	"github.com/2beens/adherence/internal/report"
	"github.com/2beens/adherence/pkg"
)

const defaultSampleSeed = 11

type microcycleInput struct {
	Days    []adherence.DayLogs `json:"days"`
	Weights *adherence.Weights  `json:"weights,omitempty"`
}

func newMicrocycleCmd(opts *rootOptions) *cobra.Command {
	var (
		input      string
		useSample  bool
		sampleSeed int64
		from, to   string
	)

	cmd := &cobra.Command{
		Use:   "microcycle",
		Short: "Score a run of logged days",
		Long: "Score every day in the input file and roll them up into averages, best and worst day.\n" +
			"With --sample the days come from the built-in sample dataset instead.",
		Example: `  adherencectl microcycle --input week.json
  adherencectl microcycle --sample --from 2024-03-04 --to 2024-03-10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in microcycleInput
			switch {
			case useSample:
				fromDate, toDate, err := pkg.ParseDateRange(from, to)
				if err != nil {
					return fmt.Errorf("sample range: %w", err)
				}
				if days := adherence.DaySpan(fromDate, toDate); days > service.DefaultMaxRangeDays {
					return fmt.Errorf("sample range: %w: %d days requested, at most %d allowed",
						service.ErrRangeTooLong, days, service.DefaultMaxRangeDays)
				}
				in.Days = sample.NewGenerator(sampleSeed).DayLogs(fromDate, toDate)
			case input != "":
				if err := readInput(cmd, input, &in); err != nil {
					return err
				}
			default:
				return errors.New("either --input or --sample is required")
			}
			if len(in.Days) == 0 {
				return errors.New("no days to score")
			}

			weights := adherence.DefaultWeights
			if in.Weights != nil {
				if err := in.Weights.Validate(); err != nil {
					return err
				}
				weights = *in.Weights
			}

			m := adherence.BuildMicrocycle(in.Days, weights)
			rep := narrative.NarrateMicrocycle(m)

			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), service.MicrocycleResult{
					From:       firstDate(m),
					To:         lastDate(m),
					Microcycle: m,
					Report:     rep,
					IsSample:   useSample,
				})
			}
			return report.WriteMicrocycle(cmd.OutOrStdout(), m, rep, opts.reportOptions())
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", `JSON file {"days": [...], "weights": {...}}, - for stdin`)
	cmd.Flags().BoolVar(&useSample, "sample", false, "Score the sample dataset")
	cmd.Flags().Int64Var(&sampleSeed, "seed", defaultSampleSeed, "Sample dataset seed")
	cmd.Flags().StringVar(&from, "from", "", "First sample day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last sample day (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("input", "sample")
	cmd.MarkFlagsRequiredTogether("sample", "from", "to")
	return cmd
}

func firstDate(m adherence.MicrocycleAdherence) time.Time {
	if len(m.Days) == 0 {
		return time.Time{}
	}
	return m.Days[0].Date
}

func lastDate(m adherence.MicrocycleAdherence) time.Time {
	if len(m.Days) == 0 {
		return time.Time{}
	}
	return m.Days[len(m.Days)-1].Date
}
