// Package report renders adherence results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/adherence/narrative"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const dateLayout = "2006-01-02"

type Options struct {
	UseColors bool
	// Precision is the number of decimals for planned and real values.
	Precision int
}

type palette struct {
	tiers map[adherence.Tier]func(...any) string
	bold  func(...any) string
	faint func(...any) string
}

func newPalette(useColors bool) palette {
	if !useColors {
		return palette{
			tiers: map[adherence.Tier]func(...any) string{},
			bold:  fmt.Sprint,
			faint: fmt.Sprint,
		}
	}

	sprint := func(attrs ...color.Attribute) func(...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		tiers: map[adherence.Tier]func(...any) string{
			adherence.TierOnTarget: sprint(color.FgGreen),
			adherence.TierMinor:    sprint(color.FgYellow),
			adherence.TierMajor:    sprint(color.FgMagenta),
			adherence.TierCritical: sprint(color.FgRed, color.Bold),
		},
		bold:  sprint(color.Bold),
		faint: sprint(color.FgHiBlack),
	}
}

func (p palette) tier(t adherence.Tier, s string) string {
	if f, ok := p.tiers[t]; ok {
		return f(s)
	}
	return s
}

// accuracy formats a score together with its tier.
func (p palette) accuracy(acc float64) string {
	tier := adherence.TierForAccuracy(acc)
	return p.tier(tier, fmt.Sprintf("%.0f%% %s", acc, tier))
}

// WriteDay writes the per item score table of one day followed by its narrative.
func WriteDay(w io.Writer, day adherence.DayAdherence, rep narrative.Report, opts Options) error {
	p := newPalette(opts.UseColors)

	if _, err := fmt.Fprintf(w, "%s %s\n", p.bold("Day"), day.Date.Format(dateLayout)); err != nil {
		return err
	}
	if !day.HasData {
		if _, err := fmt.Fprintln(w, p.faint("nothing logged")); err != nil {
			return err
		}
		return writeNarrative(w, rep)
	}

	var rows [][]string
	for _, ds := range day.DomainScores {
		for _, item := range ds.Items {
			rows = append(rows, []string{
				string(ds.Domain),
				item.Label,
				plannedValue(item, opts.Precision),
				realValue(item, opts.Precision),
				p.tier(item.Result.Tier, fmt.Sprintf("%.0f%%", item.Result.Accuracy)),
			})
		}
		rows = append(rows, []string{
			p.bold(string(ds.Domain)),
			p.bold("total"),
			"",
			"",
			p.accuracy(ds.Accuracy),
		})
	}
	if err := writeTable(w, []string{"Domain", "Item", "Planned", "Real", "Accuracy"}, rows); err != nil {
		return err
	}

	if len(day.Meals) > 0 {
		var mealRows [][]string
		for _, m := range day.Meals {
			mealRows = append(mealRows, []string{m.MealType, p.accuracy(m.Accuracy)})
		}
		if err := writeTable(w, []string{"Meal", "Accuracy"}, mealRows); err != nil {
			return err
		}
	}
	if len(day.SkippedExercises) > 0 {
		if _, err := fmt.Fprintf(w, "Skipped: %s\n", strings.Join(day.SkippedExercises, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Global accuracy: %s\n", p.accuracy(day.GlobalAccuracy)); err != nil {
		return err
	}

	return writeNarrative(w, rep)
}

// WriteMicrocycle writes one row per day with the domain scores, then the averages and the narrative.
func WriteMicrocycle(w io.Writer, m adherence.MicrocycleAdherence, rep narrative.Report, opts Options) error {
	p := newPalette(opts.UseColors)

	headers := []string{"Date"}
	for _, d := range adherence.Domains {
		headers = append(headers, titled(string(d)))
	}
	headers = append(headers, "Global")

	var rows [][]string
	for _, day := range m.Days {
		row := []string{day.Date.Format(dateLayout)}
		for _, d := range adherence.Domains {
			ds, ok := day.Domain(d)
			if !ok {
				row = append(row, p.faint("-"))
				continue
			}
			row = append(row, p.accuracy(ds.Accuracy))
		}
		if day.HasData {
			row = append(row, p.accuracy(day.GlobalAccuracy))
		} else {
			row = append(row, p.faint("no data"))
		}
		rows = append(rows, row)
	}

	averages := []string{p.bold("average")}
	for _, d := range adherence.Domains {
		avg, ok := m.DomainAverages[d]
		if !ok {
			averages = append(averages, p.faint("-"))
			continue
		}
		averages = append(averages, p.accuracy(avg))
	}
	if m.DaysWithData() > 0 {
		averages = append(averages, p.accuracy(m.AverageAccuracy))
	} else {
		averages = append(averages, p.faint("no data"))
	}
	rows = append(rows, averages)

	if err := writeTable(w, headers, rows); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Days with data: %d/%d\n", m.DaysWithData(), len(m.Days)); err != nil {
		return err
	}

	return writeNarrative(w, rep)
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func writeNarrative(w io.Writer, rep narrative.Report) error {
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, line := range rep.Lines() {
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func plannedValue(item adherence.ItemScore, precision int) string {
	switch item.Kind {
	case adherence.KindTimeOfDay:
		return clock(item.Planned)
	case adherence.KindRepRange:
		if item.PlannedMax > 0 {
			return fmt.Sprintf("%.0f-%.0f", item.Planned, item.PlannedMax)
		}
	}
	return withUnit(item.Planned, item.Unit, precision)
}

func realValue(item adherence.ItemScore, precision int) string {
	if item.Kind == adherence.KindTimeOfDay {
		return clock(item.Real)
	}
	return withUnit(item.Real, item.Unit, precision)
}

// clock formats minutes since midnight, as stored on time of day items.
func clock(minutes float64) string {
	m := (int(minutes)%(24*60) + 24*60) % (24 * 60)
	return adherence.Clock{Hour: m / 60, Minute: m % 60}.String()
}

func withUnit(v float64, unit string, precision int) string {
	s := fmt.Sprintf("%.*f", precision, v)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

func titled(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
