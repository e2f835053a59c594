// Package narrative turns computed adherence scores into tiered, templated diagnostics.
// Every phrase comes from the template tables, so reports can be asserted on
// their structure (verdicts, statuses, findings) instead of on prose.
package narrative

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/2beens/adherence/internal/adherence"
)

type Finding struct {
	Label    string         `json:"label"`
	Accuracy float64        `json:"accuracy"`
	Tier     adherence.Tier `json:"tier"`
	Text     string         `json:"text"`
}

type Section struct {
	Domain   adherence.Domain `json:"domain"`
	Status   SectionStatus    `json:"status"`
	Accuracy float64          `json:"accuracy"`
	Verdict  Verdict          `json:"verdict,omitempty"`
	Text     string           `json:"text"`
	Findings []Finding        `json:"findings,omitempty"`
}

type DayMention struct {
	Date     time.Time `json:"date"`
	Accuracy float64   `json:"accuracy"`
	Text     string    `json:"text"`
}

type Report struct {
	Scope    Scope       `json:"scope"`
	Verdict  Verdict     `json:"verdict"`
	Opening  string      `json:"opening"`
	Sections []Section   `json:"sections"`
	BestDay  *DayMention `json:"bestDay,omitempty"`
	WorstDay *DayMention `json:"worstDay,omitempty"`
	Closing  string      `json:"closing"`
}

// Lines flattens the report into display lines, findings indented under their section.
func (r Report) Lines() []string {
	lines := []string{r.Opening}
	for _, s := range r.Sections {
		lines = append(lines, s.Text)
		for _, f := range s.Findings {
			lines = append(lines, "  - "+f.Text)
		}
	}
	if r.BestDay != nil {
		lines = append(lines, r.BestDay.Text)
	}
	if r.WorstDay != nil {
		lines = append(lines, r.WorstDay.Text)
	}
	return append(lines, r.Closing)
}

func (r Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Section returns the section of the given domain.
func (r Report) Section(domain adherence.Domain) (Section, bool) {
	for _, s := range r.Sections {
		if s.Domain == domain {
			return s, true
		}
	}
	return Section{}, false
}

type reportBuilder struct {
	report Report
}

func newReportBuilder(scope Scope) *reportBuilder {
	return &reportBuilder{
		report: Report{
			Scope:    scope,
			Sections: []Section{},
		},
	}
}

func (b *reportBuilder) verdict(hasData bool, accuracy float64) *reportBuilder {
	v := VerdictNoData
	if hasData {
		v = VerdictFor(accuracy)
	}
	b.report.Verdict = v

	tmpl := openingTemplates[b.report.Scope][v]
	if v == VerdictNoData {
		b.report.Opening = tmpl
	} else {
		b.report.Opening = fmt.Sprintf(tmpl, accuracy)
	}
	b.report.Closing = closingTemplates[v]
	return b
}

func (b *reportBuilder) noDataSection(domain adherence.Domain) *reportBuilder {
	b.report.Sections = append(b.report.Sections, Section{
		Domain: domain,
		Status: StatusNoData,
		Text:   fmt.Sprintf(sectionTemplates[StatusNoData], domainTitles[domain]),
	})
	return b
}

func (b *reportBuilder) skippedSection(domain adherence.Domain, skipped []string) *reportBuilder {
	b.report.Sections = append(b.report.Sections, Section{
		Domain:   domain,
		Status:   StatusDeviations,
		Verdict:  VerdictCritical,
		Text:     fmt.Sprintf(skippedSectionTemplate, domainTitles[domain]),
		Findings: []Finding{skippedFinding(skipped)},
	})
	return b
}

func (b *reportBuilder) scoredSection(domain adherence.Domain, accuracy float64, findings []Finding) *reportBuilder {
	threshold := thresholdFor(domain)
	s := Section{
		Domain:   domain,
		Accuracy: accuracy,
		Verdict:  VerdictFor(accuracy),
	}
	if accuracy >= threshold {
		s.Status = StatusOnTrack
		s.Text = fmt.Sprintf(sectionTemplates[StatusOnTrack], domainTitles[domain], accuracy)
	} else {
		s.Status = StatusDeviations
		s.Text = fmt.Sprintf(sectionTemplates[StatusDeviations], domainTitles[domain], accuracy, threshold)
		s.Findings = findings
	}
	b.report.Sections = append(b.report.Sections, s)
	return b
}

func (b *reportBuilder) dayMentions(best, worst *adherence.DayAdherence) *reportBuilder {
	if best != nil {
		b.report.BestDay = mention(bestDayTemplate, *best)
	}
	if worst != nil {
		b.report.WorstDay = mention(worstDayTemplate, *worst)
	}
	return b
}

func (b *reportBuilder) build() Report {
	return b.report
}

func mention(tmpl string, day adherence.DayAdherence) *DayMention {
	return &DayMention{
		Date:     day.Date,
		Accuracy: day.GlobalAccuracy,
		Text:     fmt.Sprintf(tmpl, day.Date.Format(dayDateLayout), day.GlobalAccuracy),
	}
}

// NarrateDay builds the diagnostic report of a single day.
// Every domain gets a section, domains without data get the no-data phrase.
func NarrateDay(day adherence.DayAdherence) Report {
	b := newReportBuilder(ScopeDay).verdict(day.HasData, day.GlobalAccuracy)

	for _, domain := range adherence.Domains {
		skipped := domain == adherence.DomainTraining && len(day.SkippedExercises) > 0
		ds, ok := day.Domain(domain)
		if !ok {
			// every planned exercise skipped: unscored, but not a no-data day
			if skipped {
				b.skippedSection(domain, day.SkippedExercises)
				continue
			}
			b.noDataSection(domain)
			continue
		}
		findings := dayFindings(ds)
		if skipped {
			findings = append(findings, skippedFinding(day.SkippedExercises))
		}
		b.scoredSection(domain, ds.Accuracy, findings)
	}

	return b.build()
}

// NarrateMicrocycle builds the report of a multi-day window: verdict on the average,
// best and worst day, and per domain averages with the items that failed most often.
func NarrateMicrocycle(m adherence.MicrocycleAdherence) Report {
	hasData := m.DaysWithData() > 0
	b := newReportBuilder(ScopeMicrocycle).
		verdict(hasData, m.AverageAccuracy).
		dayMentions(m.BestDay, m.WorstDay)

	for _, domain := range adherence.Domains {
		avg, ok := m.DomainAverages[domain]
		if !ok {
			b.noDataSection(domain)
			continue
		}
		b.scoredSection(domain, avg, recurringFindings(m.Days, domain))
	}

	return b.build()
}

func skippedFinding(skipped []string) Finding {
	return Finding{
		Label: "skipped",
		Tier:  adherence.TierCritical,
		Text:  fmt.Sprintf(skippedExercisesTemplate, strings.Join(skipped, ", ")),
	}
}

// dayFindings lists the items of a domain that are not on target, worst first.
func dayFindings(ds adherence.DomainScore) []Finding {
	var findings []Finding
	for _, item := range ds.Items {
		if item.Result.Tier == adherence.TierOnTarget {
			continue
		}
		findings = append(findings, Finding{
			Label:    item.Label,
			Accuracy: item.Result.Accuracy,
			Tier:     item.Result.Tier,
			Text:     describeItem(ds.Domain, item),
		})
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Accuracy < findings[j].Accuracy
	})
	return findings
}

// recurringFindings groups failing items of a domain across days, most frequent first.
func recurringFindings(days []adherence.DayAdherence, domain adherence.Domain) []Finding {
	type tally struct {
		label    string
		missed   int
		seen     int
		accuracy []float64
	}
	var order []string
	tallies := make(map[string]*tally)

	for _, day := range days {
		if !day.HasData {
			continue
		}
		ds, ok := day.Domain(domain)
		if !ok {
			continue
		}
		for _, item := range ds.Items {
			t, ok := tallies[item.Label]
			if !ok {
				t = &tally{label: item.Label}
				tallies[item.Label] = t
				order = append(order, item.Label)
			}
			t.seen++
			t.accuracy = append(t.accuracy, item.Result.Accuracy)
			if item.Result.Tier != adherence.TierOnTarget {
				t.missed++
			}
		}
	}

	var findings []Finding
	for _, label := range order {
		t := tallies[label]
		if t.missed == 0 {
			continue
		}
		var sum float64
		for _, a := range t.accuracy {
			sum += a
		}
		avg := math.Round(sum / float64(len(t.accuracy)))
		findings = append(findings, Finding{
			Label:    t.label,
			Accuracy: avg,
			Tier:     adherence.TierForAccuracy(avg),
			Text:     fmt.Sprintf(recurringTemplate, t.label, t.missed, t.seen, avg),
		})
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Accuracy < findings[j].Accuracy
	})
	return findings
}
