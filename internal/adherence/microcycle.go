package adherence

import (
	"math"
	"sort"
	"time"
)

// MinTrendDays is the least number of days with data worth drawing as a trend.
const MinTrendDays = 2

const secondsPerDay = 24 * 60 * 60

// DaySpan counts the calendar days from `from` to `to`, both included, without
// materialising them. It returns 0 when to is before from.
func DaySpan(from, to time.Time) int {
	from, to = DayOf(from), DayOf(to)
	if to.Before(from) {
		return 0
	}
	return int((to.Unix()-from.Unix())/secondsPerDay) + 1
}

// DateRange returns every calendar day from `from` to `to`, both included.
// It returns nil when to is before from.
func DateRange(from, to time.Time) []time.Time {
	from, to = DayOf(from), DayOf(to)
	if to.Before(from) {
		return nil
	}
	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Rollup averages the global accuracy over the days that have data and picks
// the best and worst of them. Ties go to the earliest date.
// Without any data the average is 0 and no best/worst day is set.
func Rollup(days []DayAdherence) MicrocycleAdherence {
	ordered := make([]DayAdherence, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	m := MicrocycleAdherence{
		Days:           ordered,
		DomainAverages: make(map[Domain]float64),
	}

	var globals []float64
	domainValues := make(map[Domain][]float64)
	for i := range ordered {
		day := &ordered[i]
		if !day.HasData {
			continue
		}
		globals = append(globals, day.GlobalAccuracy)
		for _, ds := range day.DomainScores {
			domainValues[ds.Domain] = append(domainValues[ds.Domain], ds.Accuracy)
		}

		// strict comparisons keep the earliest day on ties
		if m.BestDay == nil || day.GlobalAccuracy > m.BestDay.GlobalAccuracy {
			m.BestDay = day
		}
		if m.WorstDay == nil || day.GlobalAccuracy < m.WorstDay.GlobalAccuracy {
			m.WorstDay = day
		}
	}

	if len(globals) == 0 {
		return m
	}

	m.AverageAccuracy = math.Round(mean(globals))
	for domain, values := range domainValues {
		m.DomainAverages[domain] = math.Round(mean(values))
	}
	return m
}

// BuildMicrocycle scores each day's logs and rolls them up.
func BuildMicrocycle(logs []DayLogs, w Weights) MicrocycleAdherence {
	days := make([]DayAdherence, 0, len(logs))
	for _, l := range logs {
		days = append(days, BuildDay(l, w))
	}
	return Rollup(days)
}
