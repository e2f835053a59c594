package adherence_test

import (
	"testing"
	"time"

	"github.com/2beens/adherence/internal/adherence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayWithScore(date time.Time, global float64, domains map[adherence.Domain]float64) adherence.DayAdherence {
	day := adherence.DayAdherence{
		Date:           date,
		GlobalAccuracy: global,
		HasData:        true,
	}
	for _, d := range adherence.Domains {
		if acc, ok := domains[d]; ok {
			day.DomainScores = append(day.DomainScores, adherence.DomainScore{Domain: d, Accuracy: acc})
		}
	}
	return day
}

func TestDateRange(t *testing.T) {
	from := time.Date(2024, 2, 27, 18, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)

	dates := adherence.DateRange(from, to)
	require.Len(t, dates, 5)
	assert.Equal(t, time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), dates[2])
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), dates[4])

	assert.Len(t, adherence.DateRange(from, from), 1)
	assert.Nil(t, adherence.DateRange(to, from))
}

func TestDaySpan(t *testing.T) {
	from := time.Date(2024, 2, 27, 18, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, len(adherence.DateRange(from, to)), adherence.DaySpan(from, to))
	assert.Equal(t, 5, adherence.DaySpan(from, to))
	assert.Equal(t, 1, adherence.DaySpan(from, from))
	assert.Equal(t, 0, adherence.DaySpan(to, from))

	// a year with a leap day
	assert.Equal(t, 366, adherence.DaySpan(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	))

	// wider than time.Duration can hold
	assert.Equal(t, 3652059, adherence.DaySpan(
		time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
	))
}

func TestRollup_WorkedExample(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	scores := []float64{97, 92, 57, 89, 100}

	var days []adherence.DayAdherence
	for i, s := range scores {
		days = append(days, dayWithScore(start.AddDate(0, 0, i), s, nil))
	}

	m := adherence.Rollup(days)
	assert.Equal(t, 87.0, m.AverageAccuracy)
	require.NotNil(t, m.BestDay)
	require.NotNil(t, m.WorstDay)
	assert.Equal(t, start.AddDate(0, 0, 4), m.BestDay.Date)
	assert.Equal(t, 100.0, m.BestDay.GlobalAccuracy)
	assert.Equal(t, start.AddDate(0, 0, 2), m.WorstDay.Date)
	assert.Equal(t, 57.0, m.WorstDay.GlobalAccuracy)
	assert.Len(t, m.Days, 5)
	assert.Equal(t, 5, m.DaysWithData())
}

func TestRollup_Empty(t *testing.T) {
	m := adherence.Rollup(nil)
	assert.Equal(t, 0.0, m.AverageAccuracy)
	assert.Nil(t, m.BestDay)
	assert.Nil(t, m.WorstDay)
	assert.Empty(t, m.DomainAverages)

	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	m = adherence.Rollup([]adherence.DayAdherence{
		{Date: start},
		{Date: start.AddDate(0, 0, 1)},
	})
	assert.Equal(t, 0.0, m.AverageAccuracy)
	assert.Nil(t, m.BestDay)
	assert.Nil(t, m.WorstDay)
	assert.Len(t, m.Days, 2)
	assert.Equal(t, 0, m.DaysWithData())
}

func TestRollup_SkipsDaysWithoutData(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	days := []adherence.DayAdherence{
		dayWithScore(start, 80, nil),
		{Date: start.AddDate(0, 0, 1)},
		dayWithScore(start.AddDate(0, 0, 2), 90, nil),
	}

	m := adherence.Rollup(days)
	assert.Equal(t, 85.0, m.AverageAccuracy)
	assert.Equal(t, start, m.WorstDay.Date)
	assert.Equal(t, start.AddDate(0, 0, 2), m.BestDay.Date)
}

func TestRollup_TiesGoToEarliestDate(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	// out of order on purpose
	days := []adherence.DayAdherence{
		dayWithScore(start.AddDate(0, 0, 3), 90, nil),
		dayWithScore(start.AddDate(0, 0, 1), 70, nil),
		dayWithScore(start, 90, nil),
		dayWithScore(start.AddDate(0, 0, 2), 70, nil),
	}

	m := adherence.Rollup(days)
	assert.Equal(t, start, m.BestDay.Date)
	assert.Equal(t, start.AddDate(0, 0, 1), m.WorstDay.Date)
	assert.Equal(t, start, m.Days[0].Date)
	assert.Equal(t, 80.0, m.AverageAccuracy)
}

func TestRollup_DomainAverages(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	days := []adherence.DayAdherence{
		dayWithScore(start, 60, map[adherence.Domain]float64{
			adherence.DomainNutrition: 90,
			adherence.DomainSleep:     80,
		}),
		dayWithScore(start.AddDate(0, 0, 1), 70, map[adherence.Domain]float64{
			adherence.DomainNutrition: 95,
		}),
	}

	m := adherence.Rollup(days)
	assert.Equal(t, 93.0, m.DomainAverages[adherence.DomainNutrition])
	assert.Equal(t, 80.0, m.DomainAverages[adherence.DomainSleep])
	_, ok := m.DomainAverages[adherence.DomainTraining]
	assert.False(t, ok)
}

func TestBuildMicrocycle(t *testing.T) {
	first := fullDayLogs()
	second := fullDayLogs()
	second.Date = testDay.AddDate(0, 0, 1)
	second.Sleep = nil
	empty := adherence.DayLogs{Date: testDay.AddDate(0, 0, 2)}

	m := adherence.BuildMicrocycle([]adherence.DayLogs{first, second, empty}, adherence.DefaultWeights)
	require.Len(t, m.Days, 3)
	assert.Equal(t, 2, m.DaysWithData())
	assert.Equal(t, 90.0, m.Days[0].GlobalAccuracy)
	// sleep missing: 0.35*94 + 0.35*97 + 0.15*67 = 76.9
	assert.Equal(t, 77.0, m.Days[1].GlobalAccuracy)
	assert.Equal(t, 84.0, m.AverageAccuracy)
	assert.Equal(t, m.Days[0].Date, m.BestDay.Date)
	assert.Equal(t, m.Days[1].Date, m.WorstDay.Date)
	assert.Equal(t, 89.0, m.DomainAverages[adherence.DomainSleep])
}
