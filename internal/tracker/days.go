package tracker

import (
	"time"

	"github.com/2beens/adherence/internal/adherence"
)

type datedGoals struct {
	validFrom time.Time
	goals     adherence.NutritionGoals
}

// dayIndex collects rows into their calendar days.
type dayIndex struct {
	dates       []time.Time
	days        map[time.Time]*adherence.DayLogs
	goals       []datedGoals // ordered by validFrom
	supplements []adherence.Supplement
}

func newDayIndex(from, to time.Time) *dayIndex {
	dates := adherence.DateRange(from, to)
	days := make(map[time.Time]*adherence.DayLogs, len(dates))
	for _, d := range dates {
		days[d] = &adherence.DayLogs{Date: d}
	}
	return &dayIndex{
		dates: dates,
		days:  days,
	}
}

// at returns the day t falls on, or nil when it is outside the range.
func (d *dayIndex) at(t time.Time) *adherence.DayLogs {
	return d.days[adherence.DayOf(t)]
}

func (d *dayIndex) addGoals(g datedGoals) {
	g.validFrom = adherence.DayOf(g.validFrom)
	d.goals = append(d.goals, g)
}

func (d *dayIndex) addSupplement(s adherence.Supplement) {
	d.supplements = append(d.supplements, s)
}

// goalsOn returns the latest goals that were already valid on date.
func (d *dayIndex) goalsOn(date time.Time) *adherence.NutritionGoals {
	var goals *adherence.NutritionGoals
	for i := range d.goals {
		if d.goals[i].validFrom.After(date) {
			break
		}
		g := d.goals[i].goals
		goals = &g
	}
	return goals
}

// logs returns the days in date order. The supplement plan is only attached
// to days where something was logged: a day nobody tracked is no data,
// not a day of missed supplements.
func (d *dayIndex) logs() []adherence.DayLogs {
	logs := make([]adherence.DayLogs, 0, len(d.dates))
	for _, date := range d.dates {
		day := *d.days[date]
		day.Goals = d.goalsOn(date)
		if logged(day) && len(d.supplements) > 0 {
			day.Supplements = append([]adherence.Supplement(nil), d.supplements...)
		}
		logs = append(logs, day)
	}
	return logs
}

func logged(day adherence.DayLogs) bool {
	return len(day.Meals) > 0 || len(day.Sets) > 0 || day.Sleep != nil || len(day.Intakes) > 0
}
