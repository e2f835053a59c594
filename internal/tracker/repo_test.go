package tracker

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/2beens/adherence/internal/adherence"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fromTableRegex = regexp.MustCompile(`FROM (\w+)`)

type fakeQuerier struct {
	rows    map[string][][]any
	errs    map[string]error
	queried []string
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	table := fromTableRegex.FindStringSubmatch(sql)[1]
	q.queried = append(q.queried, table)
	if err := q.errs[table]; err != nil {
		return nil, err
	}
	return &fakeRows{rows: q.rows[table], current: -1}, nil
}

type fakeRows struct {
	rows    [][]any
	current int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.current++
	return r.current < len(r.rows)
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.current], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.current]
	if len(row) != len(dest) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func date(day int) time.Time {
	return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
}

func pgClock(hour, minute int) pgtype.Time {
	return pgtype.Time{
		Microseconds: int64(hour*60+minute) * int64(time.Minute/time.Microsecond),
		Valid:        true,
	}
}

func intPtr(i int) *int {
	return &i
}

func trackerRows() map[string][][]any {
	return map[string][][]any{
		"nutrition_goal": {
			{date(1).AddDate(0, -2, 0), 2000.0, 150.0, 200.0, 60.0},
			{date(5), 2500.0, 160.0, 300.0, 70.0},
		},
		"meal_log": {
			{"breakfast", 40.0, 60.0, 20.0, 580.0, date(4).Add(8 * time.Hour)},
			{"dinner", 50.0, 70.0, 25.0, 705.0, date(5).Add(23*time.Hour + 30*time.Minute)},
		},
		"meal_plan": {
			{date(4), "breakfast", 40.0, 60.0, 20.0},
		},
		"exercise_plan": {
			{date(4), "squat", "Back Squat", 3, 5, 8},
		},
		"exercise_set": {
			{"squat", 6, 100.0, intPtr(2), false, date(4).Add(18 * time.Hour)},
			{"squat", 5, 60.0, (*int)(nil), true, date(4).Add(17*time.Hour + 50*time.Minute)},
		},
		"sleep_log": {
			{date(5), pgClock(23, 0), pgClock(23, 30), 8.0, 7.5},
		},
		"supplement": {
			{"creatine", "Creatine", true},
		},
		"supplement_intake": {},
	}
}

func TestRepo_DayLogs(t *testing.T) {
	q := &fakeQuerier{rows: trackerRows()}
	repo := &Repo{db: q}

	logs, err := repo.DayLogs(context.Background(), "serj", date(4).Add(15*time.Hour), date(6))
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Len(t, q.queried, 8)

	monday := logs[0]
	assert.Equal(t, date(4), monday.Date)
	require.NotNil(t, monday.Goals)
	assert.Equal(t, 2000.0, monday.Goals.DailyCalories)
	require.Len(t, monday.Meals, 1)
	assert.Equal(t, "breakfast", monday.Meals[0].MealType)
	assert.Len(t, monday.MealPlans, 1)
	require.Len(t, monday.Exercises, 1)
	assert.Equal(t, "Back Squat", monday.Exercises[0].Name)
	require.Len(t, monday.Sets, 2)
	require.NotNil(t, monday.Sets[0].RIR)
	assert.Equal(t, 2, *monday.Sets[0].RIR)
	assert.Nil(t, monday.Sets[1].RIR)
	assert.Nil(t, monday.Sleep)
	assert.Equal(t, []adherence.Supplement{{ID: "creatine", Name: "Creatine", Active: true}}, monday.Supplements)

	tuesday := logs[1]
	assert.Equal(t, date(5), tuesday.Date)
	require.NotNil(t, tuesday.Goals)
	assert.Equal(t, 2500.0, tuesday.Goals.DailyCalories)
	require.Len(t, tuesday.Meals, 1)
	assert.Equal(t, "dinner", tuesday.Meals[0].MealType)
	require.NotNil(t, tuesday.Sleep)
	assert.Equal(t, adherence.Clock{Hour: 23}, tuesday.Sleep.PlannedBedtime)
	assert.Equal(t, adherence.Clock{Hour: 23, Minute: 30}, tuesday.Sleep.RealBedtime)
	assert.Equal(t, 7.5, tuesday.Sleep.RealHours)
	assert.Len(t, tuesday.Supplements, 1)

	wednesday := logs[2]
	assert.Equal(t, date(6), wednesday.Date)
	assert.Empty(t, wednesday.Meals)
	assert.Empty(t, wednesday.Sets)
	assert.Nil(t, wednesday.Sleep)
	assert.Empty(t, wednesday.Supplements, "untracked day must not carry the supplement plan")

	day := adherence.BuildDay(wednesday, adherence.DefaultWeights)
	assert.False(t, day.HasData)
}

func TestRepo_DayLogs_UndefinedTable(t *testing.T) {
	q := &fakeQuerier{
		rows: trackerRows(),
		errs: map[string]error{
			"sleep_log":      &pgconn.PgError{Code: "42P01", Message: `relation "sleep_log" does not exist`},
			"nutrition_goal": fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "42P01"}),
			"supplement":     &pgconn.PgError{Code: "42703", Message: `column "dosage_unit" does not exist`},
		},
	}
	repo := &Repo{db: q}

	logs, err := repo.DayLogs(context.Background(), "serj", date(4), date(5))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Len(t, q.queried, 8)
	assert.Nil(t, logs[0].Goals)
	assert.Nil(t, logs[1].Sleep)
	assert.Len(t, logs[1].Meals, 1)
	assert.Empty(t, logs[1].Supplements)
}

func TestRepo_DayLogs_Error(t *testing.T) {
	q := &fakeQuerier{
		rows: trackerRows(),
		errs: map[string]error{
			"meal_log": errors.New("connection reset"),
		},
	}
	repo := &Repo{db: q}

	logs, err := repo.DayLogs(context.Background(), "serj", date(4), date(5))
	require.Error(t, err)
	assert.Nil(t, logs)
	assert.EqualError(t, err, "load meal_log: connection reset")
	assert.Equal(t, []string{"nutrition_goal", "meal_log"}, q.queried)
}

func TestRepo_DayLogs_ScanError(t *testing.T) {
	rows := trackerRows()
	rows["meal_plan"] = [][]any{{date(4), "breakfast"}}
	repo := &Repo{db: &fakeQuerier{rows: rows}}

	_, err := repo.DayLogs(context.Background(), "serj", date(4), date(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load meal_plan: rows scan")
}

func TestRepo_DayLogs_ReversedRange(t *testing.T) {
	repo := &Repo{db: &fakeQuerier{rows: trackerRows()}}

	logs, err := repo.DayLogs(context.Background(), "serj", date(6), date(4))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDayIndex_GoalsOn(t *testing.T) {
	days := newDayIndex(date(1), date(10))
	assert.Nil(t, days.goalsOn(date(3)))

	days.addGoals(datedGoals{validFrom: date(2).Add(5 * time.Hour), goals: adherence.NutritionGoals{DailyCalories: 1800}})
	days.addGoals(datedGoals{validFrom: date(7), goals: adherence.NutritionGoals{DailyCalories: 2200}})

	assert.Nil(t, days.goalsOn(date(1)))
	assert.Equal(t, 1800.0, days.goalsOn(date(2)).DailyCalories)
	assert.Equal(t, 1800.0, days.goalsOn(date(6)).DailyCalories)
	assert.Equal(t, 2200.0, days.goalsOn(date(7)).DailyCalories)
	assert.Equal(t, 2200.0, days.goalsOn(date(10)).DailyCalories)
}

func TestDayIndex_At(t *testing.T) {
	days := newDayIndex(date(4), date(5))
	assert.Nil(t, days.at(date(3).Add(23*time.Hour)))
	assert.Nil(t, days.at(date(6)))

	day := days.at(date(5).Add(23*time.Hour + 59*time.Minute))
	require.NotNil(t, day)
	assert.Equal(t, date(5), day.Date)

	// a time with an offset lands on its UTC day
	belgrade := time.FixedZone("CET", 3600)
	day = days.at(time.Date(2024, time.March, 5, 0, 30, 0, 0, belgrade))
	require.NotNil(t, day)
	assert.Equal(t, date(4), day.Date)
}

func TestClockOf(t *testing.T) {
	assert.Equal(t, adherence.Clock{}, clockOf(pgtype.Time{}))
	assert.Equal(t, adherence.Clock{Hour: 23, Minute: 30}, clockOf(pgClock(23, 30)))
	assert.Equal(t, adherence.Clock{Hour: 0, Minute: 15}, clockOf(pgClock(0, 15)))
	assert.Equal(t, adherence.Clock{Hour: 7, Minute: 5}, clockOf(pgtype.Time{
		Microseconds: int64(7*time.Hour+5*time.Minute+30*time.Second) / int64(time.Microsecond),
		Valid:        true,
	}))
}
