// Package sample generates a deterministic demo dataset of plans and logs,
// used when a user has not logged enough days to draw a trend.
package sample

import (
	"time"

	"github.com/2beens/adherence/internal/adherence"

	"github.com/brianvoe/gofakeit/v6"
)

const secondsPerDay = 24 * 60 * 60

var (
	mealTypes = []string{"breakfast", "lunch", "dinner"}

	exercisePool = []adherence.ExercisePlan{
		{ExerciseID: "bench_press", Name: "Bench Press", TargetSets: 4, RepRangeMin: 6, RepRangeMax: 10},
		{ExerciseID: "squat", Name: "Squat", TargetSets: 4, RepRangeMin: 5, RepRangeMax: 8},
		{ExerciseID: "deadlift", Name: "Deadlift", TargetSets: 3, RepRangeMin: 3, RepRangeMax: 5},
		{ExerciseID: "pull_up", Name: "Pull Up", TargetSets: 3, RepRangeMin: 6, RepRangeMax: 12},
		{ExerciseID: "overhead_press", Name: "Overhead Press", TargetSets: 3, RepRangeMin: 8, RepRangeMax: 12},
		{ExerciseID: "barbell_row", Name: "Barbell Row", TargetSets: 3, RepRangeMin: 8, RepRangeMax: 12},
	}

	supplements = []adherence.Supplement{
		{ID: "creatine", Name: "Creatine", Active: true},
		{ID: "vitamin_d", Name: "Vitamin D", Active: true},
		{ID: "omega_3", Name: "Omega 3", Active: true},
	}

	goals = adherence.NutritionGoals{
		DailyCalories: 2600,
		DailyProtein:  160,
		DailyCarbs:    300,
		DailyFat:      75,
	}
)

type Generator struct {
	seed int64
}

func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed}
}

// DayLogs returns one fully logged day per date in [from, to].
// The same seed and date always produce the same logs.
func (g *Generator) DayLogs(from, to time.Time) []adherence.DayLogs {
	dates := adherence.DateRange(from, to)
	logs := make([]adherence.DayLogs, 0, len(dates))
	for _, date := range dates {
		logs = append(logs, g.day(date))
	}
	return logs
}

func (g *Generator) day(date time.Time) adherence.DayLogs {
	faker := gofakeit.New(g.seed + date.Unix()/secondsPerDay)

	// each day owns its goals and supplement list, callers may edit them
	dayGoals := goals
	day := adherence.DayLogs{
		Date:        date,
		Goals:       &dayGoals,
		Supplements: append([]adherence.Supplement(nil), supplements...),
	}

	for _, mealType := range mealTypes {
		share := faker.Float64Range(0.8, 1.1) / float64(len(mealTypes))
		meal := adherence.Meal{
			MealType: mealType,
			Protein:  round1(goals.DailyProtein * share),
			Carbs:    round1(goals.DailyCarbs * share * faker.Float64Range(0.9, 1.1)),
			Fat:      round1(goals.DailyFat * share * faker.Float64Range(0.85, 1.15)),
			LoggedAt: date.Add(time.Duration(8+5*len(day.Meals)) * time.Hour),
		}
		meal.Calories = round1(meal.Protein*4 + meal.Carbs*4 + meal.Fat*9)
		day.Meals = append(day.Meals, meal)
	}

	// training on roughly two thirds of the days, three exercises per session
	if faker.IntRange(0, 2) > 0 {
		start := faker.IntRange(0, len(exercisePool)-1)
		for i := 0; i < 3; i++ {
			plan := exercisePool[(start+i)%len(exercisePool)]
			day.Exercises = append(day.Exercises, plan)

			sets := plan.TargetSets - faker.IntRange(0, 1)
			for s := 0; s < sets; s++ {
				day.Sets = append(day.Sets, adherence.ExerciseSet{
					ExerciseID: plan.ExerciseID,
					Reps:       faker.IntRange(plan.RepRangeMin-1, plan.RepRangeMax+1),
					Weight:     float64(faker.IntRange(8, 24)) * 5,
					LoggedAt:   date.Add(18*time.Hour + time.Duration(s)*3*time.Minute),
				})
			}
		}
	}

	day.Sleep = &adherence.SleepLog{
		PlannedBedtime: adherence.MustParseClock("23:00"),
		RealBedtime: adherence.Clock{
			Hour:   faker.RandomInt([]int{22, 23, 23, 0}),
			Minute: faker.IntRange(0, 59),
		},
		PlannedHours: 8,
		RealHours:    round1(faker.Float64Range(6, 8.5)),
	}

	for _, s := range supplements {
		if faker.IntRange(0, 4) > 0 {
			day.Intakes = append(day.Intakes, adherence.SupplementIntake{
				SupplementID: s.ID,
				TakenAt:      date.Add(9 * time.Hour),
			})
		}
	}

	return day
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
