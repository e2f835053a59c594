package adherence

import (
	"time"
)

type NutritionGoals struct {
	DailyCalories float64 `json:"dailyCalories"`
	DailyProtein  float64 `json:"dailyProtein"`
	DailyCarbs    float64 `json:"dailyCarbs"`
	DailyFat      float64 `json:"dailyFat"`
}

type Meal struct {
	MealType string    `json:"mealType"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
	Calories float64   `json:"calories"`
	LoggedAt time.Time `json:"loggedAt"`
}

// MealPlan holds optional per meal macro targets, used for meal drill-down only.
type MealPlan struct {
	MealType string  `json:"mealType"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type ExercisePlan struct {
	ExerciseID  string `json:"exerciseId"`
	Name        string `json:"name"`
	TargetSets  int    `json:"targetSets"`
	RepRangeMin int    `json:"repRangeMin"`
	RepRangeMax int    `json:"repRangeMax"`
}

type ExerciseSet struct {
	ExerciseID string    `json:"exerciseId"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
	RIR        *int      `json:"rir,omitempty"`
	IsWarmup   bool      `json:"isWarmup"`
	LoggedAt   time.Time `json:"loggedAt"`
}

type SleepLog struct {
	PlannedBedtime Clock   `json:"plannedBedtime"`
	RealBedtime    Clock   `json:"realBedtime"`
	PlannedHours   float64 `json:"plannedHours"`
	RealHours      float64 `json:"realHours"`
}

type Supplement struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type SupplementIntake struct {
	SupplementID string    `json:"supplementId"`
	TakenAt      time.Time `json:"takenAt"`
}

// DayLogs is everything logged and planned for one calendar day.
type DayLogs struct {
	Date        time.Time          `json:"date"`
	Goals       *NutritionGoals    `json:"goals,omitempty"`
	Meals       []Meal             `json:"meals,omitempty"`
	MealPlans   []MealPlan         `json:"mealPlans,omitempty"`
	Exercises   []ExercisePlan     `json:"exercises,omitempty"`
	Sets        []ExerciseSet      `json:"sets,omitempty"`
	Sleep       *SleepLog          `json:"sleep,omitempty"`
	Supplements []Supplement       `json:"supplements,omitempty"`
	Intakes     []SupplementIntake `json:"intakes,omitempty"`
}

// DayOf truncates t to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
