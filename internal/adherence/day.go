package adherence

import (
	"math"
)

const (
	labelProtein    = "protein"
	labelCarbs      = "carbs"
	labelFat        = "fat"
	labelSets       = "sets"
	labelBedtime    = "bedtime"
	labelSleep      = "hours slept"
	labelTaken      = "supplements taken"
	unitGrams       = "g"
	unitHours       = "h"
	unitSets        = "sets"
	unitReps        = "reps"
	unitSupplements = "supplements"
)

// BuildDay scores one calendar day. Domains without samples are left out of
// DomainScores and of the weighted sum.
func BuildDay(logs DayLogs, w Weights) DayAdherence {
	day := DayAdherence{
		Date:         DayOf(logs.Date),
		DomainScores: []DomainScore{},
	}

	present := make(map[Domain]float64, len(Domains))
	add := func(ds DomainScore) {
		day.DomainScores = append(day.DomainScores, ds)
		present[ds.Domain] = ds.Accuracy
	}

	if ds, ok := nutritionScore(logs); ok {
		add(ds)
	}
	day.Meals = mealScores(logs)

	training, skipped, ok := trainingScore(logs)
	if ok {
		add(training)
	}
	day.SkippedExercises = skipped

	if ds, ok := sleepScore(logs); ok {
		add(ds)
	}
	if ds, ok := supplementsScore(logs); ok {
		add(ds)
	}

	day.HasData = len(present) > 0
	if day.HasData {
		day.GlobalAccuracy = WeightedAccuracy(present, w)
	}
	return day
}

func nutritionScore(logs DayLogs) (DomainScore, bool) {
	if logs.Goals == nil || len(logs.Meals) == 0 {
		return DomainScore{}, false
	}

	var protein, carbs, fat float64
	for _, m := range logs.Meals {
		protein += m.Protein
		carbs += m.Carbs
		fat += m.Fat
	}

	return NewDomainScore(DomainNutrition, macroItems(
		MacroPair{Planned: logs.Goals.DailyProtein, Real: protein},
		MacroPair{Planned: logs.Goals.DailyCarbs, Real: carbs},
		MacroPair{Planned: logs.Goals.DailyFat, Real: fat},
	)), true
}

func macroItems(protein, carbs, fat MacroPair) []ItemScore {
	labels := []string{labelProtein, labelCarbs, labelFat}
	pairs := []MacroPair{protein, carbs, fat}
	items := make([]ItemScore, 0, len(pairs))
	for i, p := range pairs {
		items = append(items, ScoreSample(MetricSample{
			Kind:    KindGeneralQuantity,
			Label:   labels[i],
			Unit:    unitGrams,
			Planned: p.Planned,
			Real:    p.Real,
		}))
	}
	return items
}

// mealScores groups meals by type and compares them to the matching meal plan, if any.
func mealScores(logs DayLogs) []MealScore {
	if len(logs.MealPlans) == 0 || len(logs.Meals) == 0 {
		return nil
	}

	type macros struct{ protein, carbs, fat float64 }
	byType := make(map[string]*macros)
	for _, m := range logs.Meals {
		agg, ok := byType[m.MealType]
		if !ok {
			agg = &macros{}
			byType[m.MealType] = agg
		}
		agg.protein += m.Protein
		agg.carbs += m.Carbs
		agg.fat += m.Fat
	}

	var scores []MealScore
	for _, plan := range logs.MealPlans {
		logged, ok := byType[plan.MealType]
		if !ok {
			logged = &macros{}
		}
		pairs := []MacroPair{
			{Planned: plan.Protein, Real: logged.protein},
			{Planned: plan.Carbs, Real: logged.carbs},
			{Planned: plan.Fat, Real: logged.fat},
		}
		scores = append(scores, MealScore{
			MealType: plan.MealType,
			Accuracy: MealMacroAverage(pairs),
			Items:    macroItems(pairs[0], pairs[1], pairs[2]),
		})
	}
	return scores
}

func trainingScore(logs DayLogs) (DomainScore, []string, bool) {
	if len(logs.Exercises) == 0 {
		return DomainScore{}, nil, false
	}

	working := make(map[string][]ExerciseSet)
	for _, s := range logs.Sets {
		if s.IsWarmup {
			continue
		}
		working[s.ExerciseID] = append(working[s.ExerciseID], s)
	}

	var items []ItemScore
	var skipped []string
	for _, plan := range logs.Exercises {
		sets := working[plan.ExerciseID]
		if len(sets) == 0 {
			skipped = append(skipped, exerciseLabel(plan))
			continue
		}
		items = append(items, exerciseItem(plan, sets))
	}

	if len(items) == 0 {
		return DomainScore{}, skipped, false
	}
	return NewDomainScore(DomainTraining, items), skipped, true
}

func exerciseLabel(plan ExercisePlan) string {
	if plan.Name != "" {
		return plan.Name
	}
	return plan.ExerciseID
}

// exerciseItem averages the set count accuracy with the mean rep range accuracy.
func exerciseItem(plan ExercisePlan, sets []ExerciseSet) ItemScore {
	setResult := SetCountAccuracy(plan.TargetSets, len(sets))
	details := []ItemScore{{
		Label:   labelSets,
		Kind:    KindSetCount,
		Unit:    unitSets,
		Planned: float64(plan.TargetSets),
		Real:    float64(len(sets)),
		Result:  setResult,
	}}

	repAccuracies := make([]float64, 0, len(sets))
	for _, s := range sets {
		res := RepRangeAccuracy(plan.RepRangeMin, plan.RepRangeMax, s.Reps)
		repAccuracies = append(repAccuracies, res.Accuracy)
		details = append(details, ItemScore{
			Label:      unitReps,
			Kind:       KindRepRange,
			Unit:       unitReps,
			Planned:    float64(plan.RepRangeMin),
			PlannedMax: float64(plan.RepRangeMax),
			Real:       float64(s.Reps),
			Result:     res,
		})
	}

	acc := math.Round((setResult.Accuracy + mean(repAccuracies)) / 2)
	return ItemScore{
		Label:   exerciseLabel(plan),
		Kind:    KindSetCount,
		Unit:    unitSets,
		Planned: float64(plan.TargetSets),
		Real:    float64(len(sets)),
		Result:  AccuracyResult{Accuracy: acc, Tier: TierForAccuracy(acc)},
		Details: details,
	}
}

func sleepScore(logs DayLogs) (DomainScore, bool) {
	if logs.Sleep == nil {
		return DomainScore{}, false
	}
	sl := logs.Sleep
	return NewDomainScore(DomainSleep, []ItemScore{
		ScoreSample(MetricSample{
			Kind:         KindTimeOfDay,
			Label:        labelBedtime,
			PlannedClock: sl.PlannedBedtime,
			RealClock:    sl.RealBedtime,
		}),
		ScoreSample(MetricSample{
			Kind:    KindGeneralQuantity,
			Label:   labelSleep,
			Unit:    unitHours,
			Planned: sl.PlannedHours,
			Real:    sl.RealHours,
		}),
	}), true
}

func supplementsScore(logs DayLogs) (DomainScore, bool) {
	active := make(map[string]bool)
	for _, s := range logs.Supplements {
		if s.Active {
			active[s.ID] = true
		}
	}
	if len(active) == 0 {
		return DomainScore{}, false
	}

	taken := make(map[string]bool)
	for _, in := range logs.Intakes {
		if active[in.SupplementID] {
			taken[in.SupplementID] = true
		}
	}

	var details []ItemScore
	for _, s := range logs.Supplements {
		if !s.Active {
			continue
		}
		var got float64
		if taken[s.ID] {
			got = 1
		}
		label := s.Name
		if label == "" {
			label = s.ID
		}
		details = append(details, ScoreSample(MetricSample{
			Kind:    KindGeneralQuantity,
			Label:   label,
			Planned: 1,
			Real:    got,
		}))
	}

	item := ScoreSample(MetricSample{
		Kind:    KindGeneralQuantity,
		Label:   labelTaken,
		Unit:    unitSupplements,
		Planned: float64(len(active)),
		Real:    float64(len(taken)),
	})
	item.Details = details

	return NewDomainScore(DomainSupplements, []ItemScore{item}), true
}
