package adherence

import (
	"math"
)

const (
	minutesPerDay     = 24 * 60
	minutesHalfDay    = 12 * 60
	perfectAccuracy   = 100.0
	noAccuracy        = 0.0
	onTargetThreshold = 95.0
	minorThreshold    = 90.0
	majorThreshold    = 75.0
)

// toleranceBucket maps a deviation upper bound (inclusive) to a fixed score.
type toleranceBucket struct {
	maxDeviation int
	result       AccuracyResult
}

// Policy breakpoints. The last bucket of each table is open-ended.
var (
	timeOfDayBuckets = []toleranceBucket{
		{maxDeviation: 60, result: AccuracyResult{Accuracy: 100, Tier: TierOnTarget}},
		{maxDeviation: 120, result: AccuracyResult{Accuracy: 90, Tier: TierMinor}},
		{maxDeviation: math.MaxInt, result: AccuracyResult{Accuracy: 80, Tier: TierMajor}},
	}
	repRangeBuckets = []toleranceBucket{
		{maxDeviation: 0, result: AccuracyResult{Accuracy: 100, Tier: TierOnTarget}},
		{maxDeviation: 1, result: AccuracyResult{Accuracy: 95, Tier: TierMinor}},
		{maxDeviation: 2, result: AccuracyResult{Accuracy: 90, Tier: TierMinor}},
		{maxDeviation: math.MaxInt, result: AccuracyResult{Accuracy: 80, Tier: TierMajor}},
	}
	setCountBuckets = []toleranceBucket{
		{maxDeviation: 0, result: AccuracyResult{Accuracy: 100, Tier: TierOnTarget}},
		{maxDeviation: 1, result: AccuracyResult{Accuracy: 90, Tier: TierMinor}},
		{maxDeviation: math.MaxInt, result: AccuracyResult{Accuracy: 80, Tier: TierMajor}},
	}
)

func lookupBucket(buckets []toleranceBucket, deviation int) AccuracyResult {
	for _, b := range buckets {
		if deviation <= b.maxDeviation {
			return b.result
		}
	}
	return buckets[len(buckets)-1].result
}

// GeneralAccuracy scores a quantity against its planned value.
// Over and under shooting are penalised symmetrically and the result is floored at 0.
// The error is relative to |planned|, so a negative plan cannot score above 100.
func GeneralAccuracy(planned, real float64) float64 {
	if planned == 0 {
		if real == 0 {
			return perfectAccuracy
		}
		return noAccuracy
	}

	errorMargin := math.Abs(planned-real) / math.Abs(planned)
	accuracy := math.Round(perfectAccuracy - errorMargin*100)
	if accuracy < 0 || math.IsNaN(accuracy) {
		return noAccuracy
	}
	return accuracy
}

// Overshoot returns real as a percentage of planned, unclamped,
// so charts can draw progress beyond 100%.
func Overshoot(planned, real float64) float64 {
	if planned == 0 {
		if real == 0 {
			return perfectAccuracy
		}
		return noAccuracy
	}
	return math.Round(real / planned * 100)
}

// ClockDiffMinutes returns the absolute distance between two clock values,
// taking the shorter way around midnight.
func ClockDiffMinutes(a, b Clock) int {
	diff := a.Minutes() - b.Minutes()
	if diff < 0 {
		diff = -diff
	}
	if diff > minutesHalfDay {
		diff = minutesPerDay - diff
	}
	return diff
}

func TimeOfDayAccuracy(planned, real Clock) float64 {
	return lookupBucket(timeOfDayBuckets, ClockDiffMinutes(planned, real)).Accuracy
}

func timeOfDayResult(planned, real Clock) AccuracyResult {
	return lookupBucket(timeOfDayBuckets, ClockDiffMinutes(planned, real))
}

// RepDeviation returns how many reps real is outside [minReps, maxReps], 0 when inside.
func RepDeviation(minReps, maxReps, realReps int) int {
	switch {
	case realReps < minReps:
		return minReps - realReps
	case realReps > maxReps:
		return realReps - maxReps
	default:
		return 0
	}
}

func RepRangeAccuracy(minReps, maxReps, realReps int) AccuracyResult {
	return lookupBucket(repRangeBuckets, RepDeviation(minReps, maxReps, realReps))
}

func SetCountAccuracy(plannedSets, realSets int) AccuracyResult {
	diff := plannedSets - realSets
	if diff < 0 {
		diff = -diff
	}
	return lookupBucket(setCountBuckets, diff)
}

// TierForAccuracy buckets a continuous accuracy score.
func TierForAccuracy(accuracy float64) Tier {
	switch {
	case accuracy >= onTargetThreshold:
		return TierOnTarget
	case accuracy >= minorThreshold:
		return TierMinor
	case accuracy >= majorThreshold:
		return TierMajor
	default:
		return TierCritical
	}
}

// Evaluate scores a sample with the calculator matching its kind.
func Evaluate(sample MetricSample) AccuracyResult {
	switch sample.Kind {
	case KindTimeOfDay:
		return timeOfDayResult(sample.PlannedClock, sample.RealClock)
	case KindRepRange:
		return RepRangeAccuracy(
			int(math.Round(sample.Planned)),
			int(math.Round(sample.PlannedMax)),
			int(math.Round(sample.Real)),
		)
	case KindSetCount:
		return SetCountAccuracy(int(math.Round(sample.Planned)), int(math.Round(sample.Real)))
	default:
		acc := GeneralAccuracy(sample.Planned, sample.Real)
		return AccuracyResult{Accuracy: acc, Tier: TierForAccuracy(acc)}
	}
}

// ScoreSample evaluates a sample and keeps the compared values next to the result.
func ScoreSample(sample MetricSample) ItemScore {
	item := ItemScore{
		Label:      sample.Label,
		Kind:       sample.Kind,
		Unit:       sample.Unit,
		Planned:    sample.Planned,
		PlannedMax: sample.PlannedMax,
		Real:       sample.Real,
		Result:     Evaluate(sample),
	}
	if sample.Kind == KindTimeOfDay {
		item.Planned = float64(sample.PlannedClock.Minutes())
		item.Real = float64(sample.RealClock.Minutes())
		item.Unit = "min"
	}
	return item
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
