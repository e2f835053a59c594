package narrative

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/2beens/adherence/internal/adherence"
)

const (
	quantityTemplate    = "%s: %s of %s planned (%s %s, %.0f%%)"
	clockTemplate       = "%s: %s instead of %s (%d min %s, %.0f%%)"
	exerciseTemplate    = "%s: %s of %s sets, %d of %d sets outside %s-%s reps (%.0f%%)"
	supplementsTemplate = "%s: %s of %s (missed %s, %.0f%%)"
)

func describeItem(domain adherence.Domain, item adherence.ItemScore) string {
	switch {
	case item.Kind == adherence.KindTimeOfDay:
		return describeClock(item)
	case domain == adherence.DomainTraining && len(item.Details) > 0:
		return describeExercise(item)
	case domain == adherence.DomainSupplements && len(item.Details) > 0:
		return describeSupplements(item)
	default:
		return describeQuantity(item)
	}
}

func describeQuantity(item adherence.ItemScore) string {
	direction := "under"
	if item.Real > item.Planned {
		direction = "over"
	}
	return fmt.Sprintf(quantityTemplate,
		item.Label,
		withUnit(item.Real, item.Unit),
		withUnit(item.Planned, item.Unit),
		withUnit(math.Abs(item.Real-item.Planned), item.Unit),
		direction,
		item.Result.Accuracy,
	)
}

func describeClock(item adherence.ItemScore) string {
	planned := clockOf(item.Planned)
	got := clockOf(item.Real)

	// signed distance going the short way around midnight
	diff := got.Minutes() - planned.Minutes()
	switch {
	case diff > 12*60:
		diff -= 24 * 60
	case diff <= -12*60:
		diff += 24 * 60
	}
	direction := "late"
	if diff < 0 {
		direction = "early"
		diff = -diff
	}

	return fmt.Sprintf(clockTemplate, item.Label, got, planned, diff, direction, item.Result.Accuracy)
}

func describeExercise(item adherence.ItemScore) string {
	var repSets, offRange int
	var minReps, maxReps float64
	for _, d := range item.Details {
		if d.Kind != adherence.KindRepRange {
			continue
		}
		repSets++
		minReps, maxReps = d.Planned, d.PlannedMax
		if d.Result.Tier != adherence.TierOnTarget {
			offRange++
		}
	}
	return fmt.Sprintf(exerciseTemplate,
		item.Label,
		number(item.Real),
		number(item.Planned),
		offRange,
		repSets,
		number(minReps),
		number(maxReps),
		item.Result.Accuracy,
	)
}

func describeSupplements(item adherence.ItemScore) string {
	var missed []string
	for _, d := range item.Details {
		if d.Real == 0 {
			missed = append(missed, d.Label)
		}
	}
	if len(missed) == 0 {
		return describeQuantity(item)
	}
	return fmt.Sprintf(supplementsTemplate,
		item.Label,
		number(item.Real),
		number(item.Planned),
		strings.Join(missed, ", "),
		item.Result.Accuracy,
	)
}

func clockOf(minutes float64) adherence.Clock {
	m := int(math.Round(minutes))
	return adherence.Clock{Hour: (m / 60) % 24, Minute: m % 60}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func withUnit(v float64, unit string) string {
	switch unit {
	case "":
		return number(v)
	case "g", "h":
		return number(v) + unit
	default:
		return number(v) + " " + unit
	}
}
