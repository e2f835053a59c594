package adherence

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid adherence weights")

const weightsSumTolerance = 1e-6

// Weights sets how much each domain contributes to the global accuracy.
type Weights struct {
	Nutrition   float64 `json:"nutrition" toml:"nutrition"`
	Training    float64 `json:"training" toml:"training"`
	Sleep       float64 `json:"sleep" toml:"sleep"`
	Supplements float64 `json:"supplements" toml:"supplements"`
}

var DefaultWeights = Weights{
	Nutrition:   0.35,
	Training:    0.35,
	Sleep:       0.15,
	Supplements: 0.15,
}

func (w Weights) For(domain Domain) float64 {
	switch domain {
	case DomainNutrition:
		return w.Nutrition
	case DomainTraining:
		return w.Training
	case DomainSleep:
		return w.Sleep
	case DomainSupplements:
		return w.Supplements
	default:
		return 0
	}
}

func (w Weights) Sum() float64 {
	return w.Nutrition + w.Training + w.Sleep + w.Supplements
}

func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Validate is meant for configuration boundaries. Scoring functions never call it
// and compute whatever the given weights yield.
func (w Weights) Validate() error {
	for _, d := range Domains {
		if w.For(d) < 0 {
			return fmt.Errorf("%w: negative %s weight %.3f", ErrInvalidWeights, d, w.For(d))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightsSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, expected 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

// MacroPair is a planned/real pair of one macro nutrient.
type MacroPair struct {
	Planned float64 `json:"planned"`
	Real    float64 `json:"real"`
}

// MealMacroAverage is the rounded mean of the macro accuracies, 100 for no macros.
func MealMacroAverage(pairs []MacroPair) float64 {
	if len(pairs) == 0 {
		return perfectAccuracy
	}
	accuracies := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		accuracies = append(accuracies, GeneralAccuracy(p.Planned, p.Real))
	}
	return math.Round(mean(accuracies))
}

// GlobalAccuracy combines the four domain accuracies with the given weights.
// Callers must leave absent domains out beforehand (see WeightedAccuracy);
// nothing is renormalised.
func GlobalAccuracy(nutrition, training, sleep, supplements float64, w Weights) float64 {
	return math.Round(
		nutrition*w.Nutrition +
			training*w.Training +
			sleep*w.Sleep +
			supplements*w.Supplements,
	)
}

// WeightedAccuracy sums weight*accuracy over the domains present in scores.
// A missing domain contributes nothing, so its weight lowers the reachable maximum.
func WeightedAccuracy(scores map[Domain]float64, w Weights) float64 {
	var total float64
	for domain, acc := range scores {
		total += acc * w.For(domain)
	}
	return math.Round(total)
}

// NewDomainScore averages the item accuracies of a domain; no items means nothing was missed.
func NewDomainScore(domain Domain, items []ItemScore) DomainScore {
	ds := DomainScore{
		Domain:   domain,
		Accuracy: perfectAccuracy,
		Items:    items,
	}
	if len(items) == 0 {
		ds.Items = []ItemScore{}
		return ds
	}
	accuracies := make([]float64, 0, len(items))
	for _, it := range items {
		accuracies = append(accuracies, it.Result.Accuracy)
	}
	ds.Accuracy = math.Round(mean(accuracies))
	return ds
}
