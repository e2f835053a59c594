package adherence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidClock is returned for clock values that are not a valid "HH:MM".
var ErrInvalidClock = errors.New("invalid clock value")

// Domain is one of the four areas a day is scored on.
type Domain string

const (
	DomainNutrition   Domain = "nutrition"
	DomainTraining    Domain = "training"
	DomainSleep       Domain = "sleep"
	DomainSupplements Domain = "supplements"
)

// Domains lists every domain in the order they are reported.
var Domains = []Domain{
	DomainNutrition,
	DomainTraining,
	DomainSleep,
	DomainSupplements,
}

// Tier buckets an accuracy score by how far it strays from the plan.
type Tier string

const (
	TierOnTarget Tier = "on-target"
	TierMinor    Tier = "minor-deviation"
	TierMajor    Tier = "major-deviation"
	TierCritical Tier = "critical"
)

// MetricKind selects the formula a MetricSample is scored with.
type MetricKind string

const (
	KindGeneralQuantity MetricKind = "general-quantity"
	KindTimeOfDay       MetricKind = "time-of-day"
	KindRepRange        MetricKind = "rep-range"
	KindSetCount        MetricKind = "set-count"
)

// Clock is a 24h wall-clock value, encoded as "HH:MM".
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24h "HH:MM" value.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("%w: hour in %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: minute in %q", ErrInvalidClock, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// MustParseClock is ParseClock for literals known to be valid; it panics otherwise.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Minutes returns the minutes elapsed since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidClock, err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MetricSample is a single planned vs real comparison.
// PlannedMax is only read for rep ranges, where Planned holds the lower bound.
// Time of day comparisons use the clock fields instead of the numeric ones.
type MetricSample struct {
	Kind         MetricKind `json:"kind"`
	Label        string     `json:"label"`
	Unit         string     `json:"unit,omitempty"`
	Planned      float64    `json:"planned"`
	PlannedMax   float64    `json:"plannedMax,omitempty"`
	Real         float64    `json:"real"`
	PlannedClock Clock      `json:"plannedClock"`
	RealClock    Clock      `json:"realClock"`
}

// AccuracyResult is a 0..100 score with its tier.
type AccuracyResult struct {
	Accuracy float64 `json:"accuracy"`
	Tier     Tier    `json:"tier"`
}

// ItemScore is one scored item inside a domain, e.g. a macro or an exercise.
// Details holds the sub-metrics the item score was derived from.
type ItemScore struct {
	Label      string         `json:"label"`
	Kind       MetricKind     `json:"kind"`
	Unit       string         `json:"unit,omitempty"`
	Planned    float64        `json:"planned"`
	PlannedMax float64        `json:"plannedMax,omitempty"`
	Real       float64        `json:"real"`
	Result     AccuracyResult `json:"result"`
	Details    []ItemScore    `json:"details,omitempty"`
}

// DomainScore is one domain of a day, scored as the mean of its items.
type DomainScore struct {
	Domain   Domain      `json:"domain"`
	Accuracy float64     `json:"accuracy"`
	Items    []ItemScore `json:"items"`
}

// MealScore is per meal drill-down detail; it never enters the day aggregate.
type MealScore struct {
	MealType string      `json:"mealType"`
	Accuracy float64     `json:"accuracy"`
	Items    []ItemScore `json:"items"`
}

// DayAdherence holds the scores of a single calendar day.
// GlobalAccuracy averages only the domains present in DomainScores.
type DayAdherence struct {
	Date             time.Time     `json:"date"`
	DomainScores     []DomainScore `json:"domainScores"`
	GlobalAccuracy   float64       `json:"globalAccuracy"`
	HasData          bool          `json:"hasData"`
	Meals            []MealScore   `json:"meals,omitempty"`
	SkippedExercises []string      `json:"skippedExercises,omitempty"`
}

// Domain returns the score of the given domain, if it was present that day.
func (d DayAdherence) Domain(domain Domain) (DomainScore, bool) {
	for _, ds := range d.DomainScores {
		if ds.Domain == domain {
			return ds, true
		}
	}
	return DomainScore{}, false
}

// MicrocycleAdherence rolls up a range of days. Days without data are listed
// but left out of the averages and of the best and worst day picks.
type MicrocycleAdherence struct {
	Days            []DayAdherence     `json:"days"`
	AverageAccuracy float64            `json:"averageAccuracy"`
	BestDay         *DayAdherence      `json:"bestDay,omitempty"`
	WorstDay        *DayAdherence      `json:"worstDay,omitempty"`
	DomainAverages  map[Domain]float64 `json:"domainAverages"`
}

// DaysWithData counts the days that contribute to the rollup.
func (m MicrocycleAdherence) DaysWithData() int {
	n := 0
	for _, d := range m.Days {
		if d.HasData {
			n++
		}
	}
	return n
}
