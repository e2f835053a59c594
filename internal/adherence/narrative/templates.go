package narrative

import (
	"github.com/2beens/adherence/internal/adherence"
)

type Verdict string

const (
	VerdictExcellent Verdict = "excellent"
	VerdictGood      Verdict = "good"
	VerdictIrregular Verdict = "irregular"
	VerdictCritical  Verdict = "critical"
	VerdictNoData    Verdict = "no-data"
)

const (
	excellentThreshold = 95.0
	goodThreshold      = 90.0
	irregularThreshold = 75.0
)

// VerdictFor maps a global or average accuracy to its verdict tier.
func VerdictFor(accuracy float64) Verdict {
	switch {
	case accuracy >= excellentThreshold:
		return VerdictExcellent
	case accuracy >= goodThreshold:
		return VerdictGood
	case accuracy >= irregularThreshold:
		return VerdictIrregular
	default:
		return VerdictCritical
	}
}

// domainThresholds is the accuracy under which a domain gets its failing items listed.
var domainThresholds = map[adherence.Domain]float64{
	adherence.DomainNutrition:   90,
	adherence.DomainTraining:    90,
	adherence.DomainSleep:       90,
	adherence.DomainSupplements: 90,
}

func thresholdFor(domain adherence.Domain) float64 {
	if t, ok := domainThresholds[domain]; ok {
		return t
	}
	return goodThreshold
}

type Scope string

const (
	ScopeDay        Scope = "day"
	ScopeMicrocycle Scope = "microcycle"
)

var openingTemplates = map[Scope]map[Verdict]string{
	ScopeDay: {
		VerdictExcellent: "Excellent day: %.0f%% adherence to the plan.",
		VerdictGood:      "Good day: %.0f%% adherence, only small deviations.",
		VerdictIrregular: "Irregular day: %.0f%% adherence, several targets were missed.",
		VerdictCritical:  "Critical day: %.0f%% adherence, most of the plan was not followed.",
		VerdictNoData:    "Nothing was logged for this day.",
	},
	ScopeMicrocycle: {
		VerdictExcellent: "Excellent microcycle: %.0f%% average adherence.",
		VerdictGood:      "Good microcycle: %.0f%% average adherence with small deviations.",
		VerdictIrregular: "Irregular microcycle: %.0f%% average adherence, consistency varied from day to day.",
		VerdictCritical:  "Critical microcycle: %.0f%% average adherence, the plan was mostly not followed.",
		VerdictNoData:    "Nothing was logged in this period.",
	},
}

var closingTemplates = map[Verdict]string{
	VerdictExcellent: "Keep the current routine, it is working.",
	VerdictGood:      "Tighten the flagged items to reach excellent adherence.",
	VerdictIrregular: "Fix the flagged domains first, one habit at a time.",
	VerdictCritical:  "Check whether the plan is realistic and rebuild consistency with the basics.",
	VerdictNoData:    "Log meals, training, sleep and supplements to get a diagnosis.",
}

type SectionStatus string

const (
	StatusOnTrack    SectionStatus = "on-track"
	StatusDeviations SectionStatus = "deviations"
	StatusNoData     SectionStatus = "no-data"
)

var sectionTemplates = map[SectionStatus]string{
	StatusOnTrack:    "%s: %.0f%%, on track.",
	StatusDeviations: "%s: %.0f%%, below the %.0f%% target.",
	StatusNoData:     "%s: no data logged.",
}

var domainTitles = map[adherence.Domain]string{
	adherence.DomainNutrition:   "Nutrition",
	adherence.DomainTraining:    "Training",
	adherence.DomainSleep:       "Sleep",
	adherence.DomainSupplements: "Supplements",
}

const (
	bestDayTemplate          = "Best day: %s at %.0f%%."
	worstDayTemplate         = "Worst day: %s at %.0f%%."
	skippedExercisesTemplate = "planned but not trained: %s"
	skippedSectionTemplate   = "%s: no working sets logged for the planned exercises."
	recurringTemplate        = "%s missed on %d of %d days (average %.0f%%)"
	dayDateLayout            = "Mon 2 Jan 2006"
)
