package scoring

import (
	"fmt"
	"strings"

	"vacmatch/internal/job"
	"vacmatch/internal/prefilter"
)

// Dimension weights in percent. The sum of the weighted dimensions, floored,
// is the only source of the overall score: whatever total the oracle reports
// is discarded. Salary alignment intentionally carries no weight.
const (
	weightSkills         = 25
	weightExperience     = 20
	weightEmploymentType = 25
	weightCommute        = 15
	weightCulture        = 10
	weightGrowth         = 5
)

// Employment-type fit below this value forces a hard rejection: the overall
// score is capped and the decision is pass regardless of other dimensions.
const (
	hardRejectBelow   = 30
	hardRejectCeiling = 25
)

// Decision thresholds on the recomputed overall score, inclusive on the lower
// bound of each band.
const (
	strongMatchThreshold = 80
	potentialThreshold   = 60
)

// Aggregate reconciles the oracle's dimensions with the prefilter verdict
// into the canonical result. It is pure: the input score is not modified.
// Steps always run in fixed order: pattern override, weighted recomputation,
// hard rejection, threshold classification.
func Aggregate(dims *job.Score, det prefilter.Detection, flagged bool) *job.Score {
	result := clone(dims)
	result.SchemaVersion = job.ScoreSchemaVersion
	clampDimensions(result)

	if flagged {
		result.EmploymentTypeFit = 0
		concern := fmt.Sprintf("CONSULTANCY DETECTED: found %q (%s)", det.Pattern, det.Reason)
		if !containsConcern(result.Concerns, concern) {
			result.Concerns = append([]string{concern}, result.Concerns...)
		}
	}

	overall := (result.SkillsMatch*weightSkills +
		result.ExperienceFit*weightExperience +
		result.EmploymentTypeFit*weightEmploymentType +
		result.CommuteFeasibility*weightCommute +
		result.CultureFit*weightCulture +
		result.GrowthPotential*weightGrowth) / 100

	if result.EmploymentTypeFit < hardRejectBelow {
		if overall > hardRejectCeiling {
			overall = hardRejectCeiling
		}
		result.Overall = overall
		result.Decision = job.DecisionPass
		if !hasConsultancyConcern(result.Concerns) {
			rejection := fmt.Sprintf("REJECTED: consultancy/secondment role (employment_type_fit < %d)", hardRejectBelow)
			result.Concerns = append([]string{rejection}, result.Concerns...)
		}
		return result
	}

	result.Overall = overall
	switch {
	case overall >= strongMatchThreshold:
		result.Decision = job.DecisionStrongMatch
	case overall >= potentialThreshold:
		result.Decision = job.DecisionPotential
	default:
		result.Decision = job.DecisionPass
	}

	return result
}

func clone(s *job.Score) *job.Score {
	if s == nil {
		return &job.Score{}
	}
	out := *s
	out.MatchHighlights = append([]string(nil), s.MatchHighlights...)
	out.Concerns = append([]string(nil), s.Concerns...)
	return &out
}

func clampDimensions(s *job.Score) {
	for _, dim := range []*int{
		&s.SkillsMatch,
		&s.ExperienceFit,
		&s.SalaryAlignment,
		&s.CultureFit,
		&s.GrowthPotential,
		&s.CommuteFeasibility,
		&s.EmploymentTypeFit,
	} {
		if *dim < 0 {
			*dim = 0
		}
		if *dim > 100 {
			*dim = 100
		}
	}
}

func containsConcern(concerns []string, concern string) bool {
	for _, c := range concerns {
		if c == concern {
			return true
		}
	}
	return false
}

// hasConsultancyConcern reports whether any existing concern already mentions
// the consultancy pattern, so the hard rejection does not add a duplicate.
func hasConsultancyConcern(concerns []string) bool {
	for _, c := range concerns {
		lowered := strings.ToLower(c)
		if strings.Contains(lowered, "consultancy") || strings.Contains(lowered, "klanten") {
			return true
		}
	}
	return false
}
