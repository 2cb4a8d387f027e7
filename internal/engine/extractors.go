package engine

import (
	"math"

	"skillfit/internal/types"
)

// neutralScore stands in for any component the upstream analysis did not provide
const neutralScore = 50.0

// seniorityRank orders recognized experience levels. Unrecognized levels fall
// back to a neutral level score.
var seniorityRank = map[string]int{
	"intern":    0,
	"junior":    1,
	"mid":       2,
	"senior":    3,
	"lead":      4,
	"principal": 5,
}

// transitionPenalty maps industry transition difficulty to points subtracted
// from the industry composite
var transitionPenalty = map[string]float64{
	"none":     0,
	"easy":     5,
	"moderate": 15,
	"hard":     30,
}

// NeutralComponentScores returns the scores used when no analysis is available
// at all: every 0-100 component sits at the neutral midpoint and the
// requirements bonus contributes nothing.
func NeutralComponentScores() types.ComponentScores {
	return types.ComponentScores{
		SkillsRelevance:             neutralScore,
		ExperienceAlignment:         neutralScore,
		IndustryFit:                 neutralScore,
		DomainOverlapPercentage:     neutralScore,
		DataFamiliarityScore:        neutralScore,
		StakeholderFitScore:         neutralScore,
		BusinessCycleAlignment:      neutralScore,
		RoleSeniority:               neutralScore,
		ExperienceMatchPercentage:   neutralScore,
		ResponsibilityFitPercentage: neutralScore,
		LeadershipReadinessScore:    neutralScore,
		GrowthTrajectoryScore:       neutralScore,
		TechnicalDepth:              neutralScore,
		CoreSkillsMatchPercentage:   neutralScore,
		TechnicalStackFitPercentage: neutralScore,
		ComplexityReadinessScore:    neutralScore,
		LearningAgilityScore:        neutralScore,
		RequirementsBonus:           0,
		RequiredCoverage:            neutralScore,
		PreferredCoverage:           neutralScore,
	}
}

// ExtractComponentScores runs every extractor over the analysis bundle. The
// second return value reports whether any fragment was absent and replaced with
// neutral defaults, which marks the final breakdown as low confidence.
func ExtractComponentScores(bundle *types.AnalysisBundle) (types.ComponentScores, bool) {
	scores := NeutralComponentScores()
	if bundle == nil {
		return scores, true
	}

	lowConfidence := false
	lowConfidence = !extractSkills(bundle.Skills, &scores) || lowConfidence
	lowConfidence = !extractExperience(bundle.Experience, &scores) || lowConfidence
	lowConfidence = !extractIndustry(bundle.Industry, &scores) || lowConfidence
	lowConfidence = !extractSeniority(bundle.Seniority, &scores) || lowConfidence
	lowConfidence = !extractRequirements(bundle.Requirements, &scores) || lowConfidence

	return scores, lowConfidence
}

// extractSkills averages per-skill relevance judgments into skills_relevance
func extractSkills(fragment *types.SkillsFragment, scores *types.ComponentScores) bool {
	if fragment == nil || len(fragment.Assessments) == 0 {
		return false
	}

	sum := 0.0
	for _, a := range fragment.Assessments {
		sum += clamp(a.RelevanceScore, 0, 100)
	}
	scores.SkillsRelevance = round1(sum / float64(len(fragment.Assessments)))
	return true
}

// extractExperience blends a years ratio with a level comparison into
// experience_alignment. Years at or above the requirement score full marks;
// below it they scale linearly.
func extractExperience(fragment *types.ExperienceFragment, scores *types.ComponentScores) bool {
	if fragment == nil {
		return false
	}

	yearsScore := 100.0
	if fragment.RequiredYears > 0 && fragment.CVYears < fragment.RequiredYears {
		yearsScore = 100 * fragment.CVYears / fragment.RequiredYears
	}
	if yearsScore < 0 {
		yearsScore = 0
	}

	levelScore := neutralScore
	cvRank, cvOK := seniorityRank[Normalize(fragment.CVLevel)]
	reqRank, reqOK := seniorityRank[Normalize(fragment.RequiredLevel)]
	if cvOK && reqOK {
		if cvRank >= reqRank {
			levelScore = 100
		} else {
			levelScore = clamp(100-25*float64(reqRank-cvRank), 0, 100)
		}
	}

	scores.ExperienceAlignment = round1(clamp(0.6*yearsScore+0.4*levelScore, 0, 100))
	return true
}

// extractIndustry composes the industry sub-scores and applies the transition
// difficulty penalty
func extractIndustry(fragment *types.IndustryFragment, scores *types.ComponentScores) bool {
	if fragment == nil {
		return false
	}

	scores.DomainOverlapPercentage = clamp(fragment.DomainOverlapPercentage, 0, 100)
	scores.DataFamiliarityScore = clamp(fragment.DataFamiliarityScore, 0, 100)
	scores.StakeholderFitScore = clamp(fragment.StakeholderFitScore, 0, 100)
	scores.BusinessCycleAlignment = clamp(fragment.BusinessCycleAlignment, 0, 100)

	composite := 0.4*scores.DomainOverlapPercentage +
		0.2*scores.DataFamiliarityScore +
		0.2*scores.StakeholderFitScore +
		0.2*scores.BusinessCycleAlignment

	penalty, ok := transitionPenalty[Normalize(fragment.TransitionDifficulty)]
	if !ok {
		penalty = 10
	}

	scores.IndustryFit = round1(clamp(composite-penalty, 0, 100))
	return true
}

// extractSeniority averages the responsibility-scope sub-scores into
// role_seniority and the sophistication sub-scores into technical_depth
func extractSeniority(fragment *types.SeniorityFragment, scores *types.ComponentScores) bool {
	if fragment == nil {
		return false
	}

	scores.ExperienceMatchPercentage = clamp(fragment.ExperienceMatchPercentage, 0, 100)
	scores.ResponsibilityFitPercentage = clamp(fragment.ResponsibilityFitPercentage, 0, 100)
	scores.LeadershipReadinessScore = clamp(fragment.LeadershipReadinessScore, 0, 100)
	scores.GrowthTrajectoryScore = clamp(fragment.GrowthTrajectoryScore, 0, 100)

	scores.RoleSeniority = round1((scores.ExperienceMatchPercentage +
		scores.ResponsibilityFitPercentage +
		scores.LeadershipReadinessScore +
		scores.GrowthTrajectoryScore) / 4)

	scores.CoreSkillsMatchPercentage = clamp(fragment.CoreSkillsMatchPercentage, 0, 100)
	scores.TechnicalStackFitPercentage = clamp(fragment.TechnicalStackFitPercentage, 0, 100)
	scores.ComplexityReadinessScore = clamp(fragment.ComplexityReadinessScore, 0, 100)
	scores.LearningAgilityScore = clamp(fragment.LearningAgilityScore, 0, 100)

	scores.TechnicalDepth = round1((scores.CoreSkillsMatchPercentage +
		scores.TechnicalStackFitPercentage +
		scores.ComplexityReadinessScore +
		scores.LearningAgilityScore) / 4)

	return true
}

// extractRequirements turns required/preferred keyword hits into the signed
// requirements bonus and coverage percentages. Required keywords weigh a full
// point each way; preferred keywords weigh half a point up and a quarter down.
func extractRequirements(fragment *types.RequirementsFragment, scores *types.ComponentScores) bool {
	if fragment == nil {
		return false
	}

	bonus := 1.0*float64(fragment.RequiredMatched) -
		1.0*float64(fragment.RequiredMissing) +
		0.5*float64(fragment.PreferredMatched) -
		0.25*float64(fragment.PreferredMissing)
	scores.RequirementsBonus = clamp(bonus, -10, 10)

	scores.RequiredCoverage = coverage(fragment.RequiredMatched, fragment.RequiredMissing)
	scores.PreferredCoverage = coverage(fragment.PreferredMatched, fragment.PreferredMissing)

	return true
}

func coverage(matched, missing int) float64 {
	total := matched + missing
	if total <= 0 {
		return 100
	}
	return round1(100 * float64(matched) / float64(total))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
