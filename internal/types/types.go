package types

// MatchType classifies why a CV skill was judged to satisfy a JD requirement
type MatchType string

const (
	MatchExact         MatchType = "exact"
	MatchSynonym       MatchType = "synonym"
	MatchHierarchical  MatchType = "hierarchical"
	MatchDomainContext MatchType = "domain_context"
	MatchTransferable  MatchType = "transferable"
)

// SkillSet represents the competencies extracted from one side (CV or job description)
type SkillSet struct {
	TechnicalSkills []string `json:"technicalSkills"`
	SoftSkills      []string `json:"softSkills"`
	DomainKeywords  []string `json:"domainKeywords"`
}

// TotalSkills returns the number of skills across all three categories
func (s SkillSet) TotalSkills() int {
	return len(s.TechnicalSkills) + len(s.SoftSkills) + len(s.DomainKeywords)
}

// SkillMatch represents one matched pair between a JD requirement and a CV equivalent
type SkillMatch struct {
	JDSkill      string    `json:"jdSkill"`
	CVEquivalent string    `json:"cvEquivalent"`
	MatchType    MatchType `json:"matchType"`
	Reasoning    string    `json:"reasoning"`
}

// MissingSkill represents an unmatched JD requirement with a short reason
type MissingSkill struct {
	Skill     string `json:"skill"`
	Reasoning string `json:"reasoning"`
}

// CategoryComparisonResult holds the comparison outcome for one skill category
type CategoryComparisonResult struct {
	Category         string         `json:"category"`
	Matched          []SkillMatch   `json:"matched"`
	Missing          []MissingSkill `json:"missing"`
	TotalRequired    int            `json:"totalRequired"`
	CVAvailable      int            `json:"cvAvailable"`
	MatchRatePercent float64        `json:"matchRatePercent"`
	Degraded         bool           `json:"degraded,omitempty"`
	Repaired         bool           `json:"repaired,omitempty"`
}

// ComparisonSummary aggregates counts across all categories
type ComparisonSummary struct {
	MatchedCount      int     `json:"matchedCount"`
	MissingCount      int     `json:"missingCount"`
	TotalRequirements int     `json:"totalRequirements"`
	MatchRatePercent  float64 `json:"matchRatePercent"`
}

// ComparisonReport is the full output of the semantic comparator
type ComparisonReport struct {
	Technical CategoryComparisonResult `json:"technical"`
	Soft      CategoryComparisonResult `json:"soft"`
	Domain    CategoryComparisonResult `json:"domain"`
	Summary   ComparisonSummary        `json:"summary"`
}

// ComponentScores is the flat mapping of named sub-scores consumed by the calculator.
// All values are 0-100 unless noted; bonus fields are signed point deltas.
type ComponentScores struct {
	SkillsRelevance             float64 `json:"skills_relevance"`
	ExperienceAlignment         float64 `json:"experience_alignment"`
	IndustryFit                 float64 `json:"industry_fit"`
	DomainOverlapPercentage     float64 `json:"domain_overlap_percentage"`
	DataFamiliarityScore        float64 `json:"data_familiarity_score"`
	StakeholderFitScore         float64 `json:"stakeholder_fit_score"`
	BusinessCycleAlignment      float64 `json:"business_cycle_alignment"`
	RoleSeniority               float64 `json:"role_seniority"`
	ExperienceMatchPercentage   float64 `json:"experience_match_percentage"`
	ResponsibilityFitPercentage float64 `json:"responsibility_fit_percentage"`
	LeadershipReadinessScore    float64 `json:"leadership_readiness_score"`
	GrowthTrajectoryScore       float64 `json:"growth_trajectory_score"`
	TechnicalDepth              float64 `json:"technical_depth"`
	CoreSkillsMatchPercentage   float64 `json:"core_skills_match_percentage"`
	TechnicalStackFitPercentage float64 `json:"technical_stack_fit_percentage"`
	ComplexityReadinessScore    float64 `json:"complexity_readiness_score"`
	LearningAgilityScore        float64 `json:"learning_agility_score"`
	RequirementsBonus           float64 `json:"requirements_bonus"`
	RequiredCoverage            float64 `json:"required_coverage"`
	PreferredCoverage           float64 `json:"preferred_coverage"`
}

// FitStatus classifies the final ATS score band
type FitStatus string

const (
	FitExcellent FitStatus = "excellent_fit"
	FitGood      FitStatus = "good_fit"
	FitModerate  FitStatus = "moderate_fit"
	FitPoor      FitStatus = "poor_fit"
)

// ATSScoreBreakdown is the final output record of the score calculator
type ATSScoreBreakdown struct {
	FinalATSScore  float64   `json:"final_ats_score"`
	CategoryStatus FitStatus `json:"category_status"`
	Recommendation string    `json:"recommendation"`

	Cat1Score   float64 `json:"cat1_score"`
	Cat2Score   float64 `json:"cat2_score"`
	BonusPoints float64 `json:"bonus_points"`

	TechnicalMatchRate float64 `json:"technical_match_rate"`
	SoftMatchRate      float64 `json:"soft_match_rate"`
	DomainMatchRate    float64 `json:"domain_match_rate"`

	TechnicalMissing int `json:"technical_missing"`
	SoftMissing      int `json:"soft_missing"`
	DomainMissing    int `json:"domain_missing"`

	// LowConfidence marks breakdowns computed with neutral defaults
	// substituted for absent analysis fragments.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// SkillAssessment is a single per-skill relevance judgment from the upstream analysis
type SkillAssessment struct {
	Skill          string  `json:"skill"`
	RelevanceScore float64 `json:"relevanceScore"` // 0-100
	Evidence       string  `json:"evidence,omitempty"`
}

// SkillsFragment is the skills portion of the upstream analysis
type SkillsFragment struct {
	Assessments      []SkillAssessment `json:"assessments"`
	StrengthAreas    []string          `json:"strengthAreas,omitempty"`
	ImprovementAreas []string          `json:"improvementAreas,omitempty"`
}

// ExperienceFragment compares CV years and level against the JD requirement
type ExperienceFragment struct {
	CVYears       float64 `json:"cvYears"`
	RequiredYears float64 `json:"requiredYears"`
	CVLevel       string  `json:"cvLevel"`       // "junior", "mid", "senior", "lead", "principal"
	RequiredLevel string  `json:"requiredLevel"` // same scale
	Progression   string  `json:"progression,omitempty"`
}

// IndustryFragment compares CV industry expertise against the JD's target industry
type IndustryFragment struct {
	CVIndustry              string  `json:"cvIndustry"`
	TargetIndustry          string  `json:"targetIndustry"`
	DomainOverlapPercentage float64 `json:"domainOverlapPercentage"`
	TransitionDifficulty    string  `json:"transitionDifficulty"` // "none", "easy", "moderate", "hard"
	DataFamiliarityScore    float64 `json:"dataFamiliarityScore"`
	StakeholderFitScore     float64 `json:"stakeholderFitScore"`
	BusinessCycleAlignment  float64 `json:"businessCycleAlignment"`
}

// SeniorityFragment carries the responsibility-scope and technical-sophistication analysis
type SeniorityFragment struct {
	CVLevel       string `json:"cvLevel"`
	RequiredLevel string `json:"requiredLevel"`

	ExperienceMatchPercentage   float64 `json:"experienceMatchPercentage"`
	ResponsibilityFitPercentage float64 `json:"responsibilityFitPercentage"`
	LeadershipReadinessScore    float64 `json:"leadershipReadinessScore"`
	GrowthTrajectoryScore       float64 `json:"growthTrajectoryScore"`

	CoreSkillsMatchPercentage   float64 `json:"coreSkillsMatchPercentage"`
	TechnicalStackFitPercentage float64 `json:"technicalStackFitPercentage"`
	ComplexityReadinessScore    float64 `json:"complexityReadinessScore"`
	LearningAgilityScore        float64 `json:"learningAgilityScore"`
}

// RequirementsFragment holds match counts for explicitly required and preferred keywords
type RequirementsFragment struct {
	RequiredMatched  int `json:"requiredMatched"`
	RequiredMissing  int `json:"requiredMissing"`
	PreferredMatched int `json:"preferredMatched"`
	PreferredMissing int `json:"preferredMissing"`
}

// AnalysisBundle groups the upstream analysis fragments for one (CV, JD) pair.
// Any fragment may be nil; extractors substitute neutral defaults.
type AnalysisBundle struct {
	Skills              *SkillsFragment       `json:"skills,omitempty"`
	Experience          *ExperienceFragment   `json:"experience,omitempty"`
	Industry            *IndustryFragment     `json:"industry,omitempty"`
	Seniority           *SeniorityFragment    `json:"seniority,omitempty"`
	Requirements        *RequirementsFragment `json:"requirements,omitempty"`
	StrategicAssessment string                `json:"strategicAssessment,omitempty"`
}

// CompareInput represents the input for comparing two skill sets
type CompareInput struct {
	CVSkills SkillSet `json:"cvSkills"`
	JDSkills SkillSet `json:"jdSkills"`
}

// ScoreInput represents the input for the full scoring pipeline
type ScoreInput struct {
	CVSkills SkillSet        `json:"cvSkills"`
	JDSkills SkillSet        `json:"jdSkills"`
	Analysis *AnalysisBundle `json:"analysis,omitempty"`
}

// ScoreResult represents the output of the full scoring pipeline
type ScoreResult struct {
	Comparison ComparisonReport  `json:"comparison"`
	Scores     ComponentScores   `json:"scores"`
	Breakdown  ATSScoreBreakdown `json:"breakdown"`
}

// RecommendationBundle is the assembled context the prompt builder renders
type RecommendationBundle struct {
	Comparison          ComparisonReport  `json:"comparison"`
	Scores              ComponentScores   `json:"scores"`
	Breakdown           ATSScoreBreakdown `json:"breakdown"`
	StrategicAssessment string            `json:"strategicAssessment,omitempty"`
}

// RecommendationPrompt wraps the rendered prompt document
type RecommendationPrompt struct {
	Prompt string `json:"prompt"`
}
