package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"skillfit/internal/errors"
	"skillfit/internal/types"
)

// MatchRequest asks a matcher whether any CV candidate satisfies one JD requirement
type MatchRequest struct {
	Category     string
	JDSkill      string
	CVCandidates []string
}

// MatchProposal is a matcher's judgment for a single JD requirement.
// Matched=false means no candidate qualifies at any tier.
type MatchProposal struct {
	Matched      bool
	CVEquivalent string
	MatchType    types.MatchType
	Reasoning    string
}

// SemanticMatcher judges skill equivalence. Implementations must be safe for
// concurrent use and must only propose CV equivalents drawn from the request's
// candidate list.
type SemanticMatcher interface {
	Match(ctx context.Context, req MatchRequest) (*MatchProposal, error)
}

// tierRank orders match types from strongest to weakest evidence
var tierRank = map[types.MatchType]int{
	types.MatchExact:         0,
	types.MatchSynonym:       1,
	types.MatchHierarchical:  2,
	types.MatchDomainContext: 3,
	types.MatchTransferable:  4,
}

// RuleTable is the on-disk shape of matcher rules. Synonym groups are
// interchangeable term lists; the map sections key a CV-side term to the JD-side
// terms it satisfies at that tier.
type RuleTable struct {
	Synonyms     [][]string          `mapstructure:"synonyms"`
	Hierarchy    map[string][]string `mapstructure:"hierarchy"`
	Domain       map[string][]string `mapstructure:"domain"`
	Transferable map[string][]string `mapstructure:"transferable"`
}

// compiledRules is the normalized lookup form of a RuleTable
type compiledRules struct {
	synonymGroup map[string]int
	hierarchy    map[string]map[string]struct{}
	domain       map[string]map[string]struct{}
	transferable map[string]map[string]struct{}
}

// RuleMatcher classifies matches using curated equivalence tables plus light
// morphology and containment heuristics. It is deterministic and reloadable
// at runtime, so a rules file can be edited while serving.
type RuleMatcher struct {
	mu    sync.RWMutex
	rules *compiledRules
}

// NewRuleMatcher creates a matcher preloaded with the built-in rule table
func NewRuleMatcher() *RuleMatcher {
	return &RuleMatcher{rules: compileRules(defaultRuleTable())}
}

// NewRuleMatcherFromFile creates a matcher whose rules extend the built-in
// table with entries from a YAML rules file
func NewRuleMatcherFromFile(path string) (*RuleMatcher, error) {
	m := NewRuleMatcher()
	if err := m.LoadRules(path); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadRules replaces the active rule table with the built-in defaults merged
// with the given rules file. In-flight Match calls keep the table they started
// with.
func (m *RuleMatcher) LoadRules(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read matcher rules file: %s", path), err)
	}

	var table RuleTable
	if err := v.Unmarshal(&table); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to parse matcher rules file: %s", path), err)
	}

	merged := mergeRuleTables(defaultRuleTable(), table)

	m.mu.Lock()
	m.rules = compileRules(merged)
	m.mu.Unlock()

	return nil
}

// Match implements SemanticMatcher. Tiers are tried strongest first and the
// first qualifying candidate (in request order) wins within each tier.
func (m *RuleMatcher) Match(_ context.Context, req MatchRequest) (*MatchProposal, error) {
	m.mu.RLock()
	rules := m.rules
	m.mu.RUnlock()

	jdKey := Normalize(req.JDSkill)
	if jdKey == "" {
		return &MatchProposal{Matched: false, Reasoning: "requirement is empty after normalization"}, nil
	}

	type check func(jdKey, cvKey string) (types.MatchType, string, bool)
	checks := []check{
		rules.checkExact,
		rules.checkSynonym,
		rules.checkHierarchical,
		rules.checkDomainContext,
		rules.checkTransferable,
	}

	for _, c := range checks {
		for _, candidate := range req.CVCandidates {
			cvKey := Normalize(candidate)
			if cvKey == "" {
				continue
			}
			if matchType, reason, ok := c(jdKey, cvKey); ok {
				return &MatchProposal{
					Matched:      true,
					CVEquivalent: candidate,
					MatchType:    matchType,
					Reasoning:    reason,
				}, nil
			}
		}
	}

	return &MatchProposal{
		Matched:   false,
		Reasoning: "no CV skill matches at any equivalence tier",
	}, nil
}

func (r *compiledRules) checkExact(jdKey, cvKey string) (types.MatchType, string, bool) {
	if jdKey == cvKey {
		return types.MatchExact, "identical after normalization", true
	}
	return "", "", false
}

func (r *compiledRules) checkSynonym(jdKey, cvKey string) (types.MatchType, string, bool) {
	if jdGroup, ok := r.synonymGroup[jdKey]; ok {
		if cvGroup, ok := r.synonymGroup[cvKey]; ok && jdGroup == cvGroup {
			return types.MatchSynonym, "terms belong to the same synonym group", true
		}
	}
	if singularize(jdKey) == singularize(cvKey) {
		return types.MatchSynonym, "singular and plural forms of the same term", true
	}
	return "", "", false
}

func (r *compiledRules) checkHierarchical(jdKey, cvKey string) (types.MatchType, string, bool) {
	if generals, ok := r.hierarchy[cvKey]; ok {
		if _, ok := generals[jdKey]; ok {
			return types.MatchHierarchical, "CV skill is a specialization of the requirement", true
		}
	}
	// "aws lambda" satisfies a bare "aws" requirement
	if containsTerm(cvKey, jdKey) {
		return types.MatchHierarchical, "CV skill contains the required term", true
	}
	return "", "", false
}

func (r *compiledRules) checkDomainContext(jdKey, cvKey string) (types.MatchType, string, bool) {
	if targets, ok := r.domain[cvKey]; ok {
		if _, ok := targets[jdKey]; ok {
			return types.MatchDomainContext, "CV skill implies the requirement in its working context", true
		}
	}
	return "", "", false
}

func (r *compiledRules) checkTransferable(jdKey, cvKey string) (types.MatchType, string, bool) {
	if targets, ok := r.transferable[cvKey]; ok {
		if _, ok := targets[jdKey]; ok {
			return types.MatchTransferable, "CV skill transfers to the requirement with ramp-up", true
		}
	}
	return "", "", false
}

// containsTerm reports whether haystack contains needle as a whole-token
// sequence. Both inputs are normalized keys.
func containsTerm(haystack, needle string) bool {
	if haystack == needle || needle == "" {
		return false
	}
	if !strings.Contains(haystack, needle) {
		return false
	}
	hayTokens := strings.Split(haystack, " ")
	needleTokens := strings.Split(needle, " ")
	for i := 0; i+len(needleTokens) <= len(hayTokens); i++ {
		match := true
		for j, nt := range needleTokens {
			if hayTokens[i+j] != nt {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// singularize strips common English plural suffixes. It only needs to be good
// enough for skill nouns ("databases", "analytics" stays put via the length
// guard on short words).
func singularize(key string) string {
	fields := strings.Split(key, " ")
	last := fields[len(fields)-1]
	switch {
	case len(last) > 4 && strings.HasSuffix(last, "ies"):
		last = last[:len(last)-3] + "y"
	case len(last) > 3 && strings.HasSuffix(last, "es") && !strings.HasSuffix(last, "ses"):
		last = last[:len(last)-2]
	case len(last) > 3 && strings.HasSuffix(last, "s") && !strings.HasSuffix(last, "ss"):
		last = last[:len(last)-1]
	}
	fields[len(fields)-1] = last
	return strings.Join(fields, " ")
}

func compileRules(table RuleTable) *compiledRules {
	r := &compiledRules{
		synonymGroup: make(map[string]int),
		hierarchy:    make(map[string]map[string]struct{}),
		domain:       make(map[string]map[string]struct{}),
		transferable: make(map[string]map[string]struct{}),
	}

	for i, group := range table.Synonyms {
		for _, term := range group {
			if key := Normalize(term); key != "" {
				r.synonymGroup[key] = i
			}
		}
	}

	compileSection := func(src map[string][]string, dst map[string]map[string]struct{}) {
		for from, tos := range src {
			fromKey := Normalize(from)
			if fromKey == "" {
				continue
			}
			set, ok := dst[fromKey]
			if !ok {
				set = make(map[string]struct{}, len(tos))
				dst[fromKey] = set
			}
			for _, to := range tos {
				if toKey := Normalize(to); toKey != "" {
					set[toKey] = struct{}{}
				}
			}
		}
	}

	compileSection(table.Hierarchy, r.hierarchy)
	compileSection(table.Domain, r.domain)
	compileSection(table.Transferable, r.transferable)

	return r
}

func mergeRuleTables(base, extra RuleTable) RuleTable {
	merged := RuleTable{
		Synonyms:     append(append([][]string{}, base.Synonyms...), extra.Synonyms...),
		Hierarchy:    mergeSections(base.Hierarchy, extra.Hierarchy),
		Domain:       mergeSections(base.Domain, extra.Domain),
		Transferable: mergeSections(base.Transferable, extra.Transferable),
	}
	return merged
}

func mergeSections(base, extra map[string][]string) map[string][]string {
	out := make(map[string][]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = append([]string{}, v...)
	}
	for k, v := range extra {
		out[k] = append(out[k], v...)
	}
	return out
}

// defaultRuleTable covers common software, data, and business terms so the
// matcher is useful without any rules file
func defaultRuleTable() RuleTable {
	return RuleTable{
		Synonyms: [][]string{
			{"javascript", "js", "ecmascript"},
			{"typescript", "ts"},
			{"kubernetes", "k8s"},
			{"postgresql", "postgres"},
			{"ci/cd", "continuous integration", "continuous delivery"},
			{"machine learning", "ml"},
			{"artificial intelligence", "ai"},
			{"amazon web services", "aws"},
			{"google cloud platform", "gcp", "google cloud"},
			{"user experience", "ux"},
			{"user interface", "ui"},
			{"golang", "go"},
			{"communication", "communication skills"},
			{"leadership", "team leadership", "people leadership"},
			{"problem solving", "problem-solving skills"},
			{"stakeholder management", "stakeholder engagement"},
			{"agile", "agile methodologies", "agile development"},
			{"rest", "rest apis", "restful apis"},
		},
		Hierarchy: map[string][]string{
			"react":         {"javascript", "frontend development"},
			"vue":           {"javascript", "frontend development"},
			"angular":       {"javascript", "typescript", "frontend development"},
			"django":        {"python", "backend development"},
			"flask":         {"python", "backend development"},
			"fastapi":       {"python", "backend development"},
			"spring boot":   {"java", "backend development"},
			"rails":         {"ruby", "backend development"},
			"pytorch":       {"machine learning", "python"},
			"tensorflow":    {"machine learning", "python"},
			"scikit learn":  {"machine learning", "python"},
			"pandas":        {"python", "data analysis"},
			"terraform":     {"infrastructure as code", "devops"},
			"ansible":       {"infrastructure as code", "devops"},
			"kubernetes":    {"container orchestration", "devops"},
			"docker":        {"containerization", "devops"},
			"postgresql":    {"sql", "relational databases"},
			"mysql":         {"sql", "relational databases"},
			"grpc":          {"apis", "distributed systems"},
			"kafka":         {"message queues", "event streaming"},
			"mentoring":     {"leadership"},
			"scrum":         {"agile"},
			"kanban":        {"agile"},
			"public speaking": {"communication", "presentation skills"},
		},
		Domain: map[string][]string{
			"kubernetes":     {"cloud infrastructure", "site reliability"},
			"terraform":      {"cloud infrastructure"},
			"airflow":        {"data pipelines", "etl"},
			"spark":          {"big data", "data pipelines"},
			"dbt":            {"data modeling", "etl"},
			"tableau":        {"data visualization", "business intelligence"},
			"power bi":       {"data visualization", "business intelligence"},
			"salesforce":     {"crm"},
			"jira":           {"project management"},
			"figma":          {"design systems", "product design"},
			"hipaa":          {"healthcare compliance"},
			"pci dss":        {"payments compliance", "fintech"},
			"elasticsearch":  {"search", "log analytics"},
			"prometheus":     {"monitoring", "observability"},
			"grafana":        {"monitoring", "observability"},
		},
		Transferable: map[string][]string{
			"java":       {"c#", "kotlin"},
			"c#":         {"java"},
			"python":     {"ruby"},
			"ruby":       {"python"},
			"mysql":      {"postgresql"},
			"postgresql": {"mysql"},
			"aws":        {"gcp", "azure"},
			"gcp":        {"aws", "azure"},
			"azure":      {"aws", "gcp"},
			"vue":        {"react"},
			"react":      {"vue"},
			"mongodb":    {"dynamodb"},
			"rabbitmq":   {"kafka"},
			"jenkins":    {"github actions", "gitlab ci"},
		},
	}
}
