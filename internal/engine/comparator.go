package engine

import (
	"context"
	"math"
	"sort"

	"skillfit/internal/errors"
	"skillfit/internal/types"
)

// Comparator produces a tiered comparison of CV skills against JD requirements.
// It consults a SemanticMatcher for equivalence judgments and degrades to
// exact and containment matching when the matcher fails.
type Comparator struct {
	matcher SemanticMatcher
	logger  *errors.Logger
}

// NewComparator creates a comparator around the given matcher. A nil matcher
// means the built-in rule matcher is used directly.
func NewComparator(matcher SemanticMatcher, logger *errors.Logger) *Comparator {
	if matcher == nil {
		matcher = NewRuleMatcher()
	}
	return &Comparator{
		matcher: matcher,
		logger:  logger,
	}
}

// Compare runs the full three-category comparison. Each CV skill satisfies at
// most one JD requirement per category, and stronger equivalence tiers win
// contested CV skills. An empty CV or an empty JD still compares (all
// requirements go missing, or there are none); only both sides empty is an
// error, since no comparison can say anything about nothing.
func (c *Comparator) Compare(ctx context.Context, cv, jd types.SkillSet) (*types.ComparisonReport, error) {
	if cvErr, jdErr := ValidateSkillSet(cv), ValidateSkillSet(jd); cvErr != nil && jdErr != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidSkillSet,
			"both CV and JD skill sets are empty", jdErr)
	}

	report := &types.ComparisonReport{
		Technical: c.compareCategory(ctx, CategoryTechnical, jd.TechnicalSkills, cv.TechnicalSkills),
		Soft:      c.compareCategory(ctx, CategorySoft, jd.SoftSkills, cv.SoftSkills),
		Domain:    c.compareCategory(ctx, CategoryDomain, jd.DomainKeywords, cv.DomainKeywords),
	}
	report.Summary = summarize(report)

	return report, nil
}

// candidateProposal pairs a matcher proposal with the JD item it answers
type candidateProposal struct {
	jdIndex  int
	proposal *MatchProposal
}

func (c *Comparator) compareCategory(ctx context.Context, category string, jdItems, cvItems []string) types.CategoryComparisonResult {
	jdItems = cleanList(jdItems)
	cvItems = cleanList(cvItems)

	result := types.CategoryComparisonResult{
		Category:      category,
		Matched:       []types.SkillMatch{},
		Missing:       []types.MissingSkill{},
		TotalRequired: len(jdItems),
		CVAvailable:   len(cvItems),
	}

	consumed := make(map[string]bool, len(cvItems))
	matchedBy := make(map[int]*MatchProposal, len(jdItems))
	missingReason := make(map[int]string, len(jdItems))

	// exact pass: normalized identity never needs the matcher
	cvByKey := make(map[string]string, len(cvItems))
	for _, cv := range cvItems {
		key := Normalize(cv)
		if _, ok := cvByKey[key]; !ok {
			cvByKey[key] = cv
		}
	}
	for i, jdItem := range jdItems {
		key := Normalize(jdItem)
		if cv, ok := cvByKey[key]; ok && !consumed[key] {
			consumed[key] = true
			matchedBy[i] = &MatchProposal{
				Matched:      true,
				CVEquivalent: cv,
				MatchType:    types.MatchExact,
				Reasoning:    "identical after normalization",
			}
		}
	}

	// semantic rounds: propose for every unmatched requirement against the
	// unconsumed candidates, then settle contested candidates strongest tier
	// first. Losers retry next round with the reduced pool.
	for {
		remaining := unconsumedCandidates(cvItems, consumed)
		var proposals []candidateProposal

		for i, jdItem := range jdItems {
			if _, done := matchedBy[i]; done {
				continue
			}
			if _, miss := missingReason[i]; miss {
				continue
			}
			if len(remaining) == 0 {
				missingReason[i] = "no remaining CV skill to match against"
				continue
			}

			proposal := c.propose(ctx, category, jdItem, remaining)
			if proposal.degraded {
				result.Degraded = true
			}
			if !proposal.match.Matched {
				missingReason[i] = proposal.match.Reasoning
				continue
			}
			proposals = append(proposals, candidateProposal{jdIndex: i, proposal: proposal.match})
		}

		if len(proposals) == 0 {
			break
		}

		sort.SliceStable(proposals, func(a, b int) bool {
			ra, rb := tierRank[proposals[a].proposal.MatchType], tierRank[proposals[b].proposal.MatchType]
			if ra != rb {
				return ra < rb
			}
			return proposals[a].jdIndex < proposals[b].jdIndex
		})

		assigned := 0
		for _, p := range proposals {
			key := Normalize(p.proposal.CVEquivalent)
			if consumed[key] {
				continue // lost the contest, retries next round
			}
			consumed[key] = true
			matchedBy[p.jdIndex] = p.proposal
			assigned++
		}

		if assigned == 0 {
			break
		}
	}

	for i, jdItem := range jdItems {
		if proposal, ok := matchedBy[i]; ok {
			result.Matched = append(result.Matched, types.SkillMatch{
				JDSkill:      jdItem,
				CVEquivalent: proposal.CVEquivalent,
				MatchType:    proposal.MatchType,
				Reasoning:    proposal.Reasoning,
			})
			continue
		}
		reason := missingReason[i]
		if reason == "" {
			reason = "no CV skill matches at any equivalence tier"
		}
		result.Missing = append(result.Missing, types.MissingSkill{
			Skill:     jdItem,
			Reasoning: reason,
		})
	}

	result.MatchRatePercent = matchRate(len(result.Matched), result.TotalRequired)

	return result
}

type proposalOutcome struct {
	match    *MatchProposal
	degraded bool
}

// propose consults the primary matcher, validates its proposal, and degrades
// to exact and containment matching on failure or on a proposal naming a skill
// that was never offered
func (c *Comparator) propose(ctx context.Context, category, jdItem string, candidates []string) proposalOutcome {
	req := MatchRequest{Category: category, JDSkill: jdItem, CVCandidates: candidates}

	proposal, err := c.matcher.Match(ctx, req)
	if err == nil && proposal != nil {
		if !proposal.Matched || candidateOffered(candidates, proposal.CVEquivalent) {
			return proposalOutcome{match: proposal}
		}
		err = errors.NewInternalError(errors.ErrCodeMatchDegraded,
			"matcher proposed a CV skill outside the candidate list", nil).
			WithContext("proposed", proposal.CVEquivalent)
	}
	if err == nil {
		err = errors.NewInternalError(errors.ErrCodeMatchDegraded, "matcher returned no proposal", nil)
	}

	if c.logger != nil {
		c.logger.Warn("semantic matcher failed, degrading to exact and containment matching",
			"category", category,
			"jd_skill", jdItem,
			"error", err.Error(),
		)
	}

	return proposalOutcome{match: degradedMatch(jdItem, candidates), degraded: true}
}

// degradedMatch is the comparator's stand-in when the semantic matcher fails:
// exact and containment checks only, no rule tables. Weaker tiers simply go
// missing in degraded mode.
func degradedMatch(jdItem string, candidates []string) *MatchProposal {
	jdKey := Normalize(jdItem)
	if jdKey == "" {
		return &MatchProposal{Matched: false, Reasoning: "requirement is empty after normalization"}
	}

	for _, candidate := range candidates {
		if Normalize(candidate) == jdKey {
			return &MatchProposal{
				Matched:      true,
				CVEquivalent: candidate,
				MatchType:    types.MatchExact,
				Reasoning:    "identical after normalization",
			}
		}
	}
	for _, candidate := range candidates {
		if containsTerm(Normalize(candidate), jdKey) {
			return &MatchProposal{
				Matched:      true,
				CVEquivalent: candidate,
				MatchType:    types.MatchHierarchical,
				Reasoning:    "CV skill contains the required term",
			}
		}
	}

	return &MatchProposal{
		Matched:   false,
		Reasoning: "semantic matching unavailable, no exact or containment match",
	}
}

func candidateOffered(candidates []string, equivalent string) bool {
	key := Normalize(equivalent)
	for _, c := range candidates {
		if Normalize(c) == key {
			return true
		}
	}
	return false
}

func unconsumedCandidates(cvItems []string, consumed map[string]bool) []string {
	out := make([]string, 0, len(cvItems))
	for _, cv := range cvItems {
		if !consumed[Normalize(cv)] {
			out = append(out, cv)
		}
	}
	return out
}

// matchRate returns the match percentage rounded to one decimal place. An
// empty requirement list rates zero so it never inflates the weighted score.
func matchRate(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(matched)/float64(total)*1000) / 10
}

func summarize(report *types.ComparisonReport) types.ComparisonSummary {
	matched := len(report.Technical.Matched) + len(report.Soft.Matched) + len(report.Domain.Matched)
	missing := len(report.Technical.Missing) + len(report.Soft.Missing) + len(report.Domain.Missing)
	total := report.Technical.TotalRequired + report.Soft.TotalRequired + report.Domain.TotalRequired

	return types.ComparisonSummary{
		MatchedCount:      matched,
		MissingCount:      missing,
		TotalRequirements: total,
		MatchRatePercent:  matchRate(matched, total),
	}
}
