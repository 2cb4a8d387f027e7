package engine

import (
	"fmt"
	"reflect"
	"sort"

	"skillfit/internal/types"
)

// ValidateReport lists every consistency violation in a comparison report
// against the skill sets it claims to describe. A clean report returns nil.
func ValidateReport(report *types.ComparisonReport, cv, jd types.SkillSet) []error {
	var problems []error

	categories := []struct {
		result  *types.CategoryComparisonResult
		jdItems []string
		cvItems []string
	}{
		{&report.Technical, jd.TechnicalSkills, cv.TechnicalSkills},
		{&report.Soft, jd.SoftSkills, cv.SoftSkills},
		{&report.Domain, jd.DomainKeywords, cv.DomainKeywords},
	}

	for _, c := range categories {
		problems = append(problems, validateCategory(c.result, c.jdItems, c.cvItems)...)
	}

	return problems
}

func validateCategory(result *types.CategoryComparisonResult, jdItems, cvItems []string) []error {
	var problems []error
	jdItems = cleanList(jdItems)
	cvItems = cleanList(cvItems)

	jdKeys := keySet(jdItems)
	cvKeys := keySet(cvItems)

	seenJD := make(map[string]bool)
	seenCV := make(map[string]bool)

	for _, m := range result.Matched {
		jdKey := Normalize(m.JDSkill)
		cvKey := Normalize(m.CVEquivalent)

		if !jdKeys[jdKey] {
			problems = append(problems, fmt.Errorf("%s: matched skill %q is not a JD requirement", result.Category, m.JDSkill))
		}
		if seenJD[jdKey] {
			problems = append(problems, fmt.Errorf("%s: JD requirement %q matched more than once", result.Category, m.JDSkill))
		}
		seenJD[jdKey] = true

		if !cvKeys[cvKey] {
			problems = append(problems, fmt.Errorf("%s: CV equivalent %q is not in the CV skill set", result.Category, m.CVEquivalent))
		}
		if seenCV[cvKey] {
			problems = append(problems, fmt.Errorf("%s: CV skill %q consumed more than once", result.Category, m.CVEquivalent))
		}
		seenCV[cvKey] = true

		if _, ok := tierRank[m.MatchType]; !ok {
			problems = append(problems, fmt.Errorf("%s: unknown match type %q for %q", result.Category, m.MatchType, m.JDSkill))
		}
	}

	for _, miss := range result.Missing {
		missKey := Normalize(miss.Skill)
		if !jdKeys[missKey] {
			problems = append(problems, fmt.Errorf("%s: missing skill %q is not a JD requirement", result.Category, miss.Skill))
		}
		if seenJD[missKey] {
			problems = append(problems, fmt.Errorf("%s: JD requirement %q listed as both matched and missing", result.Category, miss.Skill))
		}
	}

	for _, jdItem := range jdItems {
		key := Normalize(jdItem)
		if !seenJD[key] && !containsMissing(result.Missing, key) {
			problems = append(problems, fmt.Errorf("%s: JD requirement %q is neither matched nor missing", result.Category, jdItem))
		}
	}

	if len(result.Matched) > len(cvItems) {
		problems = append(problems, fmt.Errorf("%s: %d matches exceed %d available CV skills", result.Category, len(result.Matched), len(cvItems)))
	}

	return problems
}

// Repair rebuilds a comparison report into canonical form: every JD
// requirement appears exactly once (matched or missing), every match points at
// a real CV skill consumed at most once, and counts and rates are recomputed.
// The rebuild is deterministic, so repairing twice yields the same report.
func Repair(report *types.ComparisonReport, cv, jd types.SkillSet) (*types.ComparisonReport, bool) {
	technical, techChanged := repairCategory(report.Technical, jd.TechnicalSkills, cv.TechnicalSkills)
	soft, softChanged := repairCategory(report.Soft, jd.SoftSkills, cv.SoftSkills)
	domain, domainChanged := repairCategory(report.Domain, jd.DomainKeywords, cv.DomainKeywords)

	repaired := &types.ComparisonReport{
		Technical: technical,
		Soft:      soft,
		Domain:    domain,
	}
	repaired.Summary = summarize(repaired)

	return repaired, techChanged || softChanged || domainChanged
}

func repairCategory(original types.CategoryComparisonResult, jdItems, cvItems []string) (types.CategoryComparisonResult, bool) {
	jdItems = cleanList(jdItems)
	cvItems = cleanList(cvItems)

	jdKeys := keySet(jdItems)
	cvKeys := keySet(cvItems)

	// Candidate matches ordered strongest tier first so that when more matches
	// are claimed than CV skills exist, the weakest claims are the ones demoted.
	type indexedMatch struct {
		index int
		match types.SkillMatch
	}
	candidates := make([]indexedMatch, 0, len(original.Matched))
	for i, m := range original.Matched {
		candidates = append(candidates, indexedMatch{index: i, match: m})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		ra, aOK := tierRank[a.match.MatchType]
		rb, bOK := tierRank[b.match.MatchType]
		if aOK != bOK {
			return aOK // known tiers outrank unknown ones
		}
		if ra != rb {
			return ra < rb
		}
		return a.index < b.index
	})

	kept := make(map[string]types.SkillMatch, len(candidates))
	consumedCV := make(map[string]bool, len(cvItems))
	demoted := make(map[string]string)

	for _, c := range candidates {
		m := c.match
		jdKey := Normalize(m.JDSkill)
		cvKey := Normalize(m.CVEquivalent)

		switch {
		case !jdKeys[jdKey]:
			// fabricated requirement, dropped entirely
		case !cvKeys[cvKey]:
			demoted[jdKey] = "claimed CV equivalent is not in the CV skill set"
		case consumedCV[cvKey]:
			demoted[jdKey] = "claimed CV equivalent already satisfies a stronger match"
		default:
			if _, dup := kept[jdKey]; dup {
				continue // duplicate claim for the same requirement, first (strongest) wins
			}
			if _, ok := tierRank[m.MatchType]; !ok {
				demoted[jdKey] = "match carried an unknown equivalence tier"
				continue
			}
			consumedCV[cvKey] = true
			kept[jdKey] = m
			delete(demoted, jdKey)
		}
	}

	originalMissing := make(map[string]string, len(original.Missing))
	for _, miss := range original.Missing {
		key := Normalize(miss.Skill)
		if _, ok := originalMissing[key]; !ok {
			originalMissing[key] = miss.Reasoning
		}
	}

	// canonical output order is JD list order
	result := types.CategoryComparisonResult{
		Category:      original.Category,
		Matched:       []types.SkillMatch{},
		Missing:       []types.MissingSkill{},
		TotalRequired: len(jdItems),
		CVAvailable:   len(cvItems),
		Degraded:      original.Degraded,
	}
	for _, jdItem := range jdItems {
		key := Normalize(jdItem)
		if m, ok := kept[key]; ok {
			result.Matched = append(result.Matched, m)
			continue
		}

		reason, wasDemoted := demoted[key]
		if !wasDemoted {
			if r, ok := originalMissing[key]; ok {
				reason = r
			} else {
				reason = "unclassified requirement, defaulted to missing"
			}
		}
		result.Missing = append(result.Missing, types.MissingSkill{Skill: jdItem, Reasoning: reason})
	}

	result.MatchRatePercent = matchRate(len(result.Matched), result.TotalRequired)

	changed := !categoriesEquivalent(original, result)
	result.Repaired = original.Repaired || changed

	return result, changed
}

// categoriesEquivalent compares the repair-relevant fields, ignoring the
// Repaired flag itself and treating nil and empty slices the same
func categoriesEquivalent(a, b types.CategoryComparisonResult) bool {
	normalize := func(c types.CategoryComparisonResult) types.CategoryComparisonResult {
		c.Repaired = false
		if c.Matched == nil {
			c.Matched = []types.SkillMatch{}
		}
		if c.Missing == nil {
			c.Missing = []types.MissingSkill{}
		}
		return c
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func keySet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[Normalize(item)] = true
	}
	return set
}

func containsMissing(missing []types.MissingSkill, key string) bool {
	for _, m := range missing {
		if Normalize(m.Skill) == key {
			return true
		}
	}
	return false
}
