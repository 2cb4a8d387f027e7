package engine

import (
	"context"
	"errors"
	"testing"

	"skillfit/internal/types"
)

// failingMatcher always errors, forcing the comparator into degraded matching
type failingMatcher struct{}

func (failingMatcher) Match(context.Context, MatchRequest) (*MatchProposal, error) {
	return nil, errors.New("matcher unavailable")
}

// rogueMatcher proposes CV skills that were never offered
type rogueMatcher struct{}

func (rogueMatcher) Match(_ context.Context, req MatchRequest) (*MatchProposal, error) {
	return &MatchProposal{
		Matched:      true,
		CVEquivalent: "Fabricated Skill",
		MatchType:    types.MatchSynonym,
		Reasoning:    "made up",
	}, nil
}

func TestCompareMixedCategories(t *testing.T) {
	comparator := NewComparator(nil, nil)

	cv := types.SkillSet{
		TechnicalSkills: []string{"Python", "React", "PostgreSQL"},
		SoftSkills:      []string{"Team Leadership", "Communication"},
		DomainKeywords:  []string{"Kubernetes"},
	}
	jd := types.SkillSet{
		TechnicalSkills: []string{"Python", "JavaScript", "Rust"},
		SoftSkills:      []string{"Leadership"},
		DomainKeywords:  []string{"cloud infrastructure"},
	}

	report, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tech := report.Technical
	if len(tech.Matched) != 2 || len(tech.Missing) != 1 {
		t.Fatalf("technical: got %d matched, %d missing, want 2 and 1", len(tech.Matched), len(tech.Missing))
	}
	if tech.Matched[0].JDSkill != "Python" || tech.Matched[0].MatchType != types.MatchExact {
		t.Errorf("expected Python as exact match, got %+v", tech.Matched[0])
	}
	if tech.Matched[1].JDSkill != "JavaScript" || tech.Matched[1].MatchType != types.MatchHierarchical {
		t.Errorf("expected JavaScript satisfied hierarchically by React, got %+v", tech.Matched[1])
	}
	if tech.Missing[0].Skill != "Rust" {
		t.Errorf("expected Rust missing, got %+v", tech.Missing[0])
	}
	if tech.MatchRatePercent < 66.6 || tech.MatchRatePercent > 66.7 {
		t.Errorf("technical match rate = %v, want ~66.7", tech.MatchRatePercent)
	}

	if len(report.Soft.Matched) != 1 || report.Soft.Matched[0].MatchType != types.MatchSynonym {
		t.Errorf("expected Leadership matched as synonym, got %+v", report.Soft.Matched)
	}
	if len(report.Domain.Matched) != 1 || report.Domain.Matched[0].MatchType != types.MatchDomainContext {
		t.Errorf("expected cloud infrastructure matched by domain context, got %+v", report.Domain.Matched)
	}

	if report.Summary.MatchedCount != 4 || report.Summary.MissingCount != 1 || report.Summary.TotalRequirements != 5 {
		t.Errorf("summary = %+v, want 4 matched, 1 missing of 5", report.Summary)
	}
}

func TestCompareConsumesEachCVSkillOnce(t *testing.T) {
	comparator := NewComparator(nil, nil)

	cv := types.SkillSet{TechnicalSkills: []string{"JavaScript"}}
	jd := types.SkillSet{TechnicalSkills: []string{"JavaScript", "JS"}}

	report, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tech := report.Technical
	if len(tech.Matched) != 1 {
		t.Fatalf("expected exactly one match for a single CV skill, got %d", len(tech.Matched))
	}
	if tech.Matched[0].JDSkill != "JavaScript" || tech.Matched[0].MatchType != types.MatchExact {
		t.Errorf("expected the exact match to win the CV skill, got %+v", tech.Matched[0])
	}
	if len(tech.Missing) != 1 || tech.Missing[0].Skill != "JS" {
		t.Errorf("expected JS to go missing once its candidate was consumed, got %+v", tech.Missing)
	}
}

func TestCompareStrongerTierWinsContestedSkill(t *testing.T) {
	comparator := NewComparator(nil, nil)

	// Both requirements want "Java": C# only transfers, "Java" is exact.
	cv := types.SkillSet{TechnicalSkills: []string{"Java"}}
	jd := types.SkillSet{TechnicalSkills: []string{"C#", "Java"}}

	report, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tech := report.Technical
	if len(tech.Matched) != 1 || tech.Matched[0].JDSkill != "Java" || tech.Matched[0].MatchType != types.MatchExact {
		t.Fatalf("expected exact Java match to win, got %+v", tech.Matched)
	}
	if len(tech.Missing) != 1 || tech.Missing[0].Skill != "C#" {
		t.Errorf("expected C# missing, got %+v", tech.Missing)
	}
}

func TestCompareEmptyCategoryRatesZero(t *testing.T) {
	comparator := NewComparator(nil, nil)

	cv := types.SkillSet{TechnicalSkills: []string{"Go"}}
	jd := types.SkillSet{TechnicalSkills: []string{"Go"}}

	report, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Soft.MatchRatePercent != 0 {
		t.Errorf("empty soft category rate = %v, want 0", report.Soft.MatchRatePercent)
	}
	if report.Soft.TotalRequired != 0 || len(report.Soft.Missing) != 0 {
		t.Errorf("empty soft category should have no requirements, got %+v", report.Soft)
	}
}

func TestCompareEmptyCVReportsEverythingMissing(t *testing.T) {
	comparator := NewComparator(nil, nil)

	jd := types.SkillSet{
		TechnicalSkills: []string{"Go", "Rust"},
		SoftSkills:      []string{"Leadership"},
	}

	report, err := comparator.Compare(context.Background(), types.SkillSet{}, jd)
	if err != nil {
		t.Fatalf("empty CV should still compare, got error: %v", err)
	}

	for _, result := range []types.CategoryComparisonResult{report.Technical, report.Soft, report.Domain} {
		if len(result.Matched) != 0 {
			t.Errorf("%s: matched %+v with an empty CV", result.Category, result.Matched)
		}
		if result.MatchRatePercent != 0 {
			t.Errorf("%s: rate = %v, want 0", result.Category, result.MatchRatePercent)
		}
		if len(result.Missing) != result.TotalRequired {
			t.Errorf("%s: %d missing of %d required, want all missing", result.Category, len(result.Missing), result.TotalRequired)
		}
	}
	if report.Summary.MissingCount != 3 || report.Summary.MatchedCount != 0 {
		t.Errorf("summary = %+v, want all 3 requirements missing", report.Summary)
	}
}

func TestCompareEmptyJDHasNoRequirements(t *testing.T) {
	comparator := NewComparator(nil, nil)

	cv := types.SkillSet{TechnicalSkills: []string{"Go"}}

	report, err := comparator.Compare(context.Background(), cv, types.SkillSet{})
	if err != nil {
		t.Fatalf("empty JD should still compare, got error: %v", err)
	}
	if report.Summary.TotalRequirements != 0 || report.Summary.MatchRatePercent != 0 {
		t.Errorf("summary = %+v, want zero requirements and zero rate", report.Summary)
	}
}

func TestCompareRejectsBothSkillSetsEmpty(t *testing.T) {
	comparator := NewComparator(nil, nil)

	if _, err := comparator.Compare(context.Background(), types.SkillSet{}, types.SkillSet{}); err == nil {
		t.Error("expected error when both skill sets are empty")
	}
}

func TestCompareFallsBackWhenMatcherFails(t *testing.T) {
	comparator := NewComparator(failingMatcher{}, nil)

	// In degraded mode only exact and containment survive. "AWS Lambda"
	// still covers "AWS", but the JS/JavaScript synonym is out of reach.
	cv := types.SkillSet{TechnicalSkills: []string{"AWS Lambda", "JS"}}
	jd := types.SkillSet{TechnicalSkills: []string{"AWS", "JavaScript"}}

	report, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tech := report.Technical
	if !tech.Degraded {
		t.Error("expected category to be marked degraded")
	}
	if len(tech.Matched) != 1 || tech.Matched[0].JDSkill != "AWS" || tech.Matched[0].MatchType != types.MatchHierarchical {
		t.Errorf("expected containment match for AWS, got %+v", tech.Matched)
	}
	if len(tech.Missing) != 1 || tech.Missing[0].Skill != "JavaScript" {
		t.Errorf("expected JavaScript missing without the synonym tables, got %+v", tech.Missing)
	}
}

func TestCompareRejectsUnofferedProposals(t *testing.T) {
	comparator := NewComparator(rogueMatcher{}, nil)

	cv := types.SkillSet{TechnicalSkills: []string{"AWS Lambda"}}
	jd := types.SkillSet{TechnicalSkills: []string{"AWS"}}

	report, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tech := report.Technical
	if !tech.Degraded {
		t.Error("expected category to be marked degraded")
	}
	for _, m := range tech.Matched {
		if m.CVEquivalent == "Fabricated Skill" {
			t.Fatalf("fabricated CV skill leaked into results: %+v", m)
		}
	}
	if len(tech.Matched) != 1 || tech.Matched[0].MatchType != types.MatchHierarchical {
		t.Errorf("expected degraded containment match to recover, got %+v", tech.Matched)
	}
}

func TestCompareIsDeterministic(t *testing.T) {
	comparator := NewComparator(nil, nil)

	cv := types.SkillSet{
		TechnicalSkills: []string{"React", "Vue", "JavaScript"},
		SoftSkills:      []string{"Communication"},
	}
	jd := types.SkillSet{
		TechnicalSkills: []string{"JavaScript", "React", "Angular"},
		SoftSkills:      []string{"Communication"},
	}

	first, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := comparator.Compare(context.Background(), cv, jd)
		if err != nil {
			t.Fatalf("unexpected error on run %d: %v", i, err)
		}
		if len(again.Technical.Matched) != len(first.Technical.Matched) {
			t.Fatalf("run %d: matched count changed from %d to %d", i, len(first.Technical.Matched), len(again.Technical.Matched))
		}
		for j := range first.Technical.Matched {
			if again.Technical.Matched[j] != first.Technical.Matched[j] {
				t.Fatalf("run %d: match %d changed from %+v to %+v", i, j, first.Technical.Matched[j], again.Technical.Matched[j])
			}
		}
	}
}
