package engine

import (
	"context"
	"reflect"
	"testing"

	"skillfit/internal/types"
)

func TestValidateReportFlagsViolations(t *testing.T) {
	cv := types.SkillSet{TechnicalSkills: []string{"Go"}}
	jd := types.SkillSet{TechnicalSkills: []string{"Go", "Rust"}}

	report := &types.ComparisonReport{
		Technical: types.CategoryComparisonResult{
			Category: CategoryTechnical,
			Matched: []types.SkillMatch{
				{JDSkill: "Go", CVEquivalent: "Go", MatchType: types.MatchExact},
				{JDSkill: "Haskell", CVEquivalent: "Go", MatchType: types.MatchExact},
			},
			Missing: []types.MissingSkill{},
		},
	}

	problems := ValidateReport(report, cv, jd)
	if len(problems) == 0 {
		t.Fatal("expected violations, got none")
	}
	// fabricated requirement, double consumption, and Rust unaccounted for
	if len(problems) < 3 {
		t.Errorf("expected at least 3 violations, got %d: %v", len(problems), problems)
	}
}

func TestValidateReportCleanReport(t *testing.T) {
	comparator := NewComparator(nil, nil)
	cv := types.SkillSet{TechnicalSkills: []string{"Go", "React"}}
	jd := types.SkillSet{TechnicalSkills: []string{"Go", "JavaScript", "Rust"}}

	report, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problems := ValidateReport(report, cv, jd); len(problems) != 0 {
		t.Errorf("comparator output should validate cleanly, got: %v", problems)
	}
}

func TestRepairDropsFabricatedAndDuplicateMatches(t *testing.T) {
	cv := types.SkillSet{TechnicalSkills: []string{"Go", "Python"}}
	jd := types.SkillSet{TechnicalSkills: []string{"Go", "Python", "Rust"}}

	report := &types.ComparisonReport{
		Technical: types.CategoryComparisonResult{
			Category: CategoryTechnical,
			Matched: []types.SkillMatch{
				{JDSkill: "Go", CVEquivalent: "Go", MatchType: types.MatchExact, Reasoning: "identical"},
				{JDSkill: "Go", CVEquivalent: "Python", MatchType: types.MatchTransferable, Reasoning: "duplicate claim"},
				{JDSkill: "Haskell", CVEquivalent: "Go", MatchType: types.MatchExact, Reasoning: "fabricated requirement"},
			},
		},
	}

	repaired, changed := Repair(report, cv, jd)
	if !changed {
		t.Fatal("expected repair to report changes")
	}

	tech := repaired.Technical
	if !tech.Repaired {
		t.Error("expected Repaired flag on the category")
	}
	if len(tech.Matched) != 1 || tech.Matched[0].JDSkill != "Go" || tech.Matched[0].MatchType != types.MatchExact {
		t.Fatalf("expected only the exact Go match to survive, got %+v", tech.Matched)
	}
	// Python and Rust were never legitimately matched
	if len(tech.Missing) != 2 {
		t.Fatalf("expected Python and Rust missing, got %+v", tech.Missing)
	}
	if tech.Missing[0].Skill != "Python" || tech.Missing[1].Skill != "Rust" {
		t.Errorf("missing skills out of canonical order: %+v", tech.Missing)
	}
}

func TestRepairDemotesWeakestWhenCVOverconsumed(t *testing.T) {
	cv := types.SkillSet{TechnicalSkills: []string{"Java"}}
	jd := types.SkillSet{TechnicalSkills: []string{"Java", "C#"}}

	report := &types.ComparisonReport{
		Technical: types.CategoryComparisonResult{
			Category: CategoryTechnical,
			Matched: []types.SkillMatch{
				{JDSkill: "C#", CVEquivalent: "Java", MatchType: types.MatchTransferable, Reasoning: "transfers"},
				{JDSkill: "Java", CVEquivalent: "Java", MatchType: types.MatchExact, Reasoning: "identical"},
			},
		},
	}

	repaired, changed := Repair(report, cv, jd)
	if !changed {
		t.Fatal("expected repair to report changes")
	}

	tech := repaired.Technical
	if len(tech.Matched) != 1 || tech.Matched[0].MatchType != types.MatchExact {
		t.Fatalf("expected the exact match to keep the CV skill, got %+v", tech.Matched)
	}
	if len(tech.Missing) != 1 || tech.Missing[0].Skill != "C#" {
		t.Fatalf("expected the transferable claim demoted to missing, got %+v", tech.Missing)
	}
}

func TestRepairAddsUnclassifiedRequirements(t *testing.T) {
	cv := types.SkillSet{TechnicalSkills: []string{"Go"}}
	jd := types.SkillSet{TechnicalSkills: []string{"Go", "Rust"}}

	report := &types.ComparisonReport{
		Technical: types.CategoryComparisonResult{
			Category: CategoryTechnical,
			Matched: []types.SkillMatch{
				{JDSkill: "Go", CVEquivalent: "Go", MatchType: types.MatchExact, Reasoning: "identical"},
			},
			// Rust is neither matched nor missing
		},
	}

	repaired, _ := Repair(report, cv, jd)
	tech := repaired.Technical
	if len(tech.Missing) != 1 || tech.Missing[0].Skill != "Rust" {
		t.Fatalf("expected Rust added as missing, got %+v", tech.Missing)
	}
	if tech.Missing[0].Reasoning != "unclassified requirement, defaulted to missing" {
		t.Errorf("unexpected reasoning: %q", tech.Missing[0].Reasoning)
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	cv := types.SkillSet{
		TechnicalSkills: []string{"Go", "Python"},
		SoftSkills:      []string{"Communication"},
	}
	jd := types.SkillSet{
		TechnicalSkills: []string{"Go", "Rust", "Python"},
		SoftSkills:      []string{"Communication", "Leadership"},
	}

	messy := &types.ComparisonReport{
		Technical: types.CategoryComparisonResult{
			Category: CategoryTechnical,
			Matched: []types.SkillMatch{
				{JDSkill: "Go", CVEquivalent: "Go", MatchType: types.MatchExact},
				{JDSkill: "Go", CVEquivalent: "Python", MatchType: types.MatchSynonym},
				{JDSkill: "Rust", CVEquivalent: "Erlang", MatchType: types.MatchTransferable},
			},
		},
		Soft: types.CategoryComparisonResult{
			Category: CategorySoft,
			Matched: []types.SkillMatch{
				{JDSkill: "Communication", CVEquivalent: "Communication", MatchType: "bogus_tier"},
			},
		},
	}

	once, _ := Repair(messy, cv, jd)
	twice, changedAgain := Repair(once, cv, jd)

	if changedAgain {
		t.Error("second repair reported changes on canonical input")
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("repair not idempotent:\nfirst:  %+v\nsecond: %+v", once, twice)
	}
}

func TestRepairLeavesCleanReportUntouched(t *testing.T) {
	comparator := NewComparator(nil, nil)
	cv := types.SkillSet{TechnicalSkills: []string{"Go", "React"}}
	jd := types.SkillSet{TechnicalSkills: []string{"Go", "JavaScript"}}

	report, err := comparator.Compare(context.Background(), cv, jd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Compare already repairs, so a second pass must be a no-op
	repaired, changed := Repair(report, cv, jd)
	if changed {
		t.Error("expected no changes on an already canonical report")
	}
	if repaired.Technical.Repaired {
		t.Error("Repaired flag set on untouched category")
	}
	if !reflect.DeepEqual(report, repaired) {
		t.Errorf("canonical report altered:\nbefore: %+v\nafter:  %+v", report, repaired)
	}
}

func TestRepairRecomputesRates(t *testing.T) {
	cv := types.SkillSet{TechnicalSkills: []string{"Go"}}
	jd := types.SkillSet{TechnicalSkills: []string{"Go", "Rust"}}

	report := &types.ComparisonReport{
		Technical: types.CategoryComparisonResult{
			Category: CategoryTechnical,
			Matched: []types.SkillMatch{
				{JDSkill: "Go", CVEquivalent: "Go", MatchType: types.MatchExact},
			},
			Missing:          []types.MissingSkill{{Skill: "Rust", Reasoning: "absent"}},
			TotalRequired:    99,
			CVAvailable:      99,
			MatchRatePercent: 12.3,
		},
	}

	repaired, changed := Repair(report, cv, jd)
	if !changed {
		t.Fatal("expected count corrections to register as a change")
	}
	tech := repaired.Technical
	if tech.TotalRequired != 2 || tech.CVAvailable != 1 {
		t.Errorf("counts not recomputed: %+v", tech)
	}
	if tech.MatchRatePercent != 50 {
		t.Errorf("match rate = %v, want 50", tech.MatchRatePercent)
	}
}
