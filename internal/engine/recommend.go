package engine

import (
	"fmt"
	"strings"

	"skillfit/internal/types"
)

// AssemblePrompt renders a recommendation bundle into the prompt document a
// downstream language model consumes to write tailoring advice. The layout is
// stable so prompt output can be diffed across runs; absent values render as
// zeros or "N/A" rather than being omitted.
func AssemblePrompt(bundle types.RecommendationBundle) string {
	var b strings.Builder

	b.WriteString("You are an expert CV coach. Using the structured match data below, produce\n")
	b.WriteString("specific, actionable recommendations for tailoring this CV to the job.\n")
	b.WriteString("Prioritize the missing required skills, then reinforce matched skills with\n")
	b.WriteString("concrete evidence. Do not invent experience the CV does not support.\n\n")

	b.WriteString("## Overall Fit\n")
	fmt.Fprintf(&b, "- Final ATS score: %.1f / 100 (%s)\n", bundle.Breakdown.FinalATSScore, statusLabel(bundle.Breakdown.CategoryStatus))
	fmt.Fprintf(&b, "- Skills match contribution: %.1f points\n", bundle.Breakdown.Cat1Score)
	fmt.Fprintf(&b, "- Analysis contribution: %.1f points\n", bundle.Breakdown.Cat2Score)
	fmt.Fprintf(&b, "- Keyword bonus: %+.1f points\n", bundle.Breakdown.BonusPoints)
	if bundle.Breakdown.LowConfidence {
		b.WriteString("- Note: parts of the analysis were unavailable; neutral defaults were used.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Skills Comparison\n")
	writeCategorySection(&b, "Technical skills", bundle.Comparison.Technical)
	writeCategorySection(&b, "Soft skills", bundle.Comparison.Soft)
	writeCategorySection(&b, "Domain keywords", bundle.Comparison.Domain)

	b.WriteString("## Component Scores\n")
	fmt.Fprintf(&b, "- Skills relevance: %.1f\n", bundle.Scores.SkillsRelevance)
	fmt.Fprintf(&b, "- Experience alignment: %.1f\n", bundle.Scores.ExperienceAlignment)
	fmt.Fprintf(&b, "- Industry fit: %.1f\n", bundle.Scores.IndustryFit)
	fmt.Fprintf(&b, "- Role seniority: %.1f\n", bundle.Scores.RoleSeniority)
	fmt.Fprintf(&b, "- Technical depth: %.1f\n", bundle.Scores.TechnicalDepth)
	fmt.Fprintf(&b, "- Required keyword coverage: %.0f%%\n", bundle.Scores.RequiredCoverage)
	fmt.Fprintf(&b, "- Preferred keyword coverage: %.0f%%\n", bundle.Scores.PreferredCoverage)
	b.WriteString("\n")

	b.WriteString("## Strategic Assessment\n")
	assessment := strings.TrimSpace(bundle.StrategicAssessment)
	if assessment == "" {
		assessment = "N/A"
	}
	b.WriteString(assessment)
	b.WriteString("\n\n")

	b.WriteString("## Instructions\n")
	b.WriteString("1. List the 3-5 highest-impact changes, most impactful first.\n")
	b.WriteString("2. For each missing skill above, state whether to add it, reframe existing experience, or leave it.\n")
	b.WriteString("3. Suggest exact phrasing for the two weakest matched skills.\n")
	b.WriteString("4. Keep every suggestion grounded in the matched evidence above.\n")

	return b.String()
}

func writeCategorySection(b *strings.Builder, label string, result types.CategoryComparisonResult) {
	// percentages round to whole numbers here; the comparison report keeps
	// the one-decimal rate
	fmt.Fprintf(b, "### %s (%.0f%% matched, %d required, %d available)\n",
		label, result.MatchRatePercent, result.TotalRequired, result.CVAvailable)

	if len(result.Matched) == 0 {
		b.WriteString("Matched: none\n")
	} else {
		b.WriteString("Matched:\n")
		for _, m := range result.Matched {
			fmt.Fprintf(b, "- %q satisfied by %q (%s): %s\n", m.JDSkill, m.CVEquivalent, m.MatchType, m.Reasoning)
		}
	}

	if len(result.Missing) == 0 {
		b.WriteString("Missing: none\n")
	} else {
		b.WriteString("Missing:\n")
		for _, miss := range result.Missing {
			fmt.Fprintf(b, "- %q: %s\n", miss.Skill, miss.Reasoning)
		}
	}

	if result.Degraded {
		b.WriteString("Note: semantic matching was degraded for this category; tiers may be conservative.\n")
	}
	b.WriteString("\n")
}

func statusLabel(status types.FitStatus) string {
	if status == "" {
		return "N/A"
	}
	return strings.ReplaceAll(string(status), "_", " ")
}
