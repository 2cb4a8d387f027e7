package ai

import (
	"fmt"
	"strings"
)

// matchSystemPrompt instructs the model on the equivalence tiers and their
// precedence. The tiers and their order must stay in sync with the engine's
// tier ranking.
const matchSystemPrompt = `You are an expert technical recruiter comparing a candidate's skills against a job requirement. Your core principles are:

- Only pick a candidate skill from the list you are given, verbatim
- Never invent skills the candidate does not list
- Classify the match honestly using exactly one of these tiers, from strongest to weakest:
  1. exact: the same skill under trivially different spelling
  2. synonym: industry-standard alternative names for the same skill
  3. hierarchical: the candidate skill is a specialization that implies the requirement
  4. domain_context: the candidate skill demonstrates working knowledge of the requirement's domain
  5. transferable: the candidate skill is adjacent enough that the requirement is a short ramp-up
- When several candidate skills qualify, pick the one with the strongest tier
- When no candidate skill qualifies at any tier, report no match`

// matchUserPromptTemplate expects category, JD skill, and candidate list
const matchUserPromptTemplate = `Job requirement (%s category): %s

Candidate's unmatched skills:
%s

Decide whether any of the candidate's skills satisfies this requirement and classify the match.`

// buildMatchUserPrompt renders the user prompt for one match request
func buildMatchUserPrompt(input MatchSkillInput) string {
	var candidates strings.Builder
	for _, skill := range input.CVCandidates {
		candidates.WriteString("- ")
		candidates.WriteString(skill)
		candidates.WriteString("\n")
	}
	return fmt.Sprintf(matchUserPromptTemplate, input.Category, input.JDSkill, strings.TrimRight(candidates.String(), "\n"))
}
