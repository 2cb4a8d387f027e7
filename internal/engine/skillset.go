package engine

import (
	"strings"

	"skillfit/internal/errors"
	"skillfit/internal/types"
)

// Category names used across comparison results and metrics
const (
	CategoryTechnical = "technical"
	CategorySoft      = "soft"
	CategoryDomain    = "domain"
)

// NewSkillSet builds a validated, normalized skill set from raw extracted lists.
// An entirely empty skill set is rejected; empty individual categories are fine.
func NewSkillSet(technical, soft, domain []string) (types.SkillSet, error) {
	ss := types.SkillSet{
		TechnicalSkills: cleanList(technical),
		SoftSkills:      cleanList(soft),
		DomainKeywords:  cleanList(domain),
	}

	if len(ss.TechnicalSkills) == 0 && len(ss.SoftSkills) == 0 && len(ss.DomainKeywords) == 0 {
		return types.SkillSet{}, errors.NewValidationError(
			errors.ErrCodeInvalidSkillSet,
			"skill set has no entries in any category",
			nil,
		)
	}

	return ss, nil
}

// ValidateSkillSet checks an externally supplied skill set without rebuilding it
func ValidateSkillSet(ss types.SkillSet) error {
	total := len(cleanList(ss.TechnicalSkills)) + len(cleanList(ss.SoftSkills)) + len(cleanList(ss.DomainKeywords))
	if total == 0 {
		return errors.NewValidationError(
			errors.ErrCodeInvalidSkillSet,
			"skill set has no entries in any category",
			nil,
		)
	}
	return nil
}

// cleanList trims entries, drops empties, and removes duplicates by normalized key
// while preserving first-seen order and original casing
func cleanList(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := Normalize(trimmed)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// Normalize produces the canonical comparison key for a skill term: lowercase,
// trimmed, internal whitespace collapsed, punctuation stripped except '+' and
// '#' which distinguish terms like "C++" and "C#".
func Normalize(term string) string {
	var b strings.Builder
	b.Grow(len(term))

	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(term)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '#':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ', r == '\t', r == '-', r == '_', r == '/':
			// separators collapse to a single space
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			// other punctuation (periods in "Node.js", parens, commas) is dropped
		}
	}

	return strings.TrimRight(b.String(), " ")
}
