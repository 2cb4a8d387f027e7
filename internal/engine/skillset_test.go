package engine

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase and trim", input: "  JavaScript  ", expected: "javascript"},
		{name: "keeps plus signs", input: "C++", expected: "c++"},
		{name: "keeps hash", input: "C#", expected: "c#"},
		{name: "drops dots", input: "Node.js", expected: "nodejs"},
		{name: "hyphen becomes space", input: "problem-solving", expected: "problem solving"},
		{name: "slash becomes space", input: "CI/CD", expected: "ci cd"},
		{name: "collapses whitespace", input: "machine   learning", expected: "machine learning"},
		{name: "drops parentheses", input: "SQL (advanced)", expected: "sql advanced"},
		{name: "underscore becomes space", input: "domain_context", expected: "domain context"},
		{name: "empty input", input: "   ", expected: ""},
		{name: "trailing separator trimmed", input: "react-", expected: "react"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewSkillSet(t *testing.T) {
	tests := []struct {
		name        string
		technical   []string
		soft        []string
		domain      []string
		expectError bool
	}{
		{
			name:      "all categories populated",
			technical: []string{"Go", "PostgreSQL"},
			soft:      []string{"Communication"},
			domain:    []string{"fintech"},
		},
		{
			name:   "single category is enough",
			domain: []string{"healthcare"},
		},
		{
			name:        "entirely empty",
			expectError: true,
		},
		{
			name:        "whitespace only entries",
			technical:   []string{"  ", "\t"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSkillSet(tt.technical, tt.soft, tt.domain)
			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewSkillSetDeduplicates(t *testing.T) {
	ss, err := NewSkillSet([]string{"Go", "go", " GO ", "Python"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ss.TechnicalSkills) != 2 {
		t.Fatalf("expected 2 technical skills after dedupe, got %d: %v", len(ss.TechnicalSkills), ss.TechnicalSkills)
	}
	if ss.TechnicalSkills[0] != "Go" {
		t.Errorf("expected first-seen casing preserved, got %q", ss.TechnicalSkills[0])
	}
}
