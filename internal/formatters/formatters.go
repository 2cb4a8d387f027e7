package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"skillfit/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ComparisonReport", &ComparisonTextFormatter{})
	registry.RegisterFormatter("markdown", "ComparisonReport", &ComparisonMarkdownFormatter{})
	registry.RegisterFormatter("text", "ScoreResult", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreResult", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "RecommendationPrompt", &PromptTextFormatter{})
	registry.RegisterFormatter("markdown", "RecommendationPrompt", &PromptTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ComparisonReport:
		return "ComparisonReport"
	case types.ScoreResult:
		return "ScoreResult"
	case types.RecommendationPrompt:
		return "RecommendationPrompt"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func writeCategoryText(output *strings.Builder, result types.CategoryComparisonResult) {
	output.WriteString(fmt.Sprintf("=== %s SKILLS ===\n", strings.ToUpper(result.Category)))
	output.WriteString(fmt.Sprintf("Match rate: %.1f%% (%d of %d required, %d available in CV)\n",
		result.MatchRatePercent, len(result.Matched), result.TotalRequired, result.CVAvailable))
	if result.Degraded {
		output.WriteString("Note: semantic matching degraded, rule-based fallback used\n")
	}
	output.WriteString("\n")

	if len(result.Matched) > 0 {
		output.WriteString("Matched:\n")
		for _, match := range result.Matched {
			output.WriteString(fmt.Sprintf("- %s <- %s (%s)\n", match.JDSkill, match.CVEquivalent, match.MatchType))
			if match.Reasoning != "" {
				output.WriteString(fmt.Sprintf("  %s\n", match.Reasoning))
			}
		}
		output.WriteString("\n")
	}

	if len(result.Missing) > 0 {
		output.WriteString("Missing:\n")
		for _, missing := range result.Missing {
			output.WriteString(fmt.Sprintf("- %s", missing.Skill))
			if missing.Reasoning != "" {
				output.WriteString(fmt.Sprintf(" (%s)", missing.Reasoning))
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}
}

// ComparisonTextFormatter handles text formatting for comparison reports
type ComparisonTextFormatter struct{}

func (ctf *ComparisonTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ComparisonReport)
	if !ok {
		return "", fmt.Errorf("expected ComparisonReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SKILLS COMPARISON ===\n\n")
	writeCategoryText(&output, result.Technical)
	writeCategoryText(&output, result.Soft)
	writeCategoryText(&output, result.Domain)

	output.WriteString("=== SUMMARY ===\n")
	output.WriteString(fmt.Sprintf("Matched: %d\n", result.Summary.MatchedCount))
	output.WriteString(fmt.Sprintf("Missing: %d\n", result.Summary.MissingCount))
	output.WriteString(fmt.Sprintf("Total requirements: %d\n", result.Summary.TotalRequirements))
	output.WriteString(fmt.Sprintf("Overall match rate: %.1f%%\n", result.Summary.MatchRatePercent))

	return output.String(), nil
}

func (ctf *ComparisonTextFormatter) SupportedType() string {
	return "ComparisonReport"
}

func writeCategoryMarkdown(output *strings.Builder, result types.CategoryComparisonResult) {
	title := strings.ToUpper(result.Category[:1]) + result.Category[1:]
	output.WriteString(fmt.Sprintf("## %s Skills\n\n", title))
	output.WriteString(fmt.Sprintf("**Match rate:** %.1f%% (%d of %d required, %d available in CV)\n\n",
		result.MatchRatePercent, len(result.Matched), result.TotalRequired, result.CVAvailable))
	if result.Degraded {
		output.WriteString("> Semantic matching degraded, rule-based fallback used.\n\n")
	}

	if len(result.Matched) > 0 {
		output.WriteString("### Matched\n\n")
		for _, match := range result.Matched {
			output.WriteString(fmt.Sprintf("- **%s** ← %s (_%s_)", match.JDSkill, match.CVEquivalent, match.MatchType))
			if match.Reasoning != "" {
				output.WriteString(fmt.Sprintf(": %s", match.Reasoning))
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(result.Missing) > 0 {
		output.WriteString("### Missing\n\n")
		for _, missing := range result.Missing {
			output.WriteString(fmt.Sprintf("- **%s**", missing.Skill))
			if missing.Reasoning != "" {
				output.WriteString(fmt.Sprintf(": %s", missing.Reasoning))
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}
}

// ComparisonMarkdownFormatter handles markdown formatting for comparison reports
type ComparisonMarkdownFormatter struct{}

func (cmf *ComparisonMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ComparisonReport)
	if !ok {
		return "", fmt.Errorf("expected ComparisonReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Skills Comparison\n\n")
	writeCategoryMarkdown(&output, result.Technical)
	writeCategoryMarkdown(&output, result.Soft)
	writeCategoryMarkdown(&output, result.Domain)

	output.WriteString("## Summary\n\n")
	output.WriteString(fmt.Sprintf("- **Matched:** %d\n", result.Summary.MatchedCount))
	output.WriteString(fmt.Sprintf("- **Missing:** %d\n", result.Summary.MissingCount))
	output.WriteString(fmt.Sprintf("- **Total requirements:** %d\n", result.Summary.TotalRequirements))
	output.WriteString(fmt.Sprintf("- **Overall match rate:** %.1f%%\n", result.Summary.MatchRatePercent))

	return output.String(), nil
}

func (cmf *ComparisonMarkdownFormatter) SupportedType() string {
	return "ComparisonReport"
}

// ScoreTextFormatter handles text formatting for scoring results
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreResult)
	if !ok {
		return "", fmt.Errorf("expected ScoreResult, got %T", data)
	}

	var output strings.Builder
	breakdown := result.Breakdown

	output.WriteString("=== ATS SCORE ===\n\n")
	output.WriteString(fmt.Sprintf("Final score: %.1f/100 (%s)\n", breakdown.FinalATSScore, breakdown.CategoryStatus))
	if breakdown.LowConfidence {
		output.WriteString("Confidence: low (neutral defaults substituted for missing analysis)\n")
	}
	output.WriteString("\n")

	output.WriteString("=== BREAKDOWN ===\n")
	output.WriteString(fmt.Sprintf("Skills match: %.2f points\n", breakdown.Cat1Score))
	output.WriteString(fmt.Sprintf("Experience and fit: %.2f points\n", breakdown.Cat2Score))
	output.WriteString(fmt.Sprintf("Requirements bonus: %+.2f points\n", breakdown.BonusPoints))
	output.WriteString("\n")

	output.WriteString("Match rates:\n")
	output.WriteString(fmt.Sprintf("- Technical: %.1f%% (%d missing)\n", breakdown.TechnicalMatchRate, breakdown.TechnicalMissing))
	output.WriteString(fmt.Sprintf("- Soft: %.1f%% (%d missing)\n", breakdown.SoftMatchRate, breakdown.SoftMissing))
	output.WriteString(fmt.Sprintf("- Domain: %.1f%% (%d missing)\n", breakdown.DomainMatchRate, breakdown.DomainMissing))
	output.WriteString("\n")

	output.WriteString("=== RECOMMENDATION ===\n")
	output.WriteString(breakdown.Recommendation)
	output.WriteString("\n")

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ScoreResult"
}

// ScoreMarkdownFormatter handles markdown formatting for scoring results
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreResult)
	if !ok {
		return "", fmt.Errorf("expected ScoreResult, got %T", data)
	}

	var output strings.Builder
	breakdown := result.Breakdown

	output.WriteString("# ATS Score\n\n")
	output.WriteString(fmt.Sprintf("**Final score:** %.1f/100 (_%s_)\n\n", breakdown.FinalATSScore, breakdown.CategoryStatus))
	if breakdown.LowConfidence {
		output.WriteString("> Low confidence: neutral defaults substituted for missing analysis.\n\n")
	}

	output.WriteString("## Breakdown\n\n")
	output.WriteString(fmt.Sprintf("- **Skills match:** %.2f points\n", breakdown.Cat1Score))
	output.WriteString(fmt.Sprintf("- **Experience and fit:** %.2f points\n", breakdown.Cat2Score))
	output.WriteString(fmt.Sprintf("- **Requirements bonus:** %+.2f points\n\n", breakdown.BonusPoints))

	output.WriteString("## Match Rates\n\n")
	output.WriteString("| Category | Match rate | Missing |\n|---|---|---|\n")
	output.WriteString(fmt.Sprintf("| Technical | %.1f%% | %d |\n", breakdown.TechnicalMatchRate, breakdown.TechnicalMissing))
	output.WriteString(fmt.Sprintf("| Soft | %.1f%% | %d |\n", breakdown.SoftMatchRate, breakdown.SoftMissing))
	output.WriteString(fmt.Sprintf("| Domain | %.1f%% | %d |\n\n", breakdown.DomainMatchRate, breakdown.DomainMissing))

	output.WriteString("## Recommendation\n\n")
	output.WriteString(breakdown.Recommendation)
	output.WriteString("\n")

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ScoreResult"
}

// PromptTextFormatter passes through the rendered recommendation prompt,
// which is already markdown
type PromptTextFormatter struct{}

func (ptf *PromptTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RecommendationPrompt)
	if !ok {
		return "", fmt.Errorf("expected RecommendationPrompt, got %T", data)
	}
	return result.Prompt, nil
}

func (ptf *PromptTextFormatter) SupportedType() string {
	return "RecommendationPrompt"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
