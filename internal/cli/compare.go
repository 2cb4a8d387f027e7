package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"skillfit/internal/common"
	"skillfit/internal/types"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [cv-skills-file] [jd-skills-file]",
	Short: "Compare CV skills against job description requirements",
	Long: `Compare a candidate's skills against a job description's requirements.
The command takes two arguments: the path to the CV skill set file and the
path to the JD skill set file. Both files must be JSON documents with
technicalSkills, softSkills, and domainKeywords arrays.

Each JD requirement is matched against the CV at the strongest justifiable
equivalence tier: exact, synonym, hierarchical, domain_context, or
transferable. Unmatched requirements are reported as missing with a reason.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if compareConfig.OutputFormat == "" {
			compareConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(compareConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runCompare,
}

var compareConfig common.CommandConfig

func init() {
	compareCmd.Flags().StringVarP(&compareConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	compareCmd.Flags().StringVar(&compareConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = compareCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// parseSkillSet unmarshals one skill set document. An empty set is legal on
// its own; the engine rejects the pair only when both sides are empty.
func parseSkillSet(content, label string) (types.SkillSet, error) {
	var skillSet types.SkillSet
	if err := json.Unmarshal([]byte(content), &skillSet); err != nil {
		return types.SkillSet{}, fmt.Errorf("invalid %s skill set JSON: %w", label, err)
	}
	return skillSet, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (types.CompareInput, error) {
		if len(contents) != 2 {
			return types.CompareInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		cvSkills, err := parseSkillSet(contents[0], "CV")
		if err != nil {
			return types.CompareInput{}, err
		}
		jdSkills, err := parseSkillSet(contents[1], "JD")
		if err != nil {
			return types.CompareInput{}, err
		}
		return types.CompareInput{CVSkills: cvSkills, JDSkills: jdSkills}, nil
	}

	logDetails := func(input types.CompareInput, cfg common.CommandConfig) {
		logger.Info("Starting skills comparison",
			"cv_technical", len(input.CVSkills.TechnicalSkills),
			"jd_technical", len(input.JDSkills.TechnicalSkills),
			"matcher_mode", getConfigFromContext(cmd.Context()).Engine.Matcher.Mode,
			"output_format", cfg.OutputFormat)
	}

	compareOperation := func(ctx context.Context, input types.CompareInput) (types.ComparisonReport, error) {
		report, err := eng.Compare(ctx, input.CVSkills, input.JDSkills)
		if err != nil {
			return types.ComparisonReport{}, err
		}
		return *report, nil
	}

	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		compareConfig,
		args,
		createInput,
		compareOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to compare skills: %w", err)
	}
	logger.Info("Skills comparison completed successfully")
	return nil
}
