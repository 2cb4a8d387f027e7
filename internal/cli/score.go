package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"skillfit/internal/common"
	"skillfit/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [cv-skills-file] [jd-skills-file] [analysis-file]",
	Short: "Compute the ATS fit score for a CV against a job description",
	Long: `Compute the full ATS fit score for a candidate against a job description.
The command takes the CV skill set file, the JD skill set file, and an
optional analysis bundle file. All files must be JSON documents.

The analysis bundle carries upstream judgments (skill relevance, experience,
industry fit, seniority, explicit requirements). When a fragment is absent
the score is computed with neutral defaults and flagged as low confidence.`,
	Args: cobra.RangeArgs(2, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// parseScoreInput builds a ScoreInput from CV, JD, and optional analysis contents
func parseScoreInput(contents []string) (types.ScoreInput, error) {
	if len(contents) < 2 || len(contents) > 3 {
		return types.ScoreInput{}, fmt.Errorf("expected 2 or 3 file paths, got %d", len(contents))
	}

	cvSkills, err := parseSkillSet(contents[0], "CV")
	if err != nil {
		return types.ScoreInput{}, err
	}
	jdSkills, err := parseSkillSet(contents[1], "JD")
	if err != nil {
		return types.ScoreInput{}, err
	}

	input := types.ScoreInput{CVSkills: cvSkills, JDSkills: jdSkills}

	if len(contents) == 3 {
		var analysis types.AnalysisBundle
		if err := json.Unmarshal([]byte(contents[2]), &analysis); err != nil {
			return types.ScoreInput{}, fmt.Errorf("invalid analysis bundle JSON: %w", err)
		}
		input.Analysis = &analysis
	}

	return input, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	logDetails := func(input types.ScoreInput, cfg common.CommandConfig) {
		logger.Info("Starting ATS scoring",
			"has_analysis", input.Analysis != nil,
			"output_format", cfg.OutputFormat)
	}

	scoreOperation := func(ctx context.Context, input types.ScoreInput) (types.ScoreResult, error) {
		result, err := eng.Score(ctx, input)
		if err != nil {
			return types.ScoreResult{}, err
		}
		return *result, nil
	}

	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		scoreConfig,
		args,
		parseScoreInput,
		scoreOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score CV: %w", err)
	}
	logger.Info("ATS scoring completed successfully")
	return nil
}
