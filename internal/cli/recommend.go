package cli

import (
	"context"
	"fmt"

	"skillfit/internal/common"
	"skillfit/internal/types"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [cv-skills-file] [jd-skills-file] [analysis-file]",
	Short: "Assemble a recommendation prompt from the scoring results",
	Long: `Score a candidate against a job description and assemble the
recommendation prompt that downstream coaching tools feed to a language
model. The prompt embeds the comparison report, the component scores, the
final breakdown, and the strategic assessment when one is provided.

Takes the same arguments as the score command: CV skill set, JD skill set,
and an optional analysis bundle, all as JSON files.`,
	Args: cobra.RangeArgs(2, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if recommendConfig.OutputFormat == "" {
			recommendConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(recommendConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRecommend,
}

var recommendConfig common.CommandConfig

func init() {
	recommendCmd.Flags().StringVarP(&recommendConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	recommendCmd.Flags().StringVar(&recommendConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = recommendCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	logDetails := func(input types.ScoreInput, cfg common.CommandConfig) {
		logger.Info("Assembling recommendation prompt",
			"has_analysis", input.Analysis != nil,
			"output_format", cfg.OutputFormat)
	}

	recommendOperation := func(ctx context.Context, input types.ScoreInput) (types.RecommendationPrompt, error) {
		prompt, result, err := eng.Recommend(ctx, input)
		if err != nil {
			return types.RecommendationPrompt{}, err
		}
		logger.Info("Recommendation context scored",
			"final_score", result.Breakdown.FinalATSScore,
			"status", result.Breakdown.CategoryStatus)
		return *prompt, nil
	}

	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		recommendConfig,
		args,
		parseScoreInput,
		recommendOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to assemble recommendation: %w", err)
	}
	logger.Info("Recommendation prompt assembled successfully")
	return nil
}
