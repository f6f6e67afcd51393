package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lipisync/internal/translate"
)

var draftCmd = &cobra.Command{
	Use:   "draft [target_file]",
	Short: "Fill empty target cues with AI translations of the source",
	Long: `Draft a translation into the target track.

Source cues that no target cue covers get a new target cue with the same
timing, then every target cue without text receives a translation of the
source text aligned with it. Cues that already have text are left alone.

Examples:
  lipisync draft episode.es.srt -s episode.en.srt --target-language spanish
  lipisync draft episode.ja.ass -s episode.en.ass -t ja --provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().
		StringP("target-language", "t", "", "Language of the target track (required)")
	draftCmd.Flags().
		StringP("language", "l", "", "Language of the source track")
	draftCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	draftCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	draftCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	draftCmd.Flags().
		String("prompt", "", "Extra instructions for the translator")
	draftCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation workers")
	draftCmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Number of cues per API request")

	_ = draftCmd.MarkFlagRequired("target-language")
}

func runDraft(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	targetLang, _ := cmd.Flags().GetString("target-language")
	inputLang, _ := cmd.Flags().GetString("language")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	providerStr, _ := cmd.Flags().GetString("provider")
	prompt, _ := cmd.Flags().GetString("prompt")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	sourcePath, _ := cmd.Flags().GetString("source")

	if sourcePath == "" {
		return fmt.Errorf("a source track is required: use --source")
	}
	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" &&
		strings.EqualFold(strings.TrimSpace(inputLang), strings.TrimSpace(targetLang)) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}
	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	provider := translate.Provider(strings.ToLower(providerStr))
	if apiKey == "" {
		apiKey = os.Getenv(provider.APIKeyEnv())
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			provider.APIKeyEnv(),
		)
	}

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		Prompt:         prompt,
		BatchSize:      batchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	ws, err := loadWorkspace(cmd, args[0])
	if err != nil {
		return err
	}

	drafter := &translate.Drafter{
		Translator:  translator,
		Concurrency: concurrency,
		Logger:      logger,
	}
	res, err := drafter.Draft(ctx, ws.session)
	if err != nil {
		return err
	}

	output, err := ws.save(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Draft written: %s\n", output)
	fmt.Fprintf(out, "  Cues inserted: %d\n", res.Inserted)
	fmt.Fprintf(out, "  Cues translated: %d\n", res.Translated)
	if res.Skipped > 0 {
		fmt.Fprintf(out, "  Source cues without room: %d\n", res.Skipped)
	}
	return nil
}
