// ABOUTME: CLI command to answer a question against the built index
// ABOUTME: Prints the grounded answer with its source citations
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"corpusqa/internal/core"
	"corpusqa/internal/llm"
)

var askTopK int

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the indexed corpus",
		Long: `Answer a question using only the indexed corpus.

Retrieves the nearest chunks for the question and generates an
answer grounded strictly in them. When the corpus does not cover
the question, the configured refusal sentence is returned instead.

Requires a built index (run build first) and OPENAI_API_KEY.

Examples:
  corpusqa ask "Sự kiện X diễn ra năm nào?"
  corpusqa ask --top-k 10 "Ai là người sáng lập?"
  corpusqa ask --format json "Tóm tắt chủ đề Y"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().IntVar(&askTopK, "top-k", 0, "Number of chunks to retrieve (default: from config)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if askTopK != 0 {
		if err := validatePositiveInt(askTopK, "top-k"); err != nil {
			return err
		}
		cfg.TopK = askTopK
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("initializing OpenAI client: %w", err)
	}

	pipeline, err := core.NewPipeline(cfg, client, client)
	if err != nil {
		return fmt.Errorf("loading pipeline: %w", err)
	}

	answer, err := pipeline.Ask(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
	if len(answer.Citations) > 0 && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "\nNguồn:")
		for _, c := range answer.Citations {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s)\n", truncate(c.URL, 80), c.Source)
		}
	}

	return nil
}
