// ABOUTME: CLI command to build the vector index from the stored corpus
// ABOUTME: Chunks every document, embeds the chunks, and writes the index artifacts
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"corpusqa/internal/core"
	"corpusqa/internal/llm"
	"corpusqa/internal/store"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the vector index from stored documents",
		Long: `Chunk every stored document, embed the chunks in batches, and
write the index plus its metadata sidecar.

Building replaces the previous index atomically from the reader's
point of view: a running server keeps its loaded snapshot until
restarted.

Requires OPENAI_API_KEY.

Examples:
  corpusqa build
  corpusqa build --config ./config.yaml`,
		RunE: runBuild,
	}

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("initializing OpenAI client: %w", err)
	}

	docs, err := store.New(cfg.StorageRoot)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}

	stats, err := core.NewBuilder(cfg, docs, client).Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d document(s) as %d chunk(s), dimension %d\n",
			stats.Documents, stats.Chunks, stats.Dimension)
		fmt.Fprintf(cmd.OutOrStdout(), "Index:    %s\n", cfg.IndexPath())
		fmt.Fprintf(cmd.OutOrStdout(), "Metadata: %s\n", cfg.MetaPath())
	}

	return nil
}
