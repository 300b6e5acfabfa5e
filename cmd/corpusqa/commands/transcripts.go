// ABOUTME: CLI command to ingest video transcripts into the document store
// ABOUTME: Accepts video URLs and persists their transcripts as documents
package commands

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"corpusqa/internal/store"
	"corpusqa/internal/transcript"
)

var transcriptLangs []string

// NewTranscriptsCmd creates the transcripts command
func NewTranscriptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcripts <video-url>...",
		Short: "Ingest video transcripts into the corpus",
		Long: `Fetch transcripts for the given video URLs and store them as
documents alongside crawled pages. Run build afterwards to index
them.

Videos without a transcript in any preferred language are skipped,
not fatal.

Examples:
  corpusqa transcripts https://www.youtube.com/watch?v=abc123
  corpusqa transcripts --lang vi --lang en https://youtu.be/xyz789`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTranscripts,
	}

	cmd.Flags().StringArrayVar(&transcriptLangs, "lang", []string{"vi", "en"}, "Preferred transcript languages, in order")

	return cmd
}

func runTranscripts(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	docs, err := store.New(cfg.StorageRoot)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}

	fetcher := transcript.NewFetcher(30*time.Second, transcriptLangs)
	report, err := transcript.NewIngestor(fetcher, docs).Ingest(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("ingesting transcripts: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved:   %d\n", report.Saved)
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %d\n", report.Skipped)
	}

	return nil
}
