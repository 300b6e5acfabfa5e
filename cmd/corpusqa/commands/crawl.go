// ABOUTME: CLI command to crawl configured seed sites into the document store
// ABOUTME: Prints a per-run report of saved, skipped, and failed pages
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"corpusqa/internal/crawler"
	"corpusqa/internal/store"
)

// NewCrawlCmd creates the crawl command
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the configured seed sites",
		Long: `Crawl the seed sites from the config file and persist matching
pages into the document store.

Pages are kept only when they stay inside the allowed domains, meet
the minimum length, and contain at least one configured keyword.
Re-crawling a URL overwrites its previous record.

Examples:
  corpusqa crawl
  corpusqa crawl --config ./config.yaml`,
		RunE: runCrawl,
	}

	return cmd
}

func runCrawl(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if len(cfg.Crawler.Seeds) == 0 {
		return fmt.Errorf("no seeds configured; add crawler.seeds to the config file")
	}

	docs, err := store.New(cfg.StorageRoot)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}

	report, err := crawler.New(cfg.Crawler, docs).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("crawling: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Crawl %s finished\n", report.RunID)
		fmt.Fprintf(cmd.OutOrStdout(), "Visited: %d\n", report.Visited)
		fmt.Fprintf(cmd.OutOrStdout(), "Saved:   %d\n", report.Saved)
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %d\n", report.Skipped)
		fmt.Fprintf(cmd.OutOrStdout(), "Failed:  %d\n", report.Failed)
	}

	return nil
}
