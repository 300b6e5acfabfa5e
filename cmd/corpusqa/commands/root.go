// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Wires verbose/quiet/format globals and the shared config path flag
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"corpusqa/internal/config"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
)

const banner = `
 ██████╗ ██████╗ ██████╗ ██████╗ ██╗   ██╗███████╗ ██████╗  █████╗
██╔════╝██╔═══██╗██╔══██╗██╔══██╗██║   ██║██╔════╝██╔═══██╗██╔══██╗
██║     ██║   ██║██████╔╝██████╔╝██║   ██║███████╗██║   ██║███████║
██║     ██║   ██║██╔══██╗██╔═══╝ ██║   ██║╚════██║██║▄▄ ██║██╔══██║
╚██████╗╚██████╔╝██║  ██║██║     ╚██████╔╝███████║╚██████╔╝██║  ██║
 ╚═════╝ ╚═════╝ ╚═╝  ╚═╝╚═╝      ╚═════╝ ╚══════╝ ╚══▀▀═╝ ╚═╝  ╚═╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "corpusqa",
		Short: "Closed-domain question answering over crawled sources",
		Long: banner + `
Crawl configured websites, build a vector index over the corpus,
and answer questions grounded strictly in what was crawled.

The pipeline runs in three stages:
  crawl  - discover and store pages from the configured seeds
  build  - chunk, embed, and index the stored corpus
  ask    - answer a question with citations, or refuse`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./config.yaml)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(NewCrawlCmd())
	rootCmd.AddCommand(NewTranscriptsCmd())
	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewAskCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewMCPCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func configureLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig resolves the --config flag against the default lookup
// chain.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadDefault()
}
