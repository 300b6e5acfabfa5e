// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to query the corpus via stdio
package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"corpusqa/internal/core"
	"corpusqa/internal/llm"
	"corpusqa/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the corpus QA pipeline as an MCP (Model Context Protocol)
server over stdio, exposing ask_question and retrieve_context
tools.

Requires a built index (run build first).`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  corpusqa mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "corpusqa": {
  #       "command": "corpusqa",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embedding and answering will not work")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("initializing OpenAI client: %w", err)
	}

	pipeline, err := core.NewPipeline(cfg, client, client)
	if err != nil {
		return fmt.Errorf("loading pipeline: %w", err)
	}

	server := mcpserver.NewMCPServer(
		"Corpus QA",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, pipeline)

	if !quiet {
		log.Println("Corpus QA MCP server starting on stdio...")
	}

	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
