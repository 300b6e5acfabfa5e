// ABOUTME: Main entry point for the corpus QA MCP server with stdio transport
// ABOUTME: Loads the index snapshot and serves the QA tools to LLM agents
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"corpusqa/internal/config"
	"corpusqa/internal/core"
	"corpusqa/internal/llm"
	"corpusqa/internal/mcp"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embedding and answering will not work")
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	pipeline, err := core.NewPipeline(cfg, client, client)
	if err != nil {
		log.Fatalf("Failed to load pipeline: %v", err)
	}

	server := mcpserver.NewMCPServer(
		"Corpus QA",
		"0.1.0",
	)

	mcp.RegisterTools(server, pipeline)

	log.Println("Corpus QA MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
