// ABOUTME: MCP tool definitions and registration for the corpus QA server
// ABOUTME: Defines JSON schemas for the ask_question and retrieve_context tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"corpusqa/internal/core"
)

// RegisterTools registers the QA tools with the server
func RegisterTools(server *mcpserver.MCPServer, pipeline *core.Pipeline) *Handlers {
	handlers := &Handlers{pipeline: pipeline}

	// 1. ask_question - Answer a question from the configured sources
	server.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question using only the crawled corpus. Returns the answer text plus the source URLs it was grounded on, or a refusal when the corpus does not cover the question.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer against the corpus",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskQuestion)

	// 2. retrieve_context - Raw retrieval without answer generation
	server.AddTool(mcp.Tool{
		Name:        "retrieve_context",
		Description: "Retrieve the corpus chunks nearest to a query, with their source metadata. No answer is generated.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query for chunk retrieval",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.RetrieveContext)

	return handlers
}
