// ABOUTME: OpenAI client for batched embeddings and closed-context chat completions
// ABOUTME: Retries transient transport failures with bounded exponential backoff
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"corpusqa/internal/config"
	"corpusqa/internal/util"
)

var (
	// ErrEmbeddingService wraps embedding-service failures, distinct
	// from plain transport errors (quota, malformed response).
	ErrEmbeddingService = errors.New("embedding service error")
	// ErrGenerationService wraps completion-service failures. The core
	// never retries these; the caller decides retry policy.
	ErrGenerationService = errors.New("generation service error")
)

// Message is one chat turn handed to the completion model.
type Message struct {
	Role    string
	Content string
}

// Client wraps the OpenAI API for the two calls the pipeline makes:
// embedding batches of chunk texts and generating grounded answers.
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a client from pipeline configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY)")
	}
	return &Client{
		client:         openai.NewClient(cfg.OpenAIKey),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// EmbedBatch embeds texts in one service call, returning one vector per
// input in input order. The batch either fully succeeds or fully fails;
// there are no partial results. Callers are expected to cap batch size
// before calling (the builder uses the configured embed_batch_size).
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) != len(texts) {
			lastErr = fmt.Errorf("attempt %d: got %d embeddings for %d inputs", attempt+1, len(resp.Data), len(texts))
			continue
		}

		// The API may return data out of order; Index is authoritative.
		vectors := make([][]float32, len(texts))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(vectors) {
				return nil, fmt.Errorf("%w: embedding index %d out of range", ErrEmbeddingService, d.Index)
			}
			vectors[d.Index] = d.Embedding
		}
		return vectors, nil
	}

	return nil, fmt.Errorf("%w: after %d attempts: %v", ErrEmbeddingService, c.maxRetries+1, lastErr)
}

// Complete runs a chat completion and returns the model's text.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float32) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	// go-openai drops a zero temperature on marshal (omitempty), so an
	// exact 0 must be smuggled through as the smallest nonzero float.
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       c.chatModel,
			Messages:    chatMessages,
			Temperature: temperature,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: after %d attempts: %v", ErrGenerationService, c.maxRetries+1, lastErr)
}

// Chat message roles, re-exported so callers do not import go-openai.
const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)
