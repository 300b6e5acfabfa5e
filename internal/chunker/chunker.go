// ABOUTME: Fixed-size overlapping text splitter used for embedding and retrieval
// ABOUTME: Pure function of its inputs; output order follows document text order
package chunker

import (
	"errors"
	"fmt"

	"corpusqa/internal/models"
)

// ErrInvalidChunking is returned when the chunking parameters could not
// produce a terminating sequence of chunks.
var ErrInvalidChunking = errors.New("invalid chunking parameters")

// Split cuts text into windows of chunkSize bytes where consecutive
// windows share exactly overlap bytes. The final chunk may be shorter.
// The union of all windows covers the whole text with no gaps.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidChunking, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidChunking, overlap, chunkSize)
	}

	if len(text) == 0 {
		return nil, nil
	}

	step := chunkSize - overlap
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks, nil
}

// SplitDocument splits a document's text and attaches the document's
// metadata to every resulting chunk.
func SplitDocument(doc models.Document, chunkSize, overlap int) ([]models.Chunk, error) {
	texts, err := Split(doc.Text, chunkSize, overlap)
	if err != nil {
		return nil, err
	}
	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.Chunk{Text: text, Meta: doc.Meta}
	}
	return chunks, nil
}
