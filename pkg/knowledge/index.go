// Package knowledge embeds the corpus once at startup and answers nearest-fragment queries.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"ai-consultant-bot/pkg/embedding"
	"ai-consultant-bot/pkg/store"
)

// EmbeddedChunk is a corpus fragment together with its vector.
type EmbeddedChunk struct {
	Index   int
	Content string
	Vector  []float32
}

// Backend stores embedded chunks and ranks them against a query vector.
type Backend interface {
	Load(ctx context.Context, chunks []EmbeddedChunk) error
	Nearest(ctx context.Context, vector []float32, k int) ([]store.Chunk, error)
}

// Index is read-only once Build returns.
type Index struct {
	embedder embedding.EmbeddingProvider
	backend  Backend
}

// Build embeds every non-blank text and loads the result into the backend.
func Build(ctx context.Context, embedder embedding.EmbeddingProvider, texts []string, backend Backend) (*Index, error) {
	chunks := make([]EmbeddedChunk, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, EmbeddedChunk{Index: len(chunks), Content: text, Vector: vec})
	}

	if err := backend.Load(ctx, chunks); err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	return &Index{embedder: embedder, backend: backend}, nil
}

// Search returns up to k fragments most similar to the query, best first.
func (i *Index) Search(ctx context.Context, query string, k int) ([]store.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}
	vec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return i.backend.Nearest(ctx, vec, k)
}
