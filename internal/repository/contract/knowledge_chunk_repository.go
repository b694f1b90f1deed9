package contract

import (
	"context"

	"ai-consultant-bot/internal/entity"
)

// ScoredKnowledgeChunk wraps KnowledgeChunk with its similarity score
type ScoredKnowledgeChunk struct {
	Chunk      *entity.KnowledgeChunk
	Similarity float64 // 1.0 = identical
}

type KnowledgeChunkRepository interface {
	// ReplaceAll drops every stored chunk and inserts the given ones.
	ReplaceAll(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredKnowledgeChunk, error)
	Count(ctx context.Context) (int64, error)
}
