package knowledge

import (
	"context"

	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/repository/unitofwork"
	"ai-consultant-bot/pkg/store"
)

// PgvectorBackend persists chunks in knowledge_chunks and ranks with the <=> operator.
type PgvectorBackend struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPgvectorBackend(uowFactory unitofwork.RepositoryFactory) *PgvectorBackend {
	return &PgvectorBackend{uowFactory: uowFactory}
}

func (b *PgvectorBackend) Load(ctx context.Context, chunks []EmbeddedChunk) error {
	entities := make([]*entity.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = &entity.KnowledgeChunk{
			Content:    c.Content,
			ChunkIndex: c.Index,
			Embedding:  c.Vector,
		}
	}
	uow := b.uowFactory.NewUnitOfWork(ctx)
	return uow.KnowledgeChunkRepository().ReplaceAll(ctx, entities)
}

func (b *PgvectorBackend) Nearest(ctx context.Context, vector []float32, k int) ([]store.Chunk, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.KnowledgeChunkRepository().SearchSimilarWithScore(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	out := make([]store.Chunk, len(scored))
	for i, s := range scored {
		out[i] = store.Chunk{
			ID:      s.Chunk.Id.String(),
			Index:   s.Chunk.ChunkIndex,
			Content: s.Chunk.Content,
			Score:   float32(s.Similarity),
		}
	}
	return out, nil
}
