package implementation

import (
	"context"

	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/mapper"
	"ai-consultant-bot/internal/model"
	"ai-consultant-bot/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeChunkMapper
}

func NewKnowledgeChunkRepository(db *gorm.DB) contract.KnowledgeChunkRepository {
	return &KnowledgeChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeChunkMapper(),
	}
}

func (r *KnowledgeChunkRepositoryImpl) ReplaceAll(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.KnowledgeChunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		for _, c := range chunks {
			if c.Id == uuid.Nil {
				c.Id = uuid.New()
			}
		}
		return tx.CreateInBatches(r.mapper.ToModels(chunks), 100).Error
	})
	return contract.Wrap("knowledge_chunks.replace_all", err)
}

// SearchSimilarWithScore orders by cosine distance; similarity is 1 - distance.
func (r *KnowledgeChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredKnowledgeChunk, error) {
	if limit <= 0 {
		limit = 4
	}

	type result struct {
		model.KnowledgeChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("knowledge_chunks").
		Select("knowledge_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Order("chunk_index ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, contract.Wrap("knowledge_chunks.search", err)
	}

	scored := make([]*contract.ScoredKnowledgeChunk, len(results))
	for i := range results {
		scored[i] = &contract.ScoredKnowledgeChunk{
			Chunk:      r.mapper.ToEntity(&results[i].KnowledgeChunk),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

func (r *KnowledgeChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.KnowledgeChunk{}).Count(&count).Error
	return count, contract.Wrap("knowledge_chunks.count", err)
}
