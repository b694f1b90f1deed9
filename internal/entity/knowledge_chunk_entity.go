package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeChunk struct {
	Id         uuid.UUID
	Content    string
	ChunkIndex int
	Embedding  []float32
	CreatedAt  time.Time
}
