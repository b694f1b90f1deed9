package knowledge

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"

	"ai-consultant-bot/pkg/store"
)

// MemoryBackend keeps vectors in process and ranks by cosine similarity.
type MemoryBackend struct {
	mu     sync.RWMutex
	chunks []EmbeddedChunk
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load(ctx context.Context, chunks []EmbeddedChunk) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = append([]EmbeddedChunk(nil), chunks...)
	return nil
}

// Nearest ties keep corpus order.
func (b *MemoryBackend) Nearest(ctx context.Context, vector []float32, k int) ([]store.Chunk, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	results := make([]store.Chunk, len(b.chunks))
	for i, c := range b.chunks {
		results[i] = store.Chunk{
			ID:      strconv.Itoa(c.Index),
			Index:   c.Index,
			Content: c.Content,
			Score:   float32(cosineSimilarity(vector, c.Vector)),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
