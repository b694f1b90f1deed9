//go:build ignore

// Prints how close a few typical questions land to each other with the
// configured embedding model: go run scripts/compare_embeddings.go
package main

import (
	"context"
	"fmt"
	"log"
	"math"

	"ai-consultant-bot/internal/config"
	"ai-consultant-bot/pkg/embedding"

	"github.com/fatih/color"
)

// CosineSimilarity calculates similarity between two vectors
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func main() {
	cfg := config.Load()
	provider, err := embedding.NewEmbeddingProvider(cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Ai.OllamaBaseURL, cfg.Keys.OpenAI)
	if err != nil {
		log.Fatal(err)
	}

	texts := []string{
		"Что означает число судьбы 7?",
		"Расскажи про семёрку в нумерологии",
		"Как рассчитать число по дате рождения?",
		"Какая сегодня погода?",
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i], err = provider.Embed(context.Background(), text)
		if err != nil {
			log.Fatalf("embed %q: %v", text, err)
		}
	}
	color.Cyan("Model: %s (%s), dimension %d", cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingProvider, len(vectors[0]))

	for i := range texts {
		for j := i + 1; j < len(texts); j++ {
			sim := CosineSimilarity(vectors[i], vectors[j])
			line := fmt.Sprintf("%.3f  %q <> %q", sim, texts[i], texts[j])
			if sim > 0.7 {
				color.Green("%s", line)
			} else {
				color.Yellow("%s", line)
			}
		}
	}
}
