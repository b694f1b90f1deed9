// Command trace_prompt replays a scripted conversation against the knowledge
// base and prints the exact prompt the model sees on every turn. With -call it
// also sends the prompt to the configured model.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"ai-consultant-bot/internal/config"
	"ai-consultant-bot/pkg/corpus"
	"ai-consultant-bot/pkg/embedding"
	"ai-consultant-bot/pkg/knowledge"
	"ai-consultant-bot/pkg/llm"
	"ai-consultant-bot/pkg/llm/factory"
	ragcontext "ai-consultant-bot/pkg/rag/context"
	"ai-consultant-bot/pkg/rag/prompt"
	"ai-consultant-bot/pkg/store"

	"github.com/fatih/color"
)

var conversation = []string{
	"Меня зовут Анна",
	"Я родилась 15.03.1990",
	"Что означает моё число судьбы?",
}

func main() {
	call := flag.Bool("call", false, "send each prompt to the configured model")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	loader := corpus.NewLoader()
	system, err := loader.Load(ctx, cfg.Corpus.SystemPromptSource)
	if err != nil {
		log.Fatalf("system prompt: %v", err)
	}
	chunks, err := loader.LoadChunks(ctx, cfg.Corpus.KnowledgeBaseSource, cfg.Corpus.ChunkSize)
	if err != nil {
		log.Fatalf("knowledge base: %v", err)
	}
	color.Cyan("Loaded %d chunks, system prompt %d chars", len(chunks), len([]rune(system)))

	embedder, err := embedding.NewEmbeddingProvider(cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Ai.OllamaBaseURL, cfg.Keys.OpenAI)
	if err != nil {
		log.Fatalf("embedder: %v", err)
	}
	index, err := knowledge.Build(ctx, embedder, chunks, knowledge.NewMemoryBackend())
	if err != nil {
		log.Fatalf("index: %v", err)
	}

	var provider llm.LLMProvider
	if *call {
		provider, err = factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Keys.OpenAI)
		if err != nil {
			log.Fatalf("llm: %v", err)
		}
	}

	assembler := ragcontext.NewAssembler(index, cfg.Dialog.TopK, cfg.Dialog.SummaryMaxSize)
	builder := prompt.NewBuilder(system)
	sess := &store.Session{State: store.StateActive}

	for i, question := range conversation {
		color.Yellow("\n[TURN %d] %s", i+1, question)
		assembler.RecordUserTurn(sess, question)

		retrieved, err := assembler.Retrieve(ctx, question)
		if err != nil {
			color.Red("Retrieval failed: %v", err)
			os.Exit(1)
		}
		for _, c := range retrieved.Chunks {
			color.Green("  #%d score=%.3f", c.Index, c.Score)
		}

		messages := builder.Build(retrieved.Text, sess.Summary)
		fmt.Println(messages[1].Content)

		answer := "(not called)"
		if provider != nil {
			answer, err = provider.Chat(ctx, messages, llm.WithTemperature(cfg.Ai.Temperature), llm.WithFrequencyPenalty(cfg.Ai.FrequencyPenalty))
			if err != nil {
				color.Red("Completion failed: %v", err)
				continue
			}
		}
		color.Cyan("ANSWER: %s", answer)
		assembler.RecordBotTurn(sess, answer)
	}
}
