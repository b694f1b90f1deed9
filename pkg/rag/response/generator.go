package response

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/pkg/llm"
	"ai-consultant-bot/pkg/rag/prompt"
)

type Kind string

const (
	KindUnavailable Kind = "unavailable"
	KindMalformed   Kind = "malformed"
	KindTimeout     Kind = "timeout"
	KindRetrieval   Kind = "retrieval"
)

// GenerationError is the single failure type surfaced to the engine for a Q&A turn.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewRetrievalError reports a knowledge index failure in generation terms.
func NewRetrievalError(err error) error {
	return &GenerationError{Kind: KindRetrieval, Err: err}
}

// Sampling is fixed per process.
type Sampling struct {
	Temperature      float64
	FrequencyPenalty float64
	Timeout          time.Duration
}

type Generator struct {
	llmProvider llm.LLMProvider
	sampling    Sampling
	logger      logger.ILogger
}

// NewGenerator creates a new response generator
func NewGenerator(llmProvider llm.LLMProvider, sampling Sampling, logger logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		sampling:    sampling,
		logger:      logger,
	}
}

// Generate performs exactly one completion call. No retry.
func (g *Generator) Generate(ctx context.Context, system, retrieved, summary string) (string, error) {
	messages := prompt.NewBuilder(system).Build(retrieved, summary)

	callCtx := ctx
	if g.sampling.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.sampling.Timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := g.llmProvider.Chat(callCtx, messages,
		llm.WithTemperature(g.sampling.Temperature),
		llm.WithFrequencyPenalty(g.sampling.FrequencyPenalty),
	)
	elapsed := time.Since(start)

	if err != nil {
		genErr := &GenerationError{Kind: classify(callCtx, err), Err: err}
		g.logger.Error("GENERATION", "Completion failed", map[string]interface{}{
			"kind":       string(genErr.Kind),
			"error":      err.Error(),
			"elapsed_ms": elapsed.Milliseconds(),
		})
		return "", genErr
	}

	g.logger.Debug("GENERATION", "Completion received", map[string]interface{}{
		"prompt":     messages[1].Content,
		"answer":     answer,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return answer, nil
}

func classify(callCtx context.Context, err error) Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, llm.ErrEmptyResponse):
		return KindMalformed
	default:
		return KindUnavailable
	}
}
