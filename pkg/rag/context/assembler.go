// Package context builds the per-turn prompt material: the rolling summary and the retrieved fragments.
package context

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-consultant-bot/pkg/store"
)

const (
	DefaultTopK           = 4
	DefaultSummaryMaxSize = 5000

	userPrefix = " User: "
	botPrefix  = " Bot: "

	fragmentRule = "====================="
)

// Searcher is the read side of the knowledge index.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]store.Chunk, error)
}

// RetrievedContext is what the generator sees of the knowledge base for one turn.
type RetrievedContext struct {
	Chunks []store.Chunk
	Text   string
}

type Assembler struct {
	index          Searcher
	topK           int
	summaryMaxSize int
	now            func() time.Time
}

func NewAssembler(index Searcher, topK, summaryMaxSize int) *Assembler {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if summaryMaxSize <= 0 {
		summaryMaxSize = DefaultSummaryMaxSize
	}
	return &Assembler{
		index:          index,
		topK:           topK,
		summaryMaxSize: summaryMaxSize,
		now:            time.Now,
	}
}

// RecordUserTurn appends the user's text to the turns and the clipped summary.
func (a *Assembler) RecordUserTurn(s *store.Session, text string) {
	s.Turns = append(s.Turns, store.Turn{Speaker: store.SpeakerUser, Text: text, At: a.now()})
	s.Summary = ClipSummary(s.Summary+userPrefix+text, a.summaryMaxSize)
}

// RecordBotTurn appends a successful answer.
func (a *Assembler) RecordBotTurn(s *store.Session, answer string) {
	s.Turns = append(s.Turns, store.Turn{Speaker: store.SpeakerBot, Text: answer, At: a.now()})
	s.Summary = ClipSummary(s.Summary+botPrefix+answer, a.summaryMaxSize)
}

// Retrieve queries the index with the latest user text only. Nothing is cached between turns.
func (a *Assembler) Retrieve(ctx context.Context, text string) (RetrievedContext, error) {
	chunks, err := a.index.Search(ctx, text, a.topK)
	if err != nil {
		return RetrievedContext{}, fmt.Errorf("knowledge search: %w", err)
	}
	return RetrievedContext{Chunks: chunks, Text: FormatFragments(chunks)}, nil
}

// FormatFragments labels each chunk with its 1-based rank.
func FormatFragments(chunks []store.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("\nОтрывок документа №%d\n%s%s\n", i+1, fragmentRule, c.Content)
	}
	return strings.Join(parts, "\n ")
}

// ClipSummary keeps the trailing max characters.
func ClipSummary(summary string, max int) string {
	runes := []rune(summary)
	if len(runes) <= max {
		return summary
	}
	return string(runes[len(runes)-max:])
}
