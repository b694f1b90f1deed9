package prompt

import (
	"ai-consultant-bot/pkg/llm"
)

const (
	documentLead = "Документ с информацией для ответа клиента: "
	questionLead = "\n\nВопрос клиента: "
)

// Builder produces the two-message prompt: fixed instructions plus the per-turn user block.
type Builder struct {
	system string
}

func NewBuilder(system string) *Builder {
	return &Builder{system: system}
}

func (b *Builder) Build(retrieved, summary string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: b.system},
		{Role: llm.RoleUser, Content: UserBlock(retrieved, summary)},
	}
}

// UserBlock pairs the retrieved fragments with the rolling summary, not just the last question.
func UserBlock(retrieved, summary string) string {
	return documentLead + retrieved + questionLead + summary
}
