package prompt

import (
	"testing"

	"ai-consultant-bot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	msgs := NewBuilder("Ты нумеролог.").Build("\nОтрывок документа №1\n=====================семь\n", " User: что значит 7?")

	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, "Ты нумеролог.", msgs[0].Content)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Equal(t,
		"Документ с информацией для ответа клиента: \nОтрывок документа №1\n=====================семь\n\n\nВопрос клиента:  User: что значит 7?",
		msgs[1].Content)
}

func TestUserBlockWithEmptyRetrieval(t *testing.T) {
	assert.Equal(t, "Документ с информацией для ответа клиента: \n\nВопрос клиента: s", UserBlock("", "s"))
}
