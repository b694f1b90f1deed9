package messenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateCommand(t *testing.T) {
	tests := []struct {
		name   string
		update Update
		want   string
	}{
		{name: "plain start", update: Update{Text: "/start"}, want: "start"},
		{name: "with bot name", update: Update{Text: "/admin@numerology_bot"}, want: "admin"},
		{name: "with args", update: Update{Text: "/start ref42"}, want: "start"},
		{name: "plain text", update: Update{Text: "Хорошо"}, want: ""},
		{name: "callback", update: Update{Text: "/start", CallbackID: "cb"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.update.Command())
		})
	}
}
