package messenger

import (
	"context"
	"strings"
)

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// Messenger is the outbound side of a chat transport.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	Reply(ctx context.Context, chatID int64, replyTo int, text string) error
	SendSticker(ctx context.Context, chatID int64, stickerID string) error
	// SendKeyboard shows a one-time reply keyboard with one button per row.
	SendKeyboard(ctx context.Context, chatID int64, text string, buttons ...string) error
	RemoveKeyboard(ctx context.Context, chatID int64, text string) error
	SendInlineMenu(ctx context.Context, chatID int64, text string, rows [][]Button) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Update is one inbound event, either a text message or an inline button press.
type Update struct {
	ID           int
	ChatID       int64
	MessageID    int
	Username     string
	Text         string
	CallbackID   string
	CallbackData string
}

func (u Update) IsCallback() bool {
	return u.CallbackID != ""
}

// Command returns the bot command without the slash and @botname suffix, or "".
func (u Update) Command() string {
	if u.IsCallback() || !strings.HasPrefix(u.Text, "/") {
		return ""
	}
	cmd := strings.Fields(u.Text)[0][1:]
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}
