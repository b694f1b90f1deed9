package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-consultant-bot/pkg/messenger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeout = 60

// ToUpdate keeps text messages and inline button presses. Everything else is dropped.
func ToUpdate(u tgbotapi.Update) (messenger.Update, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		out := messenger.Update{
			ID:           u.UpdateID,
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}
		if cq.From != nil {
			out.Username = cq.From.UserName
		}
		if cq.Message != nil {
			out.MessageID = cq.Message.MessageID
			if cq.Message.Chat != nil {
				out.ChatID = cq.Message.Chat.ID
			}
		}
		if out.ChatID == 0 && cq.From != nil {
			out.ChatID = cq.From.ID
		}
		return out, true

	case u.Message != nil && strings.TrimSpace(u.Message.Text) != "":
		m := u.Message
		out := messenger.Update{
			ID:        u.UpdateID,
			MessageID: m.MessageID,
			Text:      m.Text,
		}
		if m.Chat != nil {
			out.ChatID = m.Chat.ID
		}
		if m.From != nil {
			out.Username = m.From.UserName
		}
		return out, true
	}
	return messenger.Update{}, false
}

// ParseUpdate decodes a webhook body.
func ParseUpdate(body []byte) (messenger.Update, bool, error) {
	var u tgbotapi.Update
	if err := json.Unmarshal(body, &u); err != nil {
		return messenger.Update{}, false, fmt.Errorf("decode update: %w", err)
	}
	upd, ok := ToUpdate(u)
	return upd, ok, nil
}

// Poll long-polls getUpdates until ctx is done.
func (c *Client) Poll(ctx context.Context, handle func(messenger.Update)) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := c.bot.GetUpdatesChan(cfg)

	c.logger.Info("TELEGRAM", "Polling started", nil)
	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			c.logger.Info("TELEGRAM", "Polling stopped", nil)
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if upd, keep := ToUpdate(u); keep {
				handle(upd)
			}
		}
	}
}

// SetWebhook registers url with Telegram. A non-empty secret is echoed back by
// Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	if _, err := c.bot.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	c.logger.Info("TELEGRAM", "Webhook registered", map[string]interface{}{"url": url})
	return nil
}

// DeleteWebhook switches the bot back to getUpdates.
func (c *Client) DeleteWebhook() error {
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}
