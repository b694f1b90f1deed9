// Package telegram adapts the Bot API client to the messenger contract.
package telegram

import (
	"context"
	"fmt"
	"net/http"

	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/pkg/messenger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var _ messenger.Messenger = (*Client)(nil)

type Client struct {
	bot    *tgbotapi.BotAPI
	logger logger.ILogger
}

func NewClient(token string, logger logger.ILogger) (*Client, error) {
	return NewClientWithEndpoint(token, tgbotapi.APIEndpoint, &http.Client{}, logger)
}

// NewClientWithEndpoint calls getMe against endpoint, which must carry two %s verbs (token, method).
func NewClientWithEndpoint(token, endpoint string, httpClient *http.Client, logger logger.ILogger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	logger.Info("TELEGRAM", "Authorized", map[string]interface{}{"bot": bot.Self.UserName})
	return &Client{bot: bot, logger: logger}, nil
}

func (c *Client) Username() string {
	return c.bot.Self.UserName
}

func (c *Client) send(ctx context.Context, msg tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (c *Client) Reply(ctx context.Context, chatID int64, replyTo int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	msg.AllowSendingWithoutReply = true
	return c.send(ctx, msg)
}

func (c *Client) SendSticker(ctx context.Context, chatID int64, stickerID string) error {
	return c.send(ctx, tgbotapi.NewSticker(chatID, tgbotapi.FileID(stickerID)))
}

func (c *Client) SendKeyboard(ctx context.Context, chatID int64, text string, buttons ...string) error {
	rows := make([][]tgbotapi.KeyboardButton, len(buttons))
	for i, b := range buttons {
		rows[i] = tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(b))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return c.send(ctx, msg)
}

func (c *Client) RemoveKeyboard(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	return c.send(ctx, msg)
}

func (c *Client) SendInlineMenu(ctx context.Context, chatID int64, text string, rows [][]messenger.Button) error {
	markup := make([][]tgbotapi.InlineKeyboardButton, len(rows))
	for i, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, len(row))
		for j, b := range row {
			buttons[j] = tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data)
		}
		markup[i] = tgbotapi.NewInlineKeyboardRow(buttons...)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(markup...)
	return c.send(ctx, msg)
}

// AnswerCallback stops the client-side spinner on an inline button.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("telegram answer callback: %w", err)
	}
	return nil
}
