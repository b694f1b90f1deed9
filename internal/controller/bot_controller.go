package controller

import (
	"time"

	"ai-consultant-bot/internal/dto"
	"ai-consultant-bot/internal/pkg/serverutils"
	"ai-consultant-bot/internal/telegram"
	"ai-consultant-bot/pkg/messenger"

	"github.com/gofiber/fiber/v2"
)

// Dispatcher accepts parsed updates for asynchronous processing.
type Dispatcher interface {
	Dispatch(upd messenger.Update)
}

// SessionCounter reports live dialogue sessions.
type SessionCounter interface {
	SessionCount() int
}

type IBotController interface {
	RegisterRoutes(app fiber.Router, webhookPath string, secretMiddleware fiber.Handler)
}

type botController struct {
	dispatcher Dispatcher
	sessions   SessionCounter
	startedAt  time.Time
}

func NewBotController(dispatcher Dispatcher, sessions SessionCounter) IBotController {
	return &botController{
		dispatcher: dispatcher,
		sessions:   sessions,
		startedAt:  time.Now(),
	}
}

func (c *botController) RegisterRoutes(app fiber.Router, webhookPath string, secretMiddleware fiber.Handler) {
	app.Get("/health", c.Health)
	app.Post(webhookPath, secretMiddleware, c.Webhook)
}

// Webhook acknowledges the update right away and processes it in the background.
func (c *botController) Webhook(ctx *fiber.Ctx) error {
	upd, ok, err := telegram.ParseUpdate(ctx.Body())
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if ok {
		c.dispatcher.Dispatch(upd)
	}
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *botController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", dto.HealthResponse{
		Status:   "ok",
		Sessions: c.sessions.SessionCount(),
		Uptime:   time.Since(c.startedAt).Round(time.Second).String(),
	}))
}
