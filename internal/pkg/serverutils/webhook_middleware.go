package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookSecretMiddleware rejects webhook calls that do not carry the secret
// registered with setWebhook. An empty secret disables the check.
func WebhookSecretMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return ctx.Next()
		}
		got := ctx.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid secret token"))
		}
		return ctx.Next()
	}
}
