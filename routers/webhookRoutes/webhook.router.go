package webhookRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/webhook"
)

// SetupWebhookRoutes sets up identity-provider webhook ingestion
func SetupWebhookRoutes(app *fiber.App) {
	app.Post("/webhooks/clerk", controllers.ClerkWebhook)
}
