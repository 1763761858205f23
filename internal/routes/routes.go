package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/handlers"
	"github.com/resource-jerc9024-data/alexa-attendance/internal/middleware"
	"github.com/resource-jerc9024-data/alexa-attendance/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, voiceService *services.VoiceService) {
	voiceHandler := handlers.NewVoiceHandler(voiceService)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	app.Get("/healthz", healthHandler.Check)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// Voice webhook - environment-aware validation
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/voice", voiceHandler.HandleWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			println("⚠️  Voice webhook validation DISABLED for development")
		}
	} else {
		webhooks.Post("/voice", middleware.ValidateSkillToken(), voiceHandler.HandleWebhook)
	}

	// ========== TEST ROUTES (Development Only) ==========
	// Test voice endpoint (for development)
	app.Post("/test/voice", voiceHandler.HandleWebhook)
}
