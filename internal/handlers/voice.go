package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/services"
)

// Request types the voice platform delivers.
const (
	RequestTypeLaunch       = "LaunchRequest"
	RequestTypeIntent       = "IntentRequest"
	RequestTypeSessionEnded = "SessionEndedRequest"
)

// VoiceWebhookPayload is the structured request envelope from the voice
// platform: intent and slot extraction already happened upstream.
type VoiceWebhookPayload struct {
	RequestType string            `json:"request_type"`
	Intent      string            `json:"intent"`
	Slots       map[string]string `json:"slots"`
	AccessToken string            `json:"access_token"`
}

// VoiceHandler handles voice platform webhook requests
type VoiceHandler struct {
	voiceService *services.VoiceService
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(voiceService *services.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

// HandleWebhook processes incoming voice requests
func (h *VoiceHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload VoiceWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	log.Printf("🎙️  Voice request: type=%s intent=%s", payload.RequestType, payload.Intent)

	var speech string
	switch payload.RequestType {
	case RequestTypeLaunch:
		speech = h.voiceService.HandleLaunch()

	case RequestTypeSessionEnded:
		h.voiceService.HandleSessionEnded(payload.AccessToken)
		return c.SendStatus(fiber.StatusOK)

	case RequestTypeIntent, "":
		speech = h.voiceService.HandleIntent(&services.IntentRequest{
			Intent:      payload.Intent,
			Slots:       payload.Slots,
			AccessToken: payload.AccessToken,
		})

	default:
		log.Printf("Unknown request type: %s", payload.RequestType)
		return c.SendStatus(fiber.StatusOK)
	}

	return c.JSON(fiber.Map{
		"speech": speech,
	})
}
