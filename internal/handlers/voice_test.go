package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/services"
	"github.com/resource-jerc9024-data/alexa-attendance/internal/storage"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("SKILL_SECRET", "")
	store := storage.NewMemoryStore()
	voiceService := services.NewVoiceService(
		store,
		services.NewAccountService(store),
		services.NewAttendanceService(store),
		services.NewCalculatorService(),
		services.NewSessionManager(),
		services.NewDialogueManager(),
	)

	app := fiber.New()
	app.Post("/webhook/voice", NewVoiceHandler(voiceService).HandleWebhook)
	return app
}

func postPayload(t *testing.T, app *fiber.App, payload VoiceWebhookPayload) (int, map[string]string) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest("POST", "/webhook/voice", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]string{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func devToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: sub})
	s, err := tok.SignedString([]byte("dev"))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}
	return s
}

func TestHandleWebhookLaunch(t *testing.T) {
	app := testApp(t)

	status, out := postPayload(t, app, VoiceWebhookPayload{RequestType: RequestTypeLaunch})
	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(out["speech"], "attendance tracker") {
		t.Errorf("launch speech = %q", out["speech"])
	}
}

func TestHandleWebhookIntent(t *testing.T) {
	app := testApp(t)

	status, out := postPayload(t, app, VoiceWebhookPayload{
		RequestType: RequestTypeIntent,
		Intent:      services.IntentHelp,
		AccessToken: devToken(t, "cred-1"),
	})
	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(out["speech"], "mark me present") {
		t.Errorf("help speech = %q", out["speech"])
	}
}

func TestHandleWebhookBadPayload(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("POST", "/webhook/voice", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleWebhookSessionEnded(t *testing.T) {
	app := testApp(t)

	status, _ := postPayload(t, app, VoiceWebhookPayload{
		RequestType: RequestTypeSessionEnded,
		AccessToken: devToken(t, "cred-1"),
	})
	if status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
}
