package middleware

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ValidateSkillToken validates that the webhook request carries a signed
// access token from the voice platform. The token itself is resolved to an
// attendance key later; this only rejects requests that could never resolve.
func ValidateSkillToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractAccessToken(c)
		if token == "" {
			return c.Status(401).JSON(fiber.Map{
				"error": "Missing access token",
			})
		}

		secret := os.Getenv("SKILL_SECRET")
		if secret == "" {
			// Log error but don't expose to client
			fmt.Println("ERROR: SKILL_SECRET not set")
			return c.Status(500).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		_, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			return c.Status(401).JSON(fiber.Map{
				"error": "Invalid access token",
			})
		}

		return c.Next()
	}
}

// extractAccessToken pulls the token from the Authorization header or, for
// platforms that embed it in the envelope, from the request body.
func extractAccessToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	var envelope struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(c.Body(), &envelope); err == nil {
		return envelope.AccessToken
	}
	return ""
}
