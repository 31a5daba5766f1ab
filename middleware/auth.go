package middleware

import (
	"github.com/gofiber/fiber/v2"

	"mailscore/config"
)

// Authenticate resolves the API key from the X-API-Key header or the
// apiKey query parameter and stores the key and its record in Locals.
// Runs before any quota or validation logic.
func Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := c.Get("X-API-Key")
		if apiKey == "" {
			apiKey = c.Query("apiKey")
		}

		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "API key required",
				"code":  "MISSING_API_KEY",
			})
		}

		keyData, ok := config.AppConfig.APIKeys[apiKey]
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
				"code":  "INVALID_API_KEY",
			})
		}

		c.Locals("apiKey", apiKey)
		c.Locals("keyData", keyData)
		return c.Next()
	}
}
