package middleware

import (
	"github.com/gofiber/fiber/v2"

	"mailscore/models"
	"mailscore/store"
	"mailscore/utils"
)

// TrackUsage enforces the per-key daily quota. Must run after
// Authenticate. A denied request is not counted.
func TrackUsage(usage store.UsageStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := c.Locals("apiKey").(string)
		keyData := c.Locals("keyData").(models.APIKey)

		allowed, current, err := usage.CheckAndIncrement(c.Context(), apiKey, keyData.DailyLimit)
		if err != nil {
			utils.LogError("usage_store", err, map[string]interface{}{
				"api_key": models.MaskKey(apiKey),
			})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
				"code":  "INTERNAL_ERROR",
			})
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Daily limit exceeded",
				"code":  "DAILY_LIMIT_EXCEEDED",
				"limit": keyData.DailyLimit,
				"usage": current,
			})
		}

		return c.Next()
	}
}
