package controller

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"mailscore/models"
	"mailscore/store"
	"mailscore/utils"
)

type ValidationController struct {
	Verifier *utils.Verifier
	Usage    store.UsageStore
	Logger   *log.Logger
}

func NewValidationController(verifier *utils.Verifier, usage store.UsageStore, logger *log.Logger) *ValidationController {
	return &ValidationController{
		Verifier: verifier,
		Usage:    usage,
		Logger:   logger,
	}
}

type validateRequest struct {
	Email string `json:"email" validate:"required"`
}

// Validate scores one email address. Auth and quota middleware run first.
func (vc *ValidationController) Validate(c *fiber.Ctx) error {
	var req validateRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email address is required",
			"code":  "MISSING_EMAIL",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email address is required",
			"code":  "MISSING_EMAIL",
		})
	}

	verdict, err := vc.safeVerify(c.Context(), req.Email)
	if err != nil {
		vc.Logger.Printf("Validation failed for %s: %v", req.Email, err)
		utils.LogError("validation", err, map[string]interface{}{
			"email": req.Email,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
			"code":  "INTERNAL_ERROR",
		})
	}

	return c.JSON(verdict)
}

// safeVerify converts an unexpected panic in the pipeline into an error
// so the handler can answer with an opaque 500.
func (vc *ValidationController) safeVerify(ctx context.Context, email string) (verdict *models.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("verification panic: %v", r)
		}
	}()
	return vc.Verifier.Verify(ctx, email), nil
}

// GetUsage reports today's consumption for the authenticated key.
func (vc *ValidationController) GetUsage(c *fiber.Ctx) error {
	apiKey := c.Locals("apiKey").(string)
	keyData := c.Locals("keyData").(models.APIKey)

	usage, err := vc.Usage.CurrentUsage(c.Context(), apiKey)
	if err != nil {
		utils.LogError("usage_read", err, map[string]interface{}{
			"api_key": models.MaskKey(apiKey),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
			"code":  "INTERNAL_ERROR",
		})
	}

	return c.JSON(fiber.Map{
		"apiKey":     models.MaskKey(apiKey),
		"tier":       keyData.Tier,
		"dailyLimit": keyData.DailyLimit,
		"dailyUsage": usage,
		"remaining":  keyData.DailyLimit - usage,
	})
}
