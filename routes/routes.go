package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"mailscore/config"
	controller "mailscore/controllers"
	"mailscore/middleware"
	"mailscore/store"
	"mailscore/utils"
)

func SetupRoutes(app *fiber.App, usage store.UsageStore, verifier *utils.Verifier) {
	validateLogger := log.New(os.Stdout, "VALIDATE: ", log.Ldate|log.Ltime|log.Lshortfile)
	vc := controller.NewValidationController(verifier, usage, validateLogger)

	requestLog := logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	})

	// Health check, no auth
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   config.Version,
		})
	})

	// Auth precedes quota precedes validation
	app.Post("/validate",
		requestLog,
		middleware.ValidateRateLimiter(),
		middleware.Authenticate(),
		middleware.TrackUsage(usage),
		vc.Validate,
	)

	app.Get("/usage", requestLog, middleware.Authenticate(), vc.GetUsage)

	// Service description
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":        "Email Validator API",
			"version":     config.Version,
			"description": "High-performance email validation API",
			"endpoints": fiber.Map{
				"validate": "POST /validate",
				"health":   "GET /health",
				"usage":    "GET /usage",
			},
		})
	})

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})

	log.Println("API routes initialized successfully")
}
