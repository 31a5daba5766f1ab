package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"mailscore/config"
	"mailscore/middleware"
	"mailscore/routes"
	"mailscore/store"
	"mailscore/utils"
	"mailscore/worker"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "SERVER: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Error reporting is a no-op without a DSN
	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Fatalf("Failed to initialize Sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	// Add CORS middleware
	app.Use(middleware.CORS())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Disposable-domain source, optionally refreshed from a remote list
	disposable := utils.NewDisposableSet(config.AppConfig.DisposableListURL)
	if config.AppConfig.DisposableListURL != "" {
		if err := disposable.LoadRemote(ctx); err != nil {
			logger.Printf("Initial disposable list fetch failed, using seed list: %v", err)
		}
		go disposable.Refresh(ctx, config.AppConfig.DisposableRefresh)
	}

	verifier := utils.NewVerifier(disposable,
		log.New(os.Stdout, "VERIFY: ", log.LstdFlags),
		config.AppConfig.MXTimeout)

	// Usage counters: Redis when configured, otherwise in-memory with a
	// janitor sweeping stale day entries
	var usage store.UsageStore
	if config.AppConfig.Redis.Enabled {
		usage = store.NewRedisStore(config.AppConfig.Redis)
	} else {
		mem := store.NewMemoryStore()
		janitor := worker.NewUsageJanitor(mem, log.New(os.Stdout, "JANITOR: ", log.LstdFlags))
		go janitor.Start(ctx)
		usage = mem
	}

	// Setup routes
	routes.SetupRoutes(app, usage, verifier)

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
