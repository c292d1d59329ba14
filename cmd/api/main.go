package main

import (
	"os"
	"os/signal"
	"syscall"
	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"
	"taskhub/interfaces/api/routes"
	"taskhub/pkg/di"
	"taskhub/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Initialize DI container
	container := di.NewContainer()

	// Initialize all dependencies (including logger)
	if err := container.Initialize(); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	// Setup graceful shutdown
	setupGracefulShutdown(container)

	cfg := container.GetConfig()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		AppName:      cfg.App.Name,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Setup middleware (order matters!)
	app.Use(middleware.RequestIDMiddleware()) // must run before the access log
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware(cfg.App.CORSOrigins))

	// Create handlers from services
	h := handlers.NewHandlers(container.GetHandlerServices())

	// Setup routes
	routes.SetupRoutes(app, h, cfg.JWT.Secret)

	// Start server
	port := cfg.App.Port
	logger.Info("Server starting",
		"port", port,
		"env", cfg.App.Env,
		"store", cfg.Store.Driver,
	)
	logger.Info("Endpoints available",
		"health", "http://localhost:"+port+"/health",
		"api", "http://localhost:"+port+"/api/v1",
		"websocket", "ws://localhost:"+port+"/ws",
	)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}
