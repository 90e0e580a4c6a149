// Command main is the entry point for the ReelCorps backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reelcorps/internal/bootstrap"
	"reelcorps/internal/config"
	"reelcorps/internal/janitor"
	"reelcorps/internal/server"
)

// @title ReelCorps API
// @version 1.0
// @description Membership-gated film production platform for military veterans: scripts, projects, forums, direct messages, festival submissions and credit-metered AI generation.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@reelcorps.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8375
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect database and Redis, run dev bootstrap steps
	db, redisClient, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	// Create server with dependency injection
	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Build the Fiber app with middleware, routes and the JSON error handler
	app := srv.BuildApp()

	// Wire the websocket hub to the Redis subscriber
	srv.StartEventWiring(context.Background())

	// Background sweep that fails and refunds generation jobs stuck pending
	jan := janitor.New(srv.GenerationService())
	if err := jan.Start(); err != nil {
		log.Fatalf("Failed to start janitor: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		jan.Stop()

		// Stops the HTTP listener, hub, DB and Redis in order.
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
