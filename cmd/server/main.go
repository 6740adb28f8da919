package main

import (
	"log"

	"github.com/aheel03/Artspire/internal/router"
	"github.com/aheel03/Artspire/pkg/config"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
