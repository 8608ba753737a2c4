// Command migrate creates or updates the schema and checks the connection.
// Usage: go run ./cmd/migrate
package main

import (
	"log"

	"github.com/sahilchouksey/practice-tracker/config"
	"github.com/sahilchouksey/practice-tracker/database"
)

func main() {
	log.Println("=== GORM Migration ===")

	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Fatal("Failed to load environment variables:", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read configuration:", err)
	}

	// Initialize GORM connection
	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	// Run migrations
	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Health check
	if err := store.HealthCheck(); err != nil {
		log.Fatal("Database health check failed:", err)
	}

	log.Printf("All migrations completed successfully on %s", env.DB_DRIVER)
}
