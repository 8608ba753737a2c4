package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/sahilchouksey/practice-tracker/config"
	"github.com/sahilchouksey/practice-tracker/database"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	// Initialize database connection using GORM
	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Practice Tracker - Database Seeding")
	fmt.Println(separator)
	fmt.Println()

	if err := database.RunSeeds(store.GetDB(), env); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println()
	fmt.Println(separator)
	fmt.Println("Seeding completed successfully!")
	fmt.Println(separator)
	fmt.Println()
	fmt.Println("Staff user created from STAFF_EMAIL and STAFF_PASSWORD environment variables.")
	fmt.Println("If not set, staff user creation is skipped.")
	fmt.Println()
}
