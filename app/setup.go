package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/api"
	"github.com/sahilchouksey/practice-tracker/config"
	"github.com/sahilchouksey/practice-tracker/database"
	"github.com/sahilchouksey/practice-tracker/router"
	"github.com/sahilchouksey/practice-tracker/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM(getEnv)
	if err != nil {
		log.Error("Check whether the database is running or not")
		log.Error("For a local setup without Postgres, set DB_DRIVER=sqlite")
		return err
	}

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize database tables")
		return err
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.GetDB())
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	cleanup, err := router.SetupRoutes(app, store, getEnv)
	if err != nil {
		return err
	}
	defer cleanup()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	// Get the PORT & Start the Server
	return server.Run()
}
