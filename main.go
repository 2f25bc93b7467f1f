// @title Exam Prep API
// @version 1.0
// @description Adaptive revision, test and diagnostic rounds with concept scoring.

// @host localhost:8080
// @BasePath /

package main

import (
	"flag"
	"log"

	"github.com/Mahaswami/exam-prep-sub000/internal/app"
	"github.com/Mahaswami/exam-prep-sub000/internal/config"
	"github.com/Mahaswami/exam-prep-sub000/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "run database migrations on start, even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		logger.Log.Info("Database migration finished, exiting")
		return
	}

	application.Run()
}
