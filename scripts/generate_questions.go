// Manual question generation run.
//
// Reads a batch file, asks the AI endpoint for one verified variant per source
// question and stores the variants as draft questions for review.
//
// Usage: go run scripts/generate_questions.go -batch batch.yaml

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mahaswami/exam-prep-sub000/internal/config"
	"github.com/Mahaswami/exam-prep-sub000/internal/repository"
	"github.com/Mahaswami/exam-prep-sub000/internal/service"
	"github.com/Mahaswami/exam-prep-sub000/pkg/database"
	"github.com/Mahaswami/exam-prep-sub000/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	batchPath := flag.String("batch", "", "YAML file listing source questions")
	flag.Parse()

	if *batchPath == "" {
		log.Fatal("-batch is required")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.Generation.Enabled {
		log.Fatal("generation.enabled is false")
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	batch, err := service.LoadGenerationBatch(*batchPath)
	if err != nil {
		logger.Log.Fatal("Failed to read batch", zap.Error(err))
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	questions := repository.NewQuestionRepository(db)
	ids, err := batch.Resolve(ctx, questions, cfg.Generation.BatchSize)
	if err != nil {
		logger.Log.Fatal("Failed to resolve batch", zap.Error(err))
	}
	logger.Log.Info("Starting generation batch", zap.Int("questions", len(ids)))

	generation := service.NewGenerationService(
		questions,
		repository.NewGenerationRepository(db),
		service.NewAIService(cfg.AI),
		cfg.Generation,
	)
	report, err := generation.RunBatch(ctx, ids)
	if err != nil {
		logger.Log.Fatal("Generation batch aborted", zap.Error(err))
	}

	logger.Log.Info("Done",
		zap.Int("generated", report.Generated),
		zap.Int("rejected", report.Rejected),
		zap.Int("failed", report.Failed),
	)
}
