package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mahaswami/exam-prep-sub000/internal/config"
	"github.com/Mahaswami/exam-prep-sub000/internal/controller"
	"github.com/Mahaswami/exam-prep-sub000/internal/middleware"
	"github.com/Mahaswami/exam-prep-sub000/internal/repository"
	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
	"github.com/Mahaswami/exam-prep-sub000/internal/service"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
	"github.com/Mahaswami/exam-prep-sub000/pkg/database"
	"github.com/Mahaswami/exam-prep-sub000/pkg/logger"
	"github.com/Mahaswami/exam-prep-sub000/pkg/monitoring"
	"github.com/Mahaswami/exam-prep-sub000/pkg/security"
	"github.com/Mahaswami/exam-prep-sub000/pkg/tracing"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	Rounds *service.RoundService

	tracer *sdktrace.TracerProvider
}

type repositories struct {
	question     *repository.QuestionRepository
	chapter      *repository.ChapterRepository
	round        *repository.RoundRepository
	conceptState *repository.ConceptStateRepository
	poolCache    *repository.PoolCache
}

type controllers struct {
	round  *controller.RoundController
	health *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		question:     repository.NewQuestionRepository(db),
		chapter:      repository.NewChapterRepository(db),
		round:        repository.NewRoundRepository(db),
		conceptState: repository.NewConceptStateRepository(db),
		poolCache:    repository.NewPoolCache(rdb, cfg.Cache.PoolTTL()),
	}
}

func (a *App) initServices(repos *repositories) {
	a.Rounds = service.NewRoundService(
		repos.question,
		repos.chapter,
		repos.round,
		repos.round,
		repos.conceptState,
		repos.poolCache,
		selection.DefaultRand(),
	)
}

func (a *App) initControllers() *controllers {
	return &controllers{
		round:  controller.NewRoundController(a.Rounds),
		health: controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp connects the stores and wires repositories, services and
// controllers. With cfg.MigrateOnly it stops after migrating.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode == util.ModeDebug {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{Config: cfg, DB: db}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db, rdb, cfg)
	app.initServices(repos)
	controllers := app.initControllers()

	monitoring.Init()

	if cfg.Server.Mode == util.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close releases the stores and flushes pending spans.
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
