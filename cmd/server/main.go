package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swimcraft/app/internal/api"
	"swimcraft/app/internal/coach"
	"swimcraft/app/internal/companion"
	"swimcraft/app/internal/config"
	"swimcraft/app/internal/domain"
	"swimcraft/app/internal/export"
	"swimcraft/app/internal/generator"
	"swimcraft/app/internal/healthstore"
	"swimcraft/app/internal/repository/mongo"
	"swimcraft/app/internal/service"
	"swimcraft/app/internal/storage"
)

// @title SwimCraft API
// @version 1.0
// @description API for managing swim workouts, coach associations and exports.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting swimcraft server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts")); err != nil {
			logger.Warn("workout index creation failed", zap.Error(err))
		}
	}()

	// --- Health Store ---
	// A failed open degrades to persisted-only operation rather than
	// refusing to start.
	health := healthstore.Unavailable()
	if cfg.HealthStore.Disabled {
		logger.Info("health store disabled by configuration")
	} else {
		opened, err := healthstore.Open(cfg.HealthStore.Path, logger)
		if err != nil {
			logger.Warn("health store unavailable, continuing persisted-only",
				zap.String("path", cfg.HealthStore.Path),
				zap.Error(err))
		} else {
			health = opened
			defer func() {
				if err := health.Close(); err != nil {
					logger.Error("failed to close health store", zap.Error(err))
				}
			}()
		}
	}

	// --- File Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, logger)
	if err != nil {
		logger.Fatal("failed to initialize S3 storage", zap.Error(err))
	}

	// --- Coach Catalog ---
	coaches, err := coach.Load(cfg.Coaches.CatalogPath, logger)
	if err != nil {
		logger.Warn("coach catalog unusable, falling back to the default coach",
			zap.String("path", cfg.Coaches.CatalogPath),
			zap.Error(err))
		coaches = []domain.Coach{coach.DefaultCoach()}
	}
	logger.Info("coach catalog loaded", zap.Int("coaches", len(coaches)))

	// --- Repositories ---
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)

	// --- Companion Channel ---
	sender := companion.NewHTTPSender(cfg.Companion.Endpoint, cfg.Companion.Timeout, logger)

	// --- Services ---
	workoutService := service.NewWorkoutService(workoutRepo, health, sender, generator.New(), logger)
	exportService := service.NewExportService(workoutService, export.NewRenderer(logger), fileStorage, logger)

	// --- Handlers and Routes ---
	workoutHandler := api.NewWorkoutHandler(workoutService, exportService, coaches, logger)
	coachHandler := api.NewCoachHandler(coaches)

	router := gin.Default()
	api.SetupRoutes(router, workoutHandler, coachHandler)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen and serve failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
