package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"agrivision/farm-portal-backend/internal/advisor"
	"agrivision/farm-portal-backend/internal/alerts"
	"agrivision/farm-portal-backend/internal/config"
	"agrivision/farm-portal-backend/internal/detection"
	"agrivision/farm-portal-backend/internal/fields"
	"agrivision/farm-portal-backend/internal/imagery"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&fields.Field{}); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	r := gin.Default()

	// ---------------- FIELDS ----------------
	fieldRepo := fields.NewRepository(db)
	fieldService := fields.NewService(fieldRepo, logger)
	fields.NewHandler(fieldService, logger).RegisterRoutes(r)

	api := r.Group("/api")

	// ---------------- DETECTION ----------------
	diseaseClient := detection.NewClient(cfg.Upstream.DiseaseURL, cfg.Upstream.Timeout)
	pestClient := detection.NewClient(cfg.Upstream.PestURL, cfg.Upstream.Timeout)
	detection.NewHandler(diseaseClient, pestClient, logger).RegisterRoutes(api)

	// ---------------- IMAGERY ----------------
	sentinel := imagery.NewSentinelClient(cfg.Sentinel, cfg.Upstream.Timeout)
	inference := imagery.NewInferenceClient(cfg.Upstream.InferenceURL, cfg.Upstream.Timeout)
	imageryService := imagery.NewService(sentinel, inference, logger)
	imagery.NewHandler(imageryService, logger).RegisterRoutes(api)

	// ---------------- ADVISOR ----------------
	gemini := advisor.NewGeminiClient(cfg.Gemini, cfg.Upstream.Timeout, logger)
	aggregator := advisor.NewAggregator(gemini, logger)
	advisor.NewHandler(gemini, aggregator, logger).RegisterRoutes(api)

	// ---------------- ALERTS ----------------
	forecastClient := alerts.NewForecastClient(cfg.Upstream.ForecastURL, cfg.Upstream.Timeout)
	alertCache := alerts.NewCache()
	alertHub := alerts.NewHub(logger)
	notifier := alerts.NewWebhookNotifier(cfg.Alerts.WebhookURL, cfg.Alerts.WebhookTimeout)
	alertService := alerts.NewService(forecastClient, alertCache, alertHub, notifier, logger)
	alerts.NewHandler(alertService, alertHub, logger).RegisterRoutes(api)

	scheduler := alerts.NewScheduler(alertService, cfg.Alerts.RefreshSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start alert scheduler", zap.Error(err))
	}

	// ---------------- HEALTH ----------------
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "AgriVision API is running"})
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
