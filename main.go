package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/kvasey/monday-label-sync/api"
	"github.com/kvasey/monday-label-sync/integrations"
	"github.com/kvasey/monday-label-sync/internal/config"
	"github.com/kvasey/monday-label-sync/internal/pipeline"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		levelStr = "debug"
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := logConfig.Build()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Configuration error", zap.Error(err))
	}

	monday := integrations.NewMondayClient(cfg.APIToken, cfg.FileColumnID)
	labelPipeline := pipeline.New(monday, cfg.OutputDir)

	router := gin.New()
	router.Use(api.RequestID())
	router.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("requestID", c.GetString("request_id"))}
		},
	}))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	apiHandler := &api.Handler{Pipeline: labelPipeline}
	router.GET("/webhook/monday", apiHandler.MondayWebhookHandler)
	router.POST("/webhook/monday", apiHandler.MondayWebhookHandler)
	router.GET("/health", apiHandler.HealthCheckHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	zap.L().Info("Starting label webhook server",
		zap.String("port", cfg.Port),
		zap.String("outputDir", cfg.OutputDir))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	sig := <-sigCh
	zap.L().Info("Shutdown initiated", zap.String("reason", sig.String()))

	// if a second signal is caught, exit immediately
	go func() {
		<-sigCh
		zap.L().Info("Second interrupt signal received. Exiting immediately.")
		os.Exit(1)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Error shutting down server", zap.Error(err))
	} else {
		zap.L().Info("HTTP server shut down gracefully.")
	}
	zap.L().Info("Exiting...")
}
