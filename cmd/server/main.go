package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pentacore/internal/config"
	"pentacore/internal/export"
	"pentacore/internal/handler"
	"pentacore/internal/repository"
	"pentacore/internal/service"
	sharedLogger "pentacore/shared/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// --- 1. Загрузка конфигурации ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- 2. Логгер ---
	logger, err := sharedLogger.New(cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	zap.ReplaceGlobals(logger)
	logger.Info("Logger initialized successfully", zap.String("logLevel", cfg.Logger.Level))

	// --- 3. AI клиенты и конвейер ---
	var textGen service.TextGenerator
	var imageGen service.ImageGenerator
	if cfg.HasCredential() {
		initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
		textGen, imageGen, err = service.NewAIClients(initCtx, cfg.AIConfig, logger)
		initCancel()
		if err != nil {
			logger.Fatal("Failed to create AI clients", zap.Error(err))
		}
	} else {
		// Сервер поднимается без ключа: форма работает, генерация вернет 503
		logger.Warn("AI_API_KEY is not set, generation requests will be rejected")
	}

	generationService := service.NewGenerationService(cfg.APIKey, cfg.TextModel, cfg.ImageModel, textGen, imageGen, logger)
	results := repository.NewMemoryResultRepository(cfg.ResultsCapacity)
	generationHandler := handler.NewGenerationHandler(generationService, results, logger).
		WithPDFOptions(export.PDFOptions{FontPath: cfg.PDFFontPath})

	// --- 4. HTTP сервер (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := handler.NewRouter(generationHandler, handler.RouterOptions{
		AllowedOrigins: cfg.GetAllowedOrigins(),
	}, logger)

	// Генерация - два последовательных вызова модели, запас по времени на оба
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Starting HTTP server",
		zap.String("port", cfg.ServerPort),
		zap.String("provider", cfg.Provider),
		zap.String("text_model", cfg.TextModel),
		zap.String("image_model", cfg.ImageModel),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- 5. Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
