package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pentacore/internal/cli"
	"pentacore/internal/config"
	"pentacore/internal/export"
	"pentacore/internal/form"
	"pentacore/internal/repository"
	"pentacore/internal/service"
	sharedLogger "pentacore/shared/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional, env vars override it)")
	requestPath := flag.String("request", "", "path to a YAML file with the form values (skips the interactive form)")
	outDir := flag.String("out", "", "directory for exported files (overrides output_dir)")
	flag.Parse()

	// --- 1. Загрузка конфигурации ---
	cfg, err := config.LoadCLI(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	// --- 2. Логгер (в файл или stderr, чтобы не мешать форме) ---
	if cfg.Logger.OutputPath == "" {
		cfg.Logger.OutputPath = "stderr"
	}
	logger, err := sharedLogger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *requestPath, logger); err != nil {
		if errors.Is(err, cli.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.CLIConfig, requestPath string, logger *zap.Logger) error {
	if !cfg.HasCredential() {
		return fmt.Errorf("API key is missing. Please set the AI_API_KEY environment variable")
	}

	textGen, imageGen, err := service.NewAIClients(ctx, cfg.AIConfig, logger)
	if err != nil {
		return err
	}
	generationService := service.NewGenerationService(cfg.APIKey, cfg.TextModel, cfg.ImageModel, textGen, imageGen, logger)

	sink, err := export.NewDirSink(cfg.OutputDir)
	if err != nil {
		return err
	}

	var first *form.Submission
	if requestPath != "" {
		sub, err := cli.LoadRequestFile(requestPath)
		if err != nil {
			return err
		}
		first = &sub
	}

	session := &cli.Session{
		Generator: generationService,
		// CLI живет одну сессию, лимит с запасом
		Results:  repository.NewMemoryResultRepository(1000),
		Exporter: export.NewExporter(sink, logger).WithPDFOptions(export.PDFOptions{FontPath: cfg.PDFFontPath}),
		Prompter: cli.NewSurveyPrompter(),
		Out:      os.Stdout,
		Logger:   logger,
	}
	return session.Run(ctx, first)
}
