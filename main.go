package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reportmailer/compose"
	"reportmailer/core"
	"reportmailer/llm"
	"reportmailer/logging"
	"reportmailer/metrics"
	"reportmailer/pdfprocessor"
	"reportmailer/pipeline"
	"reportmailer/shutdown"
	"reportmailer/webui"
)

func main() {
	serviceAction := flag.String("service", "", "service control: install, uninstall, start, stop, restart, status")
	flag.Parse()

	if *serviceAction != "" {
		os.Exit(runServiceCommand(os.Stdout, *serviceAction))
	}

	if !isInteractive() {
		if err := runAsService(); err != nil {
			fmt.Fprintf(os.Stderr, "Service failed: %v\n", err)
			os.Exit(core.ExitCodeError)
		}
		return
	}

	os.Exit(run(context.Background(), os.Stdout))
}

// run starts the web UI and blocks until ctx is cancelled, a shutdown signal
// arrives or the server fails. It returns the process exit code.
func run(ctx context.Context, out io.Writer) int {
	if err := godotenv.Load(); err != nil {
		// Logger isn't initialized yet; the environment alone is enough
		fmt.Fprintf(out, "Note: no .env file loaded (%v)\n", err)
	}

	cfg, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return core.ExitCodeConfig
	}

	logger, err := logging.NewLogger(logging.Options{
		Development: cfg.DevMode,
		Level:       cfg.LogLevel,
		FilePath:    cfg.LogFile,
		File:        logging.DefaultFileWriterConfig(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer logger.Sync()

	if !core.PrintStartupReport(out, core.StartupChecks(cfg)) {
		logger.Error("Startup checks failed")
		return core.ExitCodeConfig
	}

	logger.Info("Configuration loaded",
		zap.String("model", cfg.Model),
		zap.String("tokenizer_model", cfg.TokenizerModel),
		zap.Int("max_input_tokens", cfg.MaxInputTokens),
		zap.Int("extraction_max_input_tokens", cfg.ExtractionMaxInputTokens),
		zap.Int("response_tokens", cfg.ResponseTokens),
		zap.String("default_strategy", string(cfg.DefaultStrategy)),
		zap.Bool("structured_commentary", cfg.StructuredCommentary),
		zap.Bool("allow_empty_pages", cfg.AllowEmptyPages),
		zap.Duration("ai_timeout", cfg.AITimeout),
		zap.Bool("dev_mode", cfg.DevMode),
	)

	gen, err := newGenerator(cfg, logger)
	if err != nil {
		logger.Error("Failed to build generator", zap.Error(err))
		return core.ExitCodeConfig
	}

	stats := metrics.NewStore(metrics.StoreConfig{
		HistoryCapacity: metrics.DefaultStoreConfig().HistoryCapacity,
		Version:         core.VersionInfo(),
	}, time.Now())

	server, err := webui.NewServer(webui.ServerConfigFrom(cfg), gen, stats, logger)
	if err != nil {
		logger.Error("Failed to create web UI server", zap.Error(err))
		return core.ExitCodeError
	}

	manager := shutdown.NewManager(ctx, logger, shutdown.WithTimeout(cfg.ShutdownTimeout))
	manager.Register("http server", shutdown.PriorityServer, server.Shutdown)
	manager.Start()

	g, gctx := errgroup.WithContext(manager.Context())
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		return manager.Shutdown()
	})

	logger.Info("Report mailer ready", zap.String("url", "http://"+server.Addr()))

	if err := g.Wait(); err != nil {
		logger.Error("Stopped with error", zap.Error(err))
		return core.ExitCodeError
	}
	logger.Info("Goodbye!")
	return core.ExitCodeSuccess
}

// newGenerator wires the pipeline from configuration: strict or lenient
// extraction, the model's tokenizer, the completion client factory and the
// agency profile.
func newGenerator(cfg *core.Config, logger *logging.Logger) (*pipeline.Generator, error) {
	profile, err := compose.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}

	truncator, err := pdfprocessor.NewModelTruncator(cfg.TokenizerModel)
	if err != nil {
		return nil, err
	}

	factory := llm.NewClientFactory(cfg)

	return pipeline.New(pipeline.Config{
		Extractor:                pdfprocessor.NewExtractor(pdfprocessor.ExtractorConfig{AllowEmptyPages: cfg.AllowEmptyPages}),
		Truncator:                truncator,
		Completers:               factory.Completer,
		Profile:                  profile,
		MaxInputTokens:           cfg.MaxInputTokens,
		ExtractionMaxInputTokens: cfg.ExtractionMaxInputTokens,
		DefaultStrategy:          cfg.DefaultStrategy,
		Commentary:               cfg.StructuredCommentary,
		Logger:                   logger,
	}), nil
}
