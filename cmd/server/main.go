package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_edit_similarity/pkg/revision"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editsim-server",
		Short: "HTTP service scoring how much operators revised generated drafts",
		Long: `editsim-server exposes the draft revision edit ratio over HTTP.

Settings come from flags, EDITSIM_* environment variables (for example
EDITSIM_THRESHOLD=0.4) or a config file passed with --config.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}

func run(cfg Config) error {
	logger, err := createLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.Info("Starting edit similarity HTTP server",
		"port", cfg.Port,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"max_text_length", cfg.MaxTextLength,
		"normalizer", cfg.Normalizer,
		"threshold", cfg.Threshold,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	scorer, err := newScorer(cfg, logger, registry)
	if err != nil {
		logger.Error("Failed to initialize scorer", "error", err)
		return err
	}
	defer scorer.Close()

	srv := newServer(scorer, logger, registry, cfg.MaxTextLength)

	server := &fasthttp.Server{
		Handler:               srv.requestHandler,
		Name:                  "EditSimilarityServer",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		MaxRequestBodySize:    cfg.MaxRequestSize,
		Concurrency:           cfg.Concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Server listening", "address", addr)
	if err := server.ListenAndServe(addr); err != nil {
		logger.Error("Server error", "error", err)
		return err
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
	return nil
}

func newScorer(cfg Config, logger l.Logger, reg prometheus.Registerer) (*revision.Scorer, error) {
	opts := []revision.Option{
		revision.WithLogger(logger),
		revision.WithThreshold(cfg.Threshold),
		revision.WithPrecision(cfg.Precision),
		revision.WithNormalizerName(cfg.Normalizer),
		revision.WithCache(cfg.CacheSize),
		revision.WithObserver("edit_similarity", reg),
	}
	if cfg.WarmUp {
		opts = append(opts, revision.WithWarmUp(true))
	}

	scorer, err := revision.New(opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("Scorer initialized",
		"warm_up", cfg.WarmUp,
		"cache_size", cfg.CacheSize,
		"cpus", runtime.NumCPU(),
	)
	return scorer, nil
}

// createLogger creates and configures a logger
func createLogger(logFile string) (l.Logger, error) {
	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  true,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
