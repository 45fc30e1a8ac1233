package main

import (
	"errors"
	"log/slog"

	"github.com/IshaanNene/NewsPulse/internal/ai"
	"github.com/IshaanNene/NewsPulse/internal/analysis"
	"github.com/IshaanNene/NewsPulse/internal/browser"
	"github.com/IshaanNene/NewsPulse/internal/channel"
	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/fetcher"
	"github.com/IshaanNene/NewsPulse/internal/observability"
	"github.com/IshaanNene/NewsPulse/internal/pipeline"
)

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	browsers *browser.Manager
	fetcher  *fetcher.HTTPFetcher
	registry *channel.Registry
	closeLog func() error
}

// newApp loads the configuration and builds the channel registry.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics(logger)

	browsers := browser.NewManager(cfg.Browser, logger)
	browsers.SetActiveGauge(&metrics.ActiveSessions)

	httpFetcher := fetcher.NewHTTPFetcher(cfg.Fetcher, logger)

	registry, err := channel.Build(cfg, browsers, httpFetcher, logger)
	if err != nil {
		httpFetcher.Close()
		closeLog()
		return nil, err
	}

	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		browsers: browsers,
		fetcher:  httpFetcher,
		registry: registry,
		closeLog: closeLog,
	}, nil
}

// runner wires the analysis stages to the registry.
func (a *app) runner() *pipeline.Runner {
	classifier := analysis.NewVaderClassifier(a.cfg.Analysis.PositiveThreshold, a.cfg.Analysis.NegativeThreshold)

	var backend analysis.Backend = analysis.Extractive{Sentences: a.cfg.Analysis.SummarySentences}
	if a.cfg.Analysis.Summarizer == "llm" {
		backend = ai.NewSummarizer(ai.NewLLMClient(a.cfg.AI, a.logger))
	}
	summarizer := analysis.NewChunkedSummarizer(backend, a.cfg.Analysis.ChunkWords, a.logger)

	return pipeline.NewRunner(a.registry, classifier, summarizer, pipeline.Options{
		TruncateWords: a.cfg.Analysis.TruncateWords,
		KeywordsTopN:  a.cfg.Analysis.KeywordsTopN,
		Concurrency:   a.cfg.Discovery.ChannelConcurrency,
		ArticleLimit:  a.cfg.Discovery.MaxArticlesLimit,
	}, a.metrics, a.logger)
}

// Close releases the fetcher and the log output.
func (a *app) Close() error {
	return errors.Join(a.fetcher.Close(), a.closeLog())
}
