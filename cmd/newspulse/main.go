package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/logging"
)

var (
	cfgFile        string
	verbose        bool
	logLevel       string
	logFormat      string
	channelNames   []string
	articles       int
	summarize      bool
	wordCloud      bool
	summarizerKind string
	concurrent     int
	exportFormat   string
	outputPath     string
	reportPath     string
	readability    bool
	headful        bool
	serveAddr      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newspulse",
		Short: "NewsPulse: news channel sentiment analysis",
		Long: `NewsPulse searches news channels for a topic, reads the matching articles
and scores their sentiment.

Features:
  • Headless browser link discovery for BBC, CNN, Dawn News, Fox News, TRT News and Al Jazeera
  • Article extraction with CSS or XPath content roots
  • VADER sentiment, chunked summaries, keywords and word clouds
  • HTML report with per-channel charts
  • JSON, JSONL, CSV export`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json, tint")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(linksCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(channelsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("NewsPulse %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}
}

// loadConfig loads, overrides and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger creates a structured logger from the logging section. The
// returned function closes a log file, if one was opened.
func setupLogger(cfg *config.Config) (*slog.Logger, func() error, error) {
	w, closeFn, err := logging.Output(cfg.Logging.Output)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging, w)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if logLevel != "" {
		cfg.Logging.Level = strings.ToLower(logLevel)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Logging.Format = strings.ToLower(logFormat)
	}
	if concurrent > 0 {
		cfg.Discovery.ChannelConcurrency = concurrent
	}
	if summarize {
		cfg.Analysis.Summarize = true
	}
	// The word cloud is drawn from the summarized text.
	if wordCloud {
		cfg.Analysis.Summarize = true
		cfg.Analysis.WordCloud = true
	}
	if summarizerKind != "" {
		cfg.Analysis.Summarizer = strings.ToLower(summarizerKind)
	}
	if exportFormat != "" {
		cfg.Storage.Type = strings.ToLower(exportFormat)
	}
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if reportPath != "" {
		cfg.Report.OutputPath = reportPath
	}
	if readability {
		cfg.Extract.ReadabilityFallback = true
	}
	if headful {
		cfg.Browser.Headless = false
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
}
