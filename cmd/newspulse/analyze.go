package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/NewsPulse/internal/pipeline"
	"github.com/IshaanNene/NewsPulse/internal/report"
	"github.com/IshaanNene/NewsPulse/internal/storage"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [topic]",
		Short: "Search channels for a topic and score article sentiment",
		Long: `Search the selected channels for a topic, read up to --articles articles from
each and score their sentiment. Results are printed as a table and written to
an HTML report; --export also writes the records as JSON, JSONL or CSV.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringSliceVar(&channelNames, "channels", nil, "comma-separated channels (default: all)")
	cmd.Flags().IntVarP(&articles, "articles", "n", 0, "articles per channel (default from config)")
	cmd.Flags().BoolVarP(&summarize, "summarize", "s", false, "generate article summaries")
	cmd.Flags().BoolVarP(&wordCloud, "wordcloud", "w", false, "generate word clouds (implies --summarize)")
	cmd.Flags().StringVar(&summarizerKind, "summarizer", "", "summarizer: extractive, llm")
	cmd.Flags().IntVar(&concurrent, "concurrency", 0, "channels processed at once")
	cmd.Flags().StringVarP(&exportFormat, "export", "f", "", "export records as json, jsonl or csv, named after the topic (results.* when the topic has no letters or digits)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "export directory")
	cmd.Flags().StringVar(&reportPath, "report", "", "HTML report path")
	cmd.Flags().BoolVar(&readability, "readability", false, "fall back to readability when the content root is missing")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")

	return cmd
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	req := pipeline.Request{
		Channels:    channelNames,
		Topic:       strings.Join(args, " "),
		MaxArticles: articles,
		Summarize:   cfg.Analysis.Summarize,
		WordCloud:   cfg.Analysis.Summarize && cfg.Analysis.WordCloud,
	}
	if len(req.Channels) == 0 {
		req.Channels = a.registry.Names()
	}
	if req.MaxArticles == 0 {
		req.MaxArticles = cfg.Discovery.DefaultMaxArticles
	}

	ctx, stop := interruptible()
	defer stop()

	a.logger.Info("starting analysis",
		"topic", req.Topic,
		"channels", req.Channels,
		"articles", req.MaxArticles,
		"summarize", req.Summarize,
		"wordcloud", req.WordCloud,
	)

	start := time.Now()
	rep, runErr := a.runner().Run(ctx, req)
	if rep == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	report.WriteNotices(out, rep.Notices)
	if len(rep.Records) > 0 {
		fmt.Fprintln(out)
		report.WriteTable(out, rep.Records)
		fmt.Fprintln(out)
		report.WriteSummary(out, rep.Records)
	}

	if cfg.Report.OutputPath != "" {
		if err := report.WriteFile(cfg.Report.OutputPath, report.Page{Title: cfg.Report.Title, Report: rep}); err != nil {
			a.logger.Warn("failed to write report", "path", cfg.Report.OutputPath, "error", err)
		} else {
			fmt.Fprintf(out, "\nReport:  %s\n", cfg.Report.OutputPath)
		}
	}

	if exportFormat != "" && len(rep.Records) > 0 {
		store, err := storage.NewFileStorage(cfg.Storage.Type, cfg.Storage.OutputPath, fileBase(req.Topic), a.logger)
		if err != nil {
			return fmt.Errorf("create storage: %w", err)
		}
		if err := storage.Export(store, rep.Records); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		a.metrics.RecordsStored.Add(int64(len(rep.Records)))
		fmt.Fprintf(out, "Export:  %s\n", store.Path())
	}

	a.metrics.LogSummary()
	fmt.Fprintf(out, "\nDone in %s\n", time.Since(start).Round(time.Millisecond))

	if errors.Is(runErr, types.ErrNoArticles) {
		return errors.New("no articles could be analyzed")
	}
	return runErr
}

// fileBase turns a topic into a file name. It is empty when the topic has no
// letters or digits, and storage then falls back to "results".
func fileBase(topic string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(topic) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// interruptible returns a context cancelled on SIGINT or SIGTERM.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
