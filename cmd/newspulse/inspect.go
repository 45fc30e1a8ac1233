package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

var maxPages int

// linksCmd creates the "links" subcommand, which runs discovery only.
func linksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links <channel> <topic>",
		Short: "List article links a channel returns for a topic",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := interruptible()
			defer stop()

			n := articles
			if n == 0 {
				n = a.cfg.Discovery.DefaultMaxArticles
			}
			res := a.registry.Discover(ctx, args[0], types.SearchQuery{
				Topic:       strings.Join(args[1:], " "),
				MaxArticles: n,
				MaxPages:    maxPages,
			})

			out := cmd.OutOrStdout()
			for _, link := range res.Links {
				fmt.Fprintln(out, link)
			}
			a.logger.Info("discovery finished", "channel", args[0], "status", res.Status, "links", len(res.Links), "pages", res.Pages)
			if !res.OK() {
				return fmt.Errorf("discovery %s: %w", res.Status, res.Err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&articles, "articles", "n", 0, "maximum links (default from config)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum listing pages (default from channel)")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	return cmd
}

// extractCmd creates the "extract" subcommand, which reads one article.
func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <channel> <url>",
		Short: "Print the text a channel's extractor reads from an article URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateURL(args[1]); err != nil {
				return fmt.Errorf("invalid URL %q: %w", args[1], err)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := interruptible()
			defer stop()

			res := a.registry.Extract(ctx, args[0], args[1])
			if !res.OK() {
				return fmt.Errorf("extract %s: %w", res.Status, res.Err)
			}

			out := cmd.OutOrStdout()
			if res.Title != "" {
				fmt.Fprintf(out, "Title:  %s\n", res.Title)
			}
			if res.Author != "" {
				fmt.Fprintf(out, "Author: %s\n", res.Author)
			}
			fmt.Fprintf(out, "\n%s\n", res.Text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&readability, "readability", false, "fall back to readability when the content root is missing")
	return cmd
}

// channelsCmd creates the "channels" subcommand.
func channelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List configured channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPAGINATION\tCONTENT\tSEARCH")
			for _, ch := range cfg.Channels {
				content := ch.ContentSelector
				if content == "" {
					content = "(document)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ch.Name, ch.Pagination, content, ch.SearchURL)
			}
			return tw.Flush()
		},
	}
}
