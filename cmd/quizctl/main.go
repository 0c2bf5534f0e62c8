// Command quizctl inspects a question feed from the terminal: it parses the
// sheet, lists subjects, builds quiz lists and re-exports the records as
// CSV.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetquiz/internal/config"
	"github.com/JonMunkholm/sheetquiz/internal/feed"
	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/sheet"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	feedURL  string
	format   string
	timeout  time.Duration
	logLevel string
}

func main() {
	// A missing .env is normal for the CLI.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "quizctl",
		Short:         "Inspect sheetquiz question feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.feedURL, "feed", "", "Feed URL, file:// URL or local path (default: $FEED_URL or the built-in sheet)")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", "Feed format: auto|csv|xlsx")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 20*time.Second, "Fetch timeout")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")

	rootCmd.AddCommand(
		newParseCmd(opts),
		newSubjectsCmd(opts),
		newListCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

// resolveFeedURL picks the flag, then FEED_URL or CSV_URL, then the default.
func (o *globalOptions) resolveFeedURL() string {
	if o.feedURL != "" {
		return o.feedURL
	}
	for _, env := range []string{"FEED_URL", "CSV_URL"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return config.DefaultFeedURL
}

// loadRecords fetches and decodes the configured feed.
func (o *globalOptions) loadRecords(ctx context.Context) ([]sheet.Record, error) {
	format, err := feed.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}

	f := feed.New(feed.Options{
		URL:     o.resolveFeedURL(),
		Format:  format,
		Timeout: o.timeout,
	})

	start := time.Now()
	records, err := f.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.URL(), err)
	}
	slog.Info("feed loaded",
		"url", f.URL(),
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}
