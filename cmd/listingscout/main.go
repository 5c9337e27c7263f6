package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scoutloop/listingscout/internal/config"
	"github.com/scoutloop/listingscout/internal/scrape"
)

var (
	cfgFile    string
	verbose    bool
	outputDir  string
	maxRecords int
	pageSize   int
	headful    bool
	archive    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "listingscout",
		Short: "listingscout — keyword listing scraper with xlsx reports",
		Long: `listingscout scrapes marketplace search results for a list of keywords
and compiles the listings into a multi-sheet Excel report.

Each keyword gets its own worksheet; an "All Keywords" sheet aggregates
every record. Rows carry the listing image, title and seller hyperlinks,
the price as currency, the item id, and the shipping cost.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [keyword]...",
		Short: "Scrape search results for one or more keywords",
		Long:  "Scrape the search-results pages for every keyword and write the report workbook into the output directory.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScrape,
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "./output", "output directory for the report")
	cmd.Flags().IntVarP(&maxRecords, "max-records", "m", 0, "max records per keyword (0 = use config default)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "listing elements per page fetch (0 = use config default)")
	cmd.Flags().BoolVar(&headful, "headful", false, "run the browser with a visible window")
	cmd.Flags().StringVar(&archive, "archive", "", "also archive records: jsonl or mongodb")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(&cfg.Logging)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	logger.Info("starting scrape",
		"keywords", args,
		"max_records", cfg.Scrape.MaxRecords,
		"output", outputDir,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scrape.Run(ctx, cfg, args, outputDir, logger); err != nil {
		return fmt.Errorf("scrape run: %w", err)
	}
	return nil
}

// applyCLIOverrides applies flag values on top of the loaded config.
func applyCLIOverrides(cfg *config.Config) {
	if maxRecords > 0 {
		cfg.Scrape.MaxRecords = maxRecords
	}
	if pageSize > 0 {
		cfg.Scrape.PageSize = pageSize
	}
	if headful {
		cfg.Browser.Headless = false
	}
	if archive != "" {
		cfg.Archive.Type = archive
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("listingscout %s\n", config.Version)
		},
	}
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	return slog.New(newLogHandler(os.Stderr, cfg))
}

func newLogHandler(w io.Writer, cfg *config.LoggingConfig) slog.Handler {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
