package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scoutloop/listingscout/internal/browser"
	"github.com/scoutloop/listingscout/internal/config"
	"github.com/scoutloop/listingscout/internal/extract"
	"github.com/scoutloop/listingscout/internal/media"
	"github.com/scoutloop/listingscout/internal/report"
	"github.com/scoutloop/listingscout/internal/schema"
	"github.com/scoutloop/listingscout/internal/storage"
)

// Working subfolders inside the output directory. The images folder is
// transient; screenshots are retained for diagnostics.
const (
	imagesFolder      = "listing-images"
	screenshotsFolder = "screenshots"
)

// Session is the automation capability the orchestrator manages for a run.
type Session interface {
	Pager
	Close() error
}

// Run processes every term against a real browser session and persists the
// report into outputDir.
func Run(ctx context.Context, cfg *config.Config, terms []string, outputDir string, logger *slog.Logger) error {
	open := func() (Session, error) {
		return browser.NewSession(&cfg.Browser, logger)
	}
	return run(ctx, cfg, terms, outputDir, open, media.NewDownloader(logger), logger)
}

// run is the orchestrator core, split out so tests can substitute the
// session and downloader.
func run(
	ctx context.Context,
	cfg *config.Config,
	terms []string,
	outputDir string,
	open func() (Session, error),
	images ImageFetcher,
	logger *slog.Logger,
) error {
	start := time.Now()

	if !hasLiveTerm(terms) {
		logger.Warn("no search terms provided, nothing to do")
		return nil
	}

	imagesDir := filepath.Join(outputDir, imagesFolder)
	screenshotsDir := filepath.Join(outputDir, screenshotsFolder)
	for _, dir := range []string{imagesDir, screenshotsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create working dir: %w", err)
		}
	}
	// The images only exist to be embedded; drop them once the run is over.
	defer os.RemoveAll(imagesDir)

	session, err := open()
	if err != nil {
		return fmt.Errorf("open browser session: %w", err)
	}
	defer session.Close()

	wb, err := report.NewWorkbook(cfg.Report.Name, outputDir, logger,
		report.WithRowHeight(cfg.Report.RowHeight))
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}

	archive, err := storage.NewArchive(&cfg.Archive, outputDir, logger)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	var extra []RecordSink
	if archive != nil {
		defer archive.Close()
		extra = append(extra, &archiveSink{archive: archive, logger: logger})
	}

	extractor := extract.New(logger)

	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			logger.Warn("empty search term encountered, skipping")
			continue
		}

		sheet, err := wb.NewSheet(term)
		if err != nil {
			logger.Error("sheet creation failed, term skipped", "term", term, "error", err)
			continue
		}

		scraper := NewKeywordScraper(term, session, extractor, images,
			sheet, wb.TotalSheet(), extra, &cfg.Scrape,
			imagesDir, screenshotsDir, logger)
		scraper.Run(ctx)
	}

	if err := wb.Close(); err != nil {
		return fmt.Errorf("finalize report: %w", err)
	}

	logger.Info("run complete",
		"records", wb.TotalSheet().Rows(),
		"runtime", time.Since(start).Round(time.Millisecond),
		"output", outputDir,
	)
	return nil
}

func hasLiveTerm(terms []string) bool {
	for _, t := range terms {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

// archiveSink adapts a storage.Archive to the RecordSink contract: archive
// failures are logged, never fatal to the run.
type archiveSink struct {
	archive storage.Archive
	logger  *slog.Logger
}

func (s *archiveSink) Append(rec *schema.Record) {
	if err := s.archive.Store(rec); err != nil {
		s.logger.Warn("archive write failed", "backend", s.archive.Name(), "error", err)
	}
}
