// Package scrape drives the search-results pages for each term and feeds
// extracted records into the report.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/scoutloop/listingscout/internal/config"
	"github.com/scoutloop/listingscout/internal/extract"
	"github.com/scoutloop/listingscout/internal/schema"
)

// Results-page topology. One container selector, one selector for the
// listing cards inside it.
const (
	resultsContainerSelector = "div.srp-river-results"
	listingSelector          = "div.srp-river-results > ul > li > div.s-item__wrapper"
)

// SearchURL builds the results URL for a term and one-based page number.
func SearchURL(term string, page int) string {
	u := "https://www.ebay.com/sch/i.html?_nkw=" + url.QueryEscape(term)
	if page > 1 {
		u += fmt.Sprintf("&_pgn=%d", page)
	}
	return u
}

// Pager is the page-level automation surface the driver consumes.
type Pager interface {
	Navigate(url string) error
	ClearInterstitial(maxWait time.Duration)
	WaitVisible(selector string, timeout time.Duration) bool
	Listings(selector string, max int) ([]string, error)
	Screenshot(path string) error
}

// ImageFetcher downloads a remote image into dir; failures return absence.
type ImageFetcher interface {
	Download(ctx context.Context, rawURL, dir, baseName string) (string, bool)
}

// RecordSink receives completed records; implementations contain their own
// failures.
type RecordSink interface {
	Append(rec *schema.Record)
}

// driver state machine
type state int

const (
	stateStart state = iota
	stateFetching
	stateProcessing
	stateExhausted
	stateDone
)

// KeywordScraper processes one term to completion: all pages, all records,
// up to the per-term cap. Failures exhaust the term; they never escape.
type KeywordScraper struct {
	term      string
	pager     Pager
	extractor *extract.Extractor
	images    ImageFetcher
	termSheet RecordSink
	total     RecordSink
	extra     []RecordSink
	cfg       *config.ScrapeConfig
	logger    *slog.Logger

	imagesDir      string
	screenshotsDir string

	processed  int
	screenshot bool
}

// NewKeywordScraper wires a driver for one term. extra sinks (such as an
// archive) receive every record after the term and aggregate sheets.
func NewKeywordScraper(
	term string,
	pager Pager,
	extractor *extract.Extractor,
	images ImageFetcher,
	termSheet, total RecordSink,
	extra []RecordSink,
	cfg *config.ScrapeConfig,
	imagesDir, screenshotsDir string,
	logger *slog.Logger,
) *KeywordScraper {
	return &KeywordScraper{
		term:           term,
		pager:          pager,
		extractor:      extractor,
		images:         images,
		termSheet:      termSheet,
		total:          total,
		extra:          extra,
		cfg:            cfg,
		imagesDir:      imagesDir,
		screenshotsDir: screenshotsDir,
		logger:         logger.With("component", "keyword_scraper", "term", term),
	}
}

// Processed returns the number of records handed to the sinks.
func (s *KeywordScraper) Processed() int {
	return s.processed
}

// Run walks the pagination state machine for the term. It never returns an
// error: every failure is logged and exhausts the current term so the run
// can continue with the next one.
func (s *KeywordScraper) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("term aborted by panic", "panic", r)
		}
	}()

	st := stateStart
	page := 1
	var batch []string

	for st != stateDone {
		if ctx.Err() != nil {
			s.logger.Warn("term canceled", "error", ctx.Err())
			st = stateExhausted
		}

		switch st {
		case stateStart:
			target := SearchURL(s.term, page)
			s.logger.Info("navigating", "url", target)
			if err := s.pager.Navigate(target); err != nil {
				s.logger.Error("navigation failed", "error", err)
				st = stateExhausted
				continue
			}
			s.pager.ClearInterstitial(s.cfg.CaptchaWait)
			st = stateFetching

		case stateFetching:
			if page > 1 {
				if err := s.pager.Navigate(SearchURL(s.term, page)); err != nil {
					s.logger.Error("navigation failed", "page", page, "error", err)
					st = stateExhausted
					continue
				}
			}
			if !s.pager.WaitVisible(resultsContainerSelector, s.cfg.ContainerWait) {
				s.logger.Info("no results container", "page", page)
				st = stateExhausted
				continue
			}
			b, err := s.pager.Listings(listingSelector, s.cfg.PageSize)
			if err != nil {
				s.logger.Error("fetching listings failed", "page", page, "error", err)
				st = stateExhausted
				continue
			}
			s.takeScreenshotOnce()
			if len(b) == 0 {
				s.logger.Info("no results found")
				st = stateExhausted
				continue
			}
			batch = b
			st = stateProcessing

		case stateProcessing:
			lastPage := len(batch) < s.cfg.PageSize
			s.processBatch(ctx, batch)
			if s.processed >= s.cfg.MaxRecords || lastPage {
				st = stateExhausted
				continue
			}
			page++
			st = stateFetching

		case stateExhausted:
			// Terminal for this term; no further pages regardless of
			// whether the cap was reached.
			st = stateDone
		}
	}

	s.logger.Info("term finished", "records", s.processed, "pages", page)
}

// processBatch extracts and writes records in document order, stopping
// mid-page once the per-term cap is reached.
func (s *KeywordScraper) processBatch(ctx context.Context, batch []string) {
	for _, raw := range batch {
		if s.processed >= s.cfg.MaxRecords {
			s.logger.Debug("record cap reached mid-page", "cap", s.cfg.MaxRecords)
			return
		}

		listing, err := extract.ParseListing(raw)
		if err != nil {
			s.logger.Debug("unparseable listing element", "error", err)
			continue
		}
		rec := s.extractor.Extract(listing, s.term)

		if imgURL, ok := rec.String(schema.FieldImageURL); ok {
			base := fmt.Sprintf("listing %s %d", s.term, s.processed+1)
			if localPath, ok := s.images.Download(ctx, imgURL, s.imagesDir, base); ok {
				rec.Set(schema.FieldImagePath, localPath)
			}
		}

		s.termSheet.Append(rec)
		s.total.Append(rec)
		for _, sink := range s.extra {
			sink.Append(rec)
		}
		s.processed++
	}
}

// takeScreenshotOnce captures one diagnostic screenshot per term, after a
// short settle delay. Best-effort only.
func (s *KeywordScraper) takeScreenshotOnce() {
	if s.screenshot {
		return
	}
	s.screenshot = true

	time.Sleep(s.cfg.SettleDelay)
	path := filepath.Join(s.screenshotsDir, s.term+".png")
	if err := s.pager.Screenshot(path); err != nil {
		s.logger.Warn("screenshot failed", "path", path, "error", err)
		return
	}
	s.logger.Debug("screenshot captured", "path", path)
}
