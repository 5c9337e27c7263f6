package scrape

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/scoutloop/listingscout/internal/config"
	"github.com/scoutloop/listingscout/internal/report"
)

// fakeSession adapts fakePager to the Session interface.
type fakeSession struct {
	fakePager
	closed bool
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func testRunConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scrape.PageSize = 5
	cfg.Scrape.SettleDelay = 0
	cfg.Report.Name = "report"
	return cfg
}

func TestRunAllBlankTermsProducesNothing(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	opened := false
	open := func() (Session, error) {
		opened = true
		return &fakeSession{}, nil
	}

	err := run(context.Background(), testRunConfig(), []string{"", "   "}, dir, open, noImages{}, logger)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if opened {
		t.Error("browser session opened for an all-blank term list")
	}
	if _, err := os.Stat(filepath.Join(dir, "report.xlsx")); !os.IsNotExist(err) {
		t.Error("report file created for an all-blank term list")
	}
	if !strings.Contains(buf.String(), "no search terms") {
		t.Errorf("missing warning, logs: %s", buf.String())
	}
}

func TestRunBlankTermSkippedOthersProcessed(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	session := &fakeSession{fakePager: fakePager{batches: [][]string{makeBatch(2, 0)}}}
	open := func() (Session, error) { return session, nil }

	err := run(context.Background(), testRunConfig(), []string{"", "widget"}, dir, open, noImages{}, logger)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !session.closed {
		t.Error("session not closed after run")
	}
	if !strings.Contains(buf.String(), "empty search term") {
		t.Errorf("missing blank-term warning, logs: %s", buf.String())
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "report.xlsx"))
	if err != nil {
		t.Fatalf("reopen report: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != report.TotalSheetName || sheets[1] != "widget" {
		t.Errorf("sheets = %v, want [%s widget]", sheets, report.TotalSheetName)
	}

	// Both sheets carry the two records from "widget".
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			t.Fatalf("rows of %s: %v", sheet, err)
		}
		if len(rows) != 3 { // header + 2 data rows
			t.Errorf("%s has %d rows, want 3", sheet, len(rows))
		}
	}
}

func TestRunRemovesImagesKeepsScreenshots(t *testing.T) {
	dir := t.TempDir()
	session := &fakeSession{fakePager: fakePager{batches: [][]string{makeBatch(1, 0)}}}
	open := func() (Session, error) { return session, nil }

	err := run(context.Background(), testRunConfig(), []string{"widget"}, dir, open, noImages{}, testLogger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, imagesFolder)); !os.IsNotExist(err) {
		t.Error("transient images folder was not removed")
	}
	if _, err := os.Stat(filepath.Join(dir, screenshotsFolder)); err != nil {
		t.Errorf("screenshots folder missing: %v", err)
	}
}

func TestRunArchivesRecords(t *testing.T) {
	dir := t.TempDir()
	cfg := testRunConfig()
	cfg.Archive.Type = "jsonl"
	cfg.Archive.Path = "records.jsonl"

	session := &fakeSession{fakePager: fakePager{batches: [][]string{makeBatch(3, 0)}}}
	open := func() (Session, error) { return session, nil }

	err := run(context.Background(), cfg, []string{"widget"}, dir, open, noImages{}, testLogger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "records.jsonl"))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1
	if lines != 3 {
		t.Errorf("archive has %d lines, want 3", lines)
	}
}
