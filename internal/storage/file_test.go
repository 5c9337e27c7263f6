package storage

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/scoutloop/listingscout/internal/config"
	"github.com/scoutloop/listingscout/internal/schema"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSONLArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	a, err := NewJSONLArchive(path, testLogger())
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}

	for _, title := range []string{"first", "second"} {
		rec := schema.NewRecord("widget")
		rec.Set(schema.FieldKeyword, "widget")
		rec.Set(schema.FieldTitle, title)
		rec.Set(schema.FieldPrice, 9.99)
		if err := a.Store(rec); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var doc map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			t.Fatalf("bad jsonl line: %v", err)
		}
		lines = append(lines, doc)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["title"] != "first" || lines[1]["title"] != "second" {
		t.Errorf("titles out of order: %v, %v", lines[0]["title"], lines[1]["title"])
	}
	if lines[0]["keyword"] != "widget" {
		t.Errorf("keyword = %v", lines[0]["keyword"])
	}
	if lines[0]["price"] != 9.99 {
		t.Errorf("price = %v", lines[0]["price"])
	}
	if _, ok := lines[0]["_scraped_at"]; !ok {
		t.Error("missing _scraped_at")
	}
}

func TestNewArchiveSelection(t *testing.T) {
	dir := t.TempDir()

	a, err := NewArchive(&config.ArchiveConfig{Type: "none"}, dir, testLogger())
	if err != nil || a != nil {
		t.Errorf("none: got %v, %v", a, err)
	}

	a, err = NewArchive(&config.ArchiveConfig{Type: "jsonl", Path: "records.jsonl"}, dir, testLogger())
	if err != nil {
		t.Fatalf("jsonl: %v", err)
	}
	if a.Name() != "jsonl" {
		t.Errorf("backend = %q", a.Name())
	}
	a.Close()

	if _, err := NewArchive(&config.ArchiveConfig{Type: "parquet"}, dir, testLogger()); err == nil {
		t.Error("expected error for unknown archive type")
	}
}
