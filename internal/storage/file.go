package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/scoutloop/listingscout/internal/schema"
)

// JSONLArchive appends records to a file, one JSON document per line.
type JSONLArchive struct {
	path   string
	file   *os.File
	enc    *json.Encoder
	count  int
	logger *slog.Logger
}

// NewJSONLArchive creates (or truncates) the archive file.
func NewJSONLArchive(path string, logger *slog.Logger) (*JSONLArchive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive file: %w", err)
	}
	return &JSONLArchive{
		path:   path,
		file:   f,
		enc:    json.NewEncoder(f),
		logger: logger.With("component", "jsonl_archive"),
	}, nil
}

func (a *JSONLArchive) Name() string { return "jsonl" }

func (a *JSONLArchive) Store(rec *schema.Record) error {
	doc := rec.Flat()
	doc["_scraped_at"] = time.Now().UTC().Format(time.RFC3339)
	if err := a.enc.Encode(doc); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	a.count++
	return nil
}

func (a *JSONLArchive) Close() error {
	a.logger.Info("archive closing", "path", a.path, "records", a.count)
	return a.file.Close()
}
