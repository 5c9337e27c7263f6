// Package storage provides the optional secondary archive for extracted
// records. The xlsx report is always the primary artifact; an archive is a
// machine-readable copy for downstream tooling.
package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/scoutloop/listingscout/internal/config"
	"github.com/scoutloop/listingscout/internal/schema"
)

// Archive is the interface for record archive backends.
type Archive interface {
	// Store persists one record.
	Store(rec *schema.Record) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the backend identifier.
	Name() string
}

// NewArchive builds the archive backend selected by configuration. A nil
// archive with a nil error means archiving is disabled.
func NewArchive(cfg *config.ArchiveConfig, outputDir string, logger *slog.Logger) (Archive, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "jsonl":
		path := cfg.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(outputDir, path)
		}
		return NewJSONLArchive(path, logger)
	case "mongodb":
		return NewMongoArchive(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unknown archive type %q", cfg.Type)
	}
}
