package config

import (
	"fmt"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Scrape.MaxRecords < 1 {
		return fmt.Errorf("scrape.max_records must be >= 1, got %d", cfg.Scrape.MaxRecords)
	}
	if cfg.Scrape.PageSize < 1 {
		return fmt.Errorf("scrape.page_size must be >= 1, got %d", cfg.Scrape.PageSize)
	}
	if cfg.Scrape.ContainerWait <= 0 {
		return fmt.Errorf("scrape.container_wait must be > 0")
	}
	if cfg.Scrape.SettleDelay < 0 {
		return fmt.Errorf("scrape.settle_delay must be >= 0")
	}
	if cfg.Scrape.CaptchaWait < 0 {
		return fmt.Errorf("scrape.captcha_wait must be >= 0")
	}

	if cfg.Browser.NavigateTimeout <= 0 {
		return fmt.Errorf("browser.navigate_timeout must be > 0")
	}

	if cfg.Report.Name == "" {
		return fmt.Errorf("report.name must not be empty")
	}
	if cfg.Report.RowHeight <= 0 {
		return fmt.Errorf("report.row_height must be > 0, got %v", cfg.Report.RowHeight)
	}

	switch cfg.Archive.Type {
	case "", "none", "jsonl":
	case "mongodb":
		if cfg.Archive.MongoURI == "" {
			return fmt.Errorf("archive.mongo_uri is required for archive.type mongodb")
		}
		if cfg.Archive.MongoDatabase == "" || cfg.Archive.MongoCollection == "" {
			return fmt.Errorf("archive.mongo_database and archive.mongo_collection are required for archive.type mongodb")
		}
	default:
		return fmt.Errorf("archive.type must be none/jsonl/mongodb, got %q", cfg.Archive.Type)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}
