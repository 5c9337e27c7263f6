package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for listingscout.
type Config struct {
	Scrape  ScrapeConfig  `mapstructure:"scrape"  yaml:"scrape"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Report  ReportConfig  `mapstructure:"report"  yaml:"report"`
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ScrapeConfig controls pagination and per-term limits.
type ScrapeConfig struct {
	// MaxRecords caps the records processed per term across all pages.
	MaxRecords int `mapstructure:"max_records" yaml:"max_records"`

	// PageSize is the maximum listing elements taken from one page; a
	// smaller batch signals the end of results.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	ContainerWait time.Duration `mapstructure:"container_wait" yaml:"container_wait"`
	SettleDelay   time.Duration `mapstructure:"settle_delay"   yaml:"settle_delay"`
	CaptchaWait   time.Duration `mapstructure:"captcha_wait"   yaml:"captcha_wait"`
}

// BrowserConfig controls the headless browser session.
type BrowserConfig struct {
	Headless        bool          `mapstructure:"headless"         yaml:"headless"`
	NavigateTimeout time.Duration `mapstructure:"navigate_timeout" yaml:"navigate_timeout"`
}

// ReportConfig controls the workbook output.
type ReportConfig struct {
	// Name is the workbook base name; the report file is <Name>.xlsx.
	Name      string  `mapstructure:"name"       yaml:"name"`
	RowHeight float64 `mapstructure:"row_height" yaml:"row_height"`
}

// ArchiveConfig controls the optional secondary record sink.
type ArchiveConfig struct {
	// Type is "none", "jsonl", or "mongodb".
	Type string `mapstructure:"type" yaml:"type"`

	// Path is the JSONL output file; relative paths resolve against the
	// run's output directory.
	Path string `mapstructure:"path" yaml:"path"`

	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			MaxRecords:    100,
			PageSize:      60,
			ContainerWait: 60 * time.Second,
			SettleDelay:   2 * time.Second,
			CaptchaWait:   90 * time.Second,
		},
		Browser: BrowserConfig{
			Headless:        true,
			NavigateTimeout: 30 * time.Second,
		},
		Report: ReportConfig{
			Name:      "eBay Listings",
			RowHeight: 100,
		},
		Archive: ArchiveConfig{
			Type:            "none",
			Path:            "records.jsonl",
			MongoDatabase:   "listingscout",
			MongoCollection: "records",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
