package config

import "testing"

func TestValidateDefaults(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max records", func(c *Config) { c.Scrape.MaxRecords = 0 }},
		{"zero page size", func(c *Config) { c.Scrape.PageSize = 0 }},
		{"zero container wait", func(c *Config) { c.Scrape.ContainerWait = 0 }},
		{"empty report name", func(c *Config) { c.Report.Name = "" }},
		{"zero row height", func(c *Config) { c.Report.RowHeight = 0 }},
		{"unknown archive type", func(c *Config) { c.Archive.Type = "csv" }},
		{"mongodb without uri", func(c *Config) { c.Archive.Type = "mongodb"; c.Archive.MongoURI = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := Validate(cfg); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestValidateAcceptsJSONLArchive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Archive.Type = "jsonl"
	if err := Validate(cfg); err != nil {
		t.Fatalf("jsonl archive should validate: %v", err)
	}
}
