package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("LISTINGSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("listingscout")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".listingscout"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("scrape.max_records", cfg.Scrape.MaxRecords)
	v.SetDefault("scrape.page_size", cfg.Scrape.PageSize)
	v.SetDefault("scrape.container_wait", cfg.Scrape.ContainerWait)
	v.SetDefault("scrape.settle_delay", cfg.Scrape.SettleDelay)
	v.SetDefault("scrape.captcha_wait", cfg.Scrape.CaptchaWait)

	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.navigate_timeout", cfg.Browser.NavigateTimeout)

	v.SetDefault("report.name", cfg.Report.Name)
	v.SetDefault("report.row_height", cfg.Report.RowHeight)

	v.SetDefault("archive.type", cfg.Archive.Type)
	v.SetDefault("archive.path", cfg.Archive.Path)
	v.SetDefault("archive.mongo_uri", cfg.Archive.MongoURI)
	v.SetDefault("archive.mongo_database", cfg.Archive.MongoDatabase)
	v.SetDefault("archive.mongo_collection", cfg.Archive.MongoCollection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
