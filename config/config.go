package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings for the scraper and the LingQ
// client. It is constructed once in the CLI and handed to each
// component; nothing reads it from ambient globals.
type Config struct {
	// LingQ settings
	APIToken     string
	APIRoot      string
	LanguageCode string
	CourseID     int

	// Default lesson settings
	DefaultTags    []string
	DefaultShelves []string

	// Scraper settings
	BaseURL   string
	FeedURL   string
	UserAgent string

	// Paths
	DataDir     string
	CatalogPath string
}

const (
	defaultAPIRoot  = "https://www.lingq.com/api/v3"
	defaultLanguage = "fr"

	// Default course: "Journal en français facile 2026"
	defaultCourseID = 2570591

	defaultBaseURL   = "https://francaisfacile.rfi.fr/fr/podcasts/journal-en-fran%C3%A7ais-facile/"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Load builds a Config from defaults, the optional config file, and
// environment variables, in increasing order of precedence. A .env
// file in the working directory is honored when present.
func Load() (*Config, error) {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	cfg := &Config{
		APIRoot:        defaultAPIRoot,
		LanguageCode:   defaultLanguage,
		CourseID:       defaultCourseID,
		DefaultTags:    []string{"news", "rfi", "JFF"},
		DefaultShelves: []string{"news"},
		BaseURL:        defaultBaseURL,
		FeedURL:        defaultBaseURL + "podcast.xml",
		UserAgent:      defaultUserAgent,
		DataDir:        "data",
		CatalogPath:    "catalog.db",
	}

	fileCfg, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		fileCfg.apply(cfg)
	}

	cfg.APIToken = getEnv("LINGQ_API_TOKEN", cfg.APIToken)
	cfg.APIRoot = getEnv("LINGQ_API_ROOT", cfg.APIRoot)
	cfg.LanguageCode = getEnv("LINGQ_LANGUAGE_CODE", cfg.LanguageCode)
	if v := os.Getenv("LINGQ_COURSE_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LINGQ_COURSE_ID %q: %w", v, err)
		}
		cfg.CourseID = id
	}
	cfg.BaseURL = getEnv("RFI_BASE_URL", cfg.BaseURL)
	cfg.FeedURL = getEnv("RFI_FEED_URL", cfg.FeedURL)
	cfg.DataDir = getEnv("RFI_DATA_DIR", cfg.DataDir)
	cfg.CatalogPath = getEnv("RFI_CATALOG_PATH", cfg.CatalogPath)

	return cfg, nil
}

// Validate checks that the configuration is usable for uploads.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("LINGQ_API_TOKEN environment variable is not set")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
