package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of ~/.rfilingq/config.yaml.
// Every field is optional; zero values leave the built-in defaults
// untouched.
type FileConfig struct {
	APIRoot        string   `yaml:"api_root"`
	LanguageCode   string   `yaml:"language"`
	CourseID       int      `yaml:"course_id"`
	DefaultTags    []string `yaml:"default_tags"`
	DefaultShelves []string `yaml:"default_shelves"`
	BaseURL        string   `yaml:"base_url"`
	FeedURL        string   `yaml:"feed_url"`
	DataDir        string   `yaml:"data_dir"`
	CatalogPath    string   `yaml:"catalog_path"`
}

// LoadConfigFile loads configuration from ~/.rfilingq/config.yaml.
// Returns nil if the file doesn't exist (not an error). Returns error
// if the file exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".rfilingq", "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// apply copies the file's non-zero fields onto cfg.
func (f *FileConfig) apply(cfg *Config) {
	if f.APIRoot != "" {
		cfg.APIRoot = f.APIRoot
	}
	if f.LanguageCode != "" {
		cfg.LanguageCode = f.LanguageCode
	}
	if f.CourseID != 0 {
		cfg.CourseID = f.CourseID
	}
	if len(f.DefaultTags) > 0 {
		cfg.DefaultTags = f.DefaultTags
	}
	if len(f.DefaultShelves) > 0 {
		cfg.DefaultShelves = f.DefaultShelves
	}
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.FeedURL != "" {
		cfg.FeedURL = f.FeedURL
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.CatalogPath != "" {
		cfg.CatalogPath = f.CatalogPath
	}
}
