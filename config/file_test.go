package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile puts a config.yaml under a fake home directory.
func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, ".rfilingq")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o600))
	t.Setenv("HOME", tmpDir)
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	assert.Nil(t, cfg, "should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	writeConfigFile(t, `course_id: 99
default_tags:
  - facile
default_shelves:
  - news
  - podcasts
data_dir: "/srv/episodes"
`)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 99, cfg.CourseID)
	assert.Equal(t, []string{"facile"}, cfg.DefaultTags)
	assert.Equal(t, []string{"news", "podcasts"}, cfg.DefaultShelves)
	assert.Equal(t, "/srv/episodes", cfg.DataDir)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	writeConfigFile(t, "course_id: [not: closed")

	_, err := LoadConfigFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

// TestFileConfig_Apply verifies only non-zero fields override defaults
func TestFileConfig_Apply(t *testing.T) {
	cfg := &Config{
		APIRoot:      "https://www.lingq.com/api/v3",
		LanguageCode: "fr",
		CourseID:     1,
		DataDir:      "data",
	}

	fileCfg := &FileConfig{CourseID: 7, DataDir: "elsewhere"}
	fileCfg.apply(cfg)

	assert.Equal(t, 7, cfg.CourseID)
	assert.Equal(t, "elsewhere", cfg.DataDir)
	assert.Equal(t, "fr", cfg.LanguageCode, "unset fields should keep defaults")
	assert.Equal(t, "https://www.lingq.com/api/v3", cfg.APIRoot)
}
