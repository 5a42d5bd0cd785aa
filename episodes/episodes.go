// Package episodes reads the on-disk episode store: one directory per
// episode named YYYY-MM-DD-slug, holding a transcript, optional media
// files, and a small key-value metadata record.
package episodes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TitlePrefix is the fixed lesson title prefix; the episode date is
// appended to it.
const TitlePrefix = "Journal en français facile "

// Find returns the episode directories under dataDir that carry both a
// transcript.txt and an episode.txt, sorted by name (which sorts by
// date, given the directory naming). A missing dataDir yields an empty
// result, not an error.
func Find(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(dataDir, entry.Name())
		if fileExists(filepath.Join(dir, "transcript.txt")) && fileExists(filepath.Join(dir, "episode.txt")) {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ParseMeta reads the "key: value" lines of an episode directory's
// episode.txt. A missing file yields an empty map.
func ParseMeta(dir string) map[string]string {
	meta := map[string]string{}
	data, err := os.ReadFile(filepath.Join(dir, "episode.txt"))
	if err != nil {
		return meta
	}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return meta
}

// FindMP3 returns the path of the first .mp3 file in dir, or "" when
// none exists.
func FindMP3(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

// Title derives the lesson title from an episode directory name, whose
// first ten characters are the YYYY-MM-DD date prefix.
func Title(dirName string) string {
	datePart := dirName
	if len(datePart) > 10 {
		datePart = datePart[:10]
	}
	return TitlePrefix + datePart
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
