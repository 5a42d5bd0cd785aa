package scraper

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ProcessEpisode scrapes one episode page and materializes its
// directory under the data root: audio and cover image downloads, a
// transcript.txt when a transcript was found, and an episode.txt
// metadata record that is written unconditionally. Returns the episode
// directory path.
func (s *Scraper) ProcessEpisode(date time.Time, episodeURL string) (string, error) {
	slug := SlugFromURL(episodeURL)
	dir := filepath.Join(s.cfg.DataDir, date.Format("2006-01-02")+"-"+slug)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create episode directory: %w", err)
	}

	media, err := s.ExtractMedia(episodeURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", episodeURL, err)
	}

	if media.AudioURL == "" {
		log.Printf("WARN: no mp3 found for %s", episodeURL)
	} else {
		dest := filepath.Join(dir, audioBasename(media.AudioURL))
		if err := s.DownloadFile(media.AudioURL, dest); err != nil {
			return "", fmt.Errorf("failed to download audio: %w", err)
		}
	}

	transcriptName := ""
	if media.Transcript == "" {
		log.Printf("WARN: no transcript found for %s", episodeURL)
	} else {
		transcriptName = "transcript.txt"
		if err := os.WriteFile(filepath.Join(dir, transcriptName), []byte(media.Transcript), 0644); err != nil {
			return "", fmt.Errorf("failed to write transcript: %w", err)
		}
	}

	if media.ImageURL != "" {
		// A missing cover image only downgrades the lesson's visibility
		// later, so a failed download is not fatal here.
		if err := s.DownloadFile(media.ImageURL, filepath.Join(dir, "image.jpg")); err != nil {
			log.Printf("WARN: failed to download image for %s: %v", episodeURL, err)
		}
	}

	lines := []string{
		"url: " + episodeURL,
		"mp3: " + media.AudioURL,
		"transcript: " + transcriptName,
		"image: " + media.ImageURL,
	}
	metaPath := filepath.Join(dir, "episode.txt")
	if err := os.WriteFile(metaPath, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return "", fmt.Errorf("failed to write episode metadata: %w", err)
	}

	return dir, nil
}

// audioBasename returns the filename component of an audio URL,
// ignoring any query string.
func audioBasename(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "." && name != "/" {
			return name
		}
	}
	return path.Base(rawURL)
}
