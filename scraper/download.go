package scraper

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// downloadChunkSize is the buffer size used when streaming media to
// disk.
const downloadChunkSize = 8192

// DownloadFile streams a remote URL into dest, creating parent
// directories as needed. An existing dest is left untouched and no
// request is made, so re-running a scrape never re-downloads media.
func (s *Scraper) DownloadFile(rawURL, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	if _, err := os.Stat(dest); err == nil {
		log.Printf("INFO: skipping %s (exists)", filepath.Base(dest))
		return nil
	}

	resp, err := s.get(s.media, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	buf := make([]byte, downloadChunkSize)
	if _, err := io.CopyBuffer(f, resp.Body, buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}

	log.Printf("INFO: saved %s", filepath.Base(dest))
	return nil
}
