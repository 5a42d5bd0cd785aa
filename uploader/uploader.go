// Package uploader pushes locally scraped episodes to LingQ, skipping
// episodes whose lesson already exists remotely.
package uploader

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/RealFakeAccount/RFItoLingq/config"
	"github.com/RealFakeAccount/RFItoLingq/episodes"
	"github.com/RealFakeAccount/RFItoLingq/lingq"
)

// LessonIndex answers whether a lesson matching an episode already
// exists remotely. The default implementation matches on the derived
// title; a stronger key (a source URL hash, say) can be substituted
// without touching the orchestration.
type LessonIndex interface {
	Lookup(title string) (id int, ok bool)
}

// TitleIndex is a LessonIndex backed by the title -> id map returned
// by the LingQ collection listing.
type TitleIndex map[string]int

// Lookup implements LessonIndex.
func (t TitleIndex) Lookup(title string) (int, bool) {
	id, ok := t[title]
	return id, ok
}

// Uploader creates LingQ lessons from episode directories.
type Uploader struct {
	cfg *config.Config
	api *lingq.Client
}

// New creates an uploader using the given configuration and API
// client.
func New(cfg *config.Config, api *lingq.Client) *Uploader {
	return &Uploader{cfg: cfg, api: api}
}

// lessonLevel is the fixed difficulty assigned to every imported
// lesson (LingQ's "Intermediate 1").
const lessonLevel = 3

// UploadEpisode uploads one episode directory. Directories without a
// transcript and episodes whose title already exists remotely are
// skipped; both skips count as successfully handled. A failed create
// is logged and reported as failure without aborting the batch. The
// follow-up metadata patch and timestamp trigger are best-effort.
func (u *Uploader) UploadEpisode(dir string, index LessonIndex) bool {
	name := filepath.Base(dir)
	log.Printf("INFO: processing %s", name)

	transcriptPath := filepath.Join(dir, "transcript.txt")
	text, err := os.ReadFile(transcriptPath)
	if err != nil {
		log.Printf("INFO: skipping %s: no transcript.txt", name)
		return true
	}

	title := episodes.Title(name)
	if id, ok := index.Lookup(title); ok {
		log.Printf("INFO: skipping %s: lesson %q already exists (id %d)", name, title, id)
		return true
	}

	meta := episodes.ParseMeta(dir)

	mp3Path := episodes.FindMP3(dir)
	imagePath := filepath.Join(dir, "image.jpg")
	if _, err := os.Stat(imagePath); err != nil {
		imagePath = ""
	}

	// Episodes missing audio or cover art stay private.
	status := "private"
	if mp3Path != "" && imagePath != "" {
		status = "shared"
	}

	year := ""
	if len(name) >= 4 {
		year = name[:4]
	}

	id, err := u.api.CreateLesson(u.cfg.LanguageCode, lingq.LessonRequest{
		Title:        title,
		Text:         strings.TrimSpace(string(text)),
		Status:       status,
		Level:        lessonLevel,
		Tags:         []string{year},
		OriginalURL:  meta["url"],
		CollectionID: u.cfg.CourseID,
		AudioPath:    mp3Path,
		ImagePath:    imagePath,
	})
	if err != nil {
		log.Printf("ERROR: upload failed for %s: %v", name, err)
		return false
	}
	log.Printf("INFO: lesson created: id %d (%s)", id, status)

	if id != 0 {
		// The patch replaces remote tags, so send the full set.
		allTags := lingq.MergeTags(u.cfg.DefaultTags, []string{year})
		if err := u.api.UpdateLessonMetadata(u.cfg.LanguageCode, id, u.cfg.DefaultShelves, allTags); err != nil {
			log.Printf("WARN: failed to update metadata for lesson %d: %v", id, err)
		} else {
			log.Printf("INFO: updated metadata (tags=%v) for lesson %d", allTags, id)
		}

		if mp3Path != "" {
			if err := u.api.GenerateAudioTimestamps(u.cfg.LanguageCode, id); err != nil {
				log.Printf("WARN: failed to generate timestamps for lesson %d: %v", id, err)
			} else {
				log.Printf("INFO: generated timestamps for lesson %d", id)
			}
		}
	}

	return true
}

// UploadAll uploads every complete episode directory, optionally
// filtered to names starting with dateFilter and truncated to limit
// (0 = all). It returns how many directories were attempted and how
// many were handled successfully.
func (u *Uploader) UploadAll(dateFilter string, limit int, index LessonIndex) (found, succeeded int, err error) {
	all, err := episodes.Find(u.cfg.DataDir)
	if err != nil {
		return 0, 0, err
	}

	targets := all
	if dateFilter != "" {
		targets = nil
		for _, dir := range all {
			if strings.HasPrefix(filepath.Base(dir), dateFilter) {
				targets = append(targets, dir)
			}
		}
	}
	if limit > 0 && len(targets) > limit {
		targets = targets[:limit]
	}

	for _, dir := range targets {
		if u.UploadEpisode(dir, index) {
			succeeded++
		}
	}
	return len(targets), succeeded, nil
}
