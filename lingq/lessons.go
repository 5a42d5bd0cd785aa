package lingq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// lessonPageSize is the page_size used when walking a collection's
// lessons.
const lessonPageSize = 50

// CollectionLessons returns a title -> lesson id map covering every
// lesson in the collection, following pagination. A 404, an empty
// page, or a missing "next" indicator ends the walk; a request failure
// on any page is logged and the partial map collected so far is
// returned.
func (c *Client) CollectionLessons(lang string, collectionID int) map[string]int {
	mapping := map[string]int{}

	for page := 1; ; page++ {
		pageURL := fmt.Sprintf("%s/%s/collections/%d/lessons/?page=%d&page_size=%d",
			c.root, lang, collectionID, page, lessonPageSize)

		req, err := http.NewRequest(http.MethodGet, pageURL, nil)
		if err != nil {
			log.Printf("WARN: error fetching lesson list page %d: %v", page, err)
			break
		}
		body, status, err := c.do(c.http, req)
		if err != nil {
			log.Printf("WARN: error fetching lesson list page %d: %v", page, err)
			break
		}
		if status == http.StatusNotFound {
			break
		}
		if status >= 400 {
			log.Printf("WARN: error fetching lesson list page %d: HTTP %d", page, status)
			break
		}

		var lessons []Lesson
		next, err := normalizeList(body, &lessons)
		if err != nil {
			log.Printf("WARN: error fetching lesson list page %d: %v", page, err)
			break
		}
		if len(lessons) == 0 {
			break
		}

		for _, lesson := range lessons {
			if lesson.Title != "" && lesson.Key() != 0 {
				mapping[lesson.Title] = lesson.Key()
			}
		}

		if next == "" {
			break
		}
	}

	return mapping
}

// LessonRequest carries everything needed to create a lesson. Empty
// optional fields are omitted from the request.
type LessonRequest struct {
	Title        string
	Text         string
	Status       string
	Level        int
	Tags         []string
	OriginalURL  string
	CollectionID int
	Duration     int

	// AudioPath attaches a local audio file; ExternalAudio points the
	// platform at a remote one instead. AudioPath wins when both are
	// set.
	AudioPath     string
	ExternalAudio string
	ImagePath     string
}

// CreateLesson posts a multipart create-lesson request and returns the
// created lesson's id. The client's default shelves are always sent,
// and default tags are appended to the request's tags without
// duplicates.
func (c *Client) CreateLesson(lang string, req LessonRequest) (int, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fields := [][2]string{
		{"title", req.Title},
		{"text", req.Text},
		{"status", req.Status},
		{"accent", "france_french"},
		{"language", lang},
	}
	for _, shelf := range c.defaultShelves {
		fields = append(fields, [2]string{"shelves[]", shelf})
	}
	if req.CollectionID != 0 {
		fields = append(fields, [2]string{"collection", strconv.Itoa(req.CollectionID)})
	}
	if req.Level != 0 {
		fields = append(fields, [2]string{"level", strconv.Itoa(req.Level)})
	}
	for _, tag := range MergeTags(req.Tags, c.defaultTags) {
		fields = append(fields, [2]string{"tags[]", tag})
	}
	if req.OriginalURL != "" {
		fields = append(fields, [2]string{"original_url", req.OriginalURL})
	}
	if req.Duration != 0 {
		fields = append(fields, [2]string{"duration", strconv.Itoa(req.Duration)})
	}

	for _, field := range fields {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return 0, fmt.Errorf("failed to write form field %s: %w", field[0], err)
		}
	}

	if req.AudioPath != "" {
		if err := attachFile(form, "audio", req.AudioPath, "audio/mpeg"); err != nil {
			return 0, err
		}
	} else if req.ExternalAudio != "" {
		if err := form.WriteField("external_audio", req.ExternalAudio); err != nil {
			return 0, fmt.Errorf("failed to write form field external_audio: %w", err)
		}
	}
	if req.ImagePath != "" {
		if err := attachFile(form, "image", req.ImagePath, "image/jpeg"); err != nil {
			return 0, err
		}
	}

	if err := form.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize form: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/%s/lessons/", c.root, lang), body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	respBody, status, err := c.do(c.slow, httpReq)
	if err != nil {
		return 0, err
	}
	if status >= 400 {
		log.Printf("ERROR: API %d: %s", status, strings.TrimSpace(string(respBody)))
		return 0, fmt.Errorf("HTTP error: %d", status)
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return 0, fmt.Errorf("failed to decode created lesson: %w", err)
	}
	return created.ID, nil
}

// UpdateLessonMetadata patches a lesson's shelves and tags. The API
// overwrites both lists, so callers must send the full desired sets.
func (c *Client) UpdateLessonMetadata(lang string, lessonID int, shelves, tags []string) error {
	payload, err := json.Marshal(map[string]any{
		"shelves": shelves,
		"tags":    tags,
	})
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	req, err := http.NewRequest(http.MethodPatch, fmt.Sprintf("%s/%s/lessons/%d/", c.root, lang, lessonID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(c.http, req)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("HTTP error: %d: %s", status, strings.TrimSpace(string(body)))
	}
	return nil
}

// GenerateAudioTimestamps triggers asynchronous audio-timestamp
// generation for a lesson. A 409 means timestamps already exist or are
// being generated, which counts as success.
func (c *Client) GenerateAudioTimestamps(lang string, lessonID int) error {
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/%s/lessons/%d/genaudio/", c.root, lang, lessonID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	_, status, err := c.do(c.slow, req)
	if err != nil {
		return err
	}
	if status == http.StatusConflict {
		log.Printf("INFO: timestamps already exist or in progress for lesson %d", lessonID)
		return nil
	}
	if status >= 400 {
		return fmt.Errorf("HTTP error: %d", status)
	}
	return nil
}

// MergeTags appends extra tags to the base set, skipping duplicates
// and preserving order.
func MergeTags(base, extra []string) []string {
	seen := map[string]bool{}
	var merged []string
	for _, tag := range append(append([]string{}, base...), extra...) {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		merged = append(merged, tag)
	}
	return merged
}

// attachFile adds a file part with an explicit content type.
func attachFile(form *multipart.Writer, field, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(path)))
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create form part %s: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s into form: %w", path, err)
	}
	return nil
}
