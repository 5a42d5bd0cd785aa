package lingq

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMergeTags verifies dedup and order preservation
func TestMergeTags(t *testing.T) {
	merged := MergeTags([]string{"2024", "rfi"}, []string{"news", "rfi", "JFF", ""})
	assert.Equal(t, []string{"2024", "rfi", "news", "JFF"}, merged)
}

// TestCreateLesson_Multipart verifies the create request's form
// fields, repeated keys, and file parts
func TestCreateLesson_Multipart(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "jff-20240315.mp3")
	imagePath := filepath.Join(dir, "image.jpg")
	require.NoError(t, os.WriteFile(audioPath, []byte("mp3-bytes"), 0644))
	require.NoError(t, os.WriteFile(imagePath, []byte("jpg-bytes"), 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fr/lessons/", r.URL.Path)
		assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Journal en français facile 2024-03-15", r.FormValue("title"))
		assert.Equal(t, "Bonjour.", r.FormValue("text"))
		assert.Equal(t, "shared", r.FormValue("status"))
		assert.Equal(t, "france_french", r.FormValue("accent"))
		assert.Equal(t, "fr", r.FormValue("language"))
		assert.Equal(t, "2570591", r.FormValue("collection"))
		assert.Equal(t, "3", r.FormValue("level"))
		assert.Equal(t, "https://rfi.example/ep", r.FormValue("original_url"))
		assert.Equal(t, []string{"news"}, r.MultipartForm.Value["shelves[]"])
		assert.Equal(t, []string{"2024", "news", "rfi", "JFF"}, r.MultipartForm.Value["tags[]"],
			"default tags should be appended without duplicates")

		audio := r.MultipartForm.File["audio"]
		require.Len(t, audio, 1)
		assert.Equal(t, "jff-20240315.mp3", audio[0].Filename)
		assert.Equal(t, "audio/mpeg", audio[0].Header.Get("Content-Type"))
		f, err := audio[0].Open()
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "mp3-bytes", string(data))

		image := r.MultipartForm.File["image"]
		require.Len(t, image, 1)
		assert.Equal(t, "image/jpeg", image[0].Header.Get("Content-Type"))

		fmt.Fprint(w, `{"id": 123}`)
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL)

	id, err := client.CreateLesson("fr", LessonRequest{
		Title:        "Journal en français facile 2024-03-15",
		Text:         "Bonjour.",
		Status:       "shared",
		Level:        3,
		Tags:         []string{"2024"},
		OriginalURL:  "https://rfi.example/ep",
		CollectionID: 2570591,
		AudioPath:    audioPath,
		ImagePath:    imagePath,
	})
	require.NoError(t, err)
	assert.Equal(t, 123, id)
}

// TestCreateLesson_ExternalAudio verifies the external_audio
// alternative is only sent without a file attachment
func TestCreateLesson_ExternalAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "https://aod.example/a.mp3", r.FormValue("external_audio"))
		assert.Empty(t, r.MultipartForm.File["audio"])
		fmt.Fprint(w, `{"id": 5}`)
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL)

	id, err := client.CreateLesson("fr", LessonRequest{
		Title:         "t",
		Text:          "x",
		Status:        "private",
		ExternalAudio: "https://aod.example/a.mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, id)
}

// TestCreateLesson_APIError verifies a 4xx response surfaces as an
// error
func TestCreateLesson_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail": "text required"}`)
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL)

	_, err := client.CreateLesson("fr", LessonRequest{Title: "t", Status: "private"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

// TestUpdateLessonMetadata verifies the patch body replaces shelves
// and tags
func TestUpdateLessonMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/fr/lessons/123/", r.URL.Path)

		var payload struct {
			Shelves []string `json:"shelves"`
			Tags    []string `json:"tags"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []string{"news"}, payload.Shelves)
		assert.Equal(t, []string{"news", "rfi", "JFF", "2024"}, payload.Tags)
		fmt.Fprint(w, `{}`)
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL)

	err := client.UpdateLessonMetadata("fr", 123, []string{"news"}, []string{"news", "rfi", "JFF", "2024"})
	require.NoError(t, err)
}

// TestGenerateAudioTimestamps_Conflict verifies 409 is treated as
// success
func TestGenerateAudioTimestamps_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fr/lessons/123/genaudio/", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL)

	assert.NoError(t, client.GenerateAudioTimestamps("fr", 123))
}

// TestGenerateAudioTimestamps_Failure verifies other errors propagate
func TestGenerateAudioTimestamps_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL)

	require.Error(t, client.GenerateAudioTimestamps("fr", 123))
}
