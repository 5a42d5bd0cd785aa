// Package lingq is a client for the LingQ v3 REST API, covering the
// collection and lesson endpoints the importer needs.
package lingq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/RealFakeAccount/RFItoLingq/config"
)

// Client talks to the LingQ v3 REST API with a static bearer token.
type Client struct {
	root  string
	token string

	defaultTags    []string
	defaultShelves []string

	// Lesson creation uploads audio and gets a long timeout; everything
	// else uses the short client.
	http *http.Client
	slow *http.Client
}

// NewClient builds a client from the process configuration. The API
// token is required.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("API token required for LingQ client")
	}
	return &Client{
		root:           strings.TrimRight(cfg.APIRoot, "/"),
		token:          cfg.APIToken,
		defaultTags:    cfg.DefaultTags,
		defaultShelves: cfg.DefaultShelves,
		http:           &http.Client{Timeout: 30 * time.Second},
		slow:           &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Lesson is the subset of lesson fields this client reads. Some
// endpoints report the identifier as "id", others as "pk".
type Lesson struct {
	ID    int    `json:"id"`
	PK    int    `json:"pk"`
	Title string `json:"title"`
}

// Key returns the lesson identifier regardless of which field the
// server populated.
func (l Lesson) Key() int {
	if l.ID != 0 {
		return l.ID
	}
	return l.PK
}

// Collection is a LingQ course.
type Collection struct {
	ID    int    `json:"id"`
	PK    int    `json:"pk"`
	Title string `json:"title"`
}

// Key returns the collection identifier regardless of which field the
// server populated.
func (c Collection) Key() int {
	if c.ID != 0 {
		return c.ID
	}
	return c.PK
}

// envelope is the pagination wrapper some v3 endpoints use; others
// return a bare JSON array or wrap the list in "results".
type envelope struct {
	Next    string          `json:"next"`
	Data    json.RawMessage `json:"data"`
	Results json.RawMessage `json:"results"`
}

// normalizeList resolves the three response shapes the API produces
// (bare array, {data: [...]}, {results: [...]}) into the given slice,
// once, at the API boundary. It returns the "next" page indicator,
// which is empty for the bare-array shape.
func normalizeList(body []byte, out any) (next string, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return "", json.Unmarshal(trimmed, out)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return "", fmt.Errorf("failed to decode response envelope: %w", err)
	}
	raw := env.Data
	if raw == nil {
		raw = env.Results
	}
	if raw == nil {
		return env.Next, nil
	}
	return env.Next, json.Unmarshal(raw, out)
}

// do runs a request with the auth header and returns the response body
// and status code. Network failure is the only error.
func (c *Client) do(client *http.Client, req *http.Request) ([]byte, int, error) {
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// get fetches a URL and fails on any non-2xx status.
func (c *Client) get(rawURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	body, status, err := c.do(c.http, req)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", status)
	}
	return body, nil
}

// ListCollections returns the caller's courses for a language.
func (c *Client) ListCollections(lang string) ([]Collection, error) {
	body, err := c.get(fmt.Sprintf("%s/%s/collections/", c.root, lang))
	if err != nil {
		return nil, err
	}
	var collections []Collection
	if _, err := normalizeList(body, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

// FindCollection returns the id of the collection with the given
// title, or 0 when no such collection exists.
func (c *Client) FindCollection(lang, title string) (int, error) {
	collections, err := c.ListCollections(lang)
	if err != nil {
		return 0, err
	}
	for _, col := range collections {
		if col.Title == title {
			return col.Key(), nil
		}
	}
	return 0, nil
}

// CreateCollection creates a course and returns its id.
func (c *Client) CreateCollection(lang, title, status string, level int, description string) (int, error) {
	payload, err := json.Marshal(map[string]any{
		"title":       title,
		"status":      status,
		"level":       level,
		"description": description,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode collection: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/%s/collections/", c.root, lang), bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, statusCode, err := c.do(c.http, req)
	if err != nil {
		return 0, err
	}
	if statusCode >= 400 {
		return 0, fmt.Errorf("HTTP error: %d: %s", statusCode, strings.TrimSpace(string(body)))
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return 0, fmt.Errorf("failed to decode created collection: %w", err)
	}
	log.Printf("INFO: created course %q with id=%d", title, created.ID)
	return created.ID, nil
}

// EnsureCollection returns the id of the collection with the given
// title, creating it when absent.
func (c *Client) EnsureCollection(lang, title string) (int, error) {
	existing, err := c.FindCollection(lang, title)
	if err != nil {
		return 0, err
	}
	if existing != 0 {
		return existing, nil
	}
	return c.CreateCollection(lang, title, "shared", 3, "Auto-imported course")
}
