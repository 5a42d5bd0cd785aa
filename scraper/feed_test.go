package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedItem(link, pubDate string) string {
	return fmt.Sprintf("<item><title>JFF</title><link>%s</link><pubDate>%s</pubDate></item>", link, pubDate)
}

func feedServer(t *testing.T, items string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Journal en français facile</title>%s</channel></rss>`, items)
	}))
	t.Cleanup(server.Close)
	return server
}

// TestFetchFeedListing verifies feed discovery honors the listing
// contract: dedup, newest first, URL-embedded dates preferred
func TestFetchFeedListing(t *testing.T) {
	items := feedItem("https://rfi.example"+showPath+"20240315-a", "Fri, 15 Mar 2024 07:00:00 GMT") +
		feedItem("https://rfi.example"+showPath+"20240314-b", "Thu, 14 Mar 2024 07:00:00 GMT") +
		feedItem("https://rfi.example"+showPath+"20240314-b", "Thu, 14 Mar 2024 07:00:00 GMT") + // duplicate
		feedItem("https://rfi.example/elsewhere/episode", "Wed, 13 Mar 2024 07:00:00 GMT") // date from pubDate
	server := feedServer(t, items)
	s := New(testConfig(t, server.URL))

	episodes, err := s.FetchFeedListing(ListingOptions{})
	require.NoError(t, err)

	require.Len(t, episodes, 3)
	assert.Equal(t, "https://rfi.example"+showPath+"20240315-a", episodes[0].URL)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), episodes[0].Date)
	assert.Equal(t, "2024-03-13", episodes[2].Date.Format("2006-01-02"), "non-matching URL falls back to pub date")
}

// TestFetchFeedListing_SinceAndLimit verifies the shared filters apply
func TestFetchFeedListing_SinceAndLimit(t *testing.T) {
	items := feedItem("https://rfi.example"+showPath+"20240315-a", "Fri, 15 Mar 2024 07:00:00 GMT") +
		feedItem("https://rfi.example"+showPath+"20240314-b", "Thu, 14 Mar 2024 07:00:00 GMT") +
		feedItem("https://rfi.example"+showPath+"20240313-c", "Wed, 13 Mar 2024 07:00:00 GMT")
	server := feedServer(t, items)
	s := New(testConfig(t, server.URL))

	episodes, err := s.FetchFeedListing(ListingOptions{
		Since: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Limit: 1,
	})
	require.NoError(t, err)

	require.Len(t, episodes, 1)
	assert.Equal(t, "2024-03-15", episodes[0].Date.Format("2006-01-02"))
}

// TestFetchFeedListing_Unreachable verifies a failed feed request is an
// error rather than an empty result
func TestFetchFeedListing_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	s := New(testConfig(t, server.URL))

	_, err := s.FetchFeedListing(ListingOptions{})
	require.Error(t, err)
}
