// Package scraper discovers Journal en français facile episodes on the
// RFI site and materializes them as local episode directories.
package scraper

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/RealFakeAccount/RFItoLingq/config"
)

var (
	// Episode pages embed an 8-digit date after the show's path segment.
	episodePathRe = regexp.MustCompile(`/fr/podcasts/journal-en-fran%C3%A7ais-facile/(\d{8})-`)

	mp3Re = regexp.MustCompile(`https?://[^\s"]+\.mp3`)
)

// Episode is one listing entry: the episode page URL and its
// publication date.
type Episode struct {
	Date time.Time
	URL  string
}

// ListingOptions bound a listing fetch.
type ListingOptions struct {
	// Limit truncates the result to the N most recent episodes. 0 means
	// unlimited.
	Limit int
	// Pages is the pagination depth. Values below 1 are treated as 1.
	Pages int
	// Since keeps only episodes dated on or after it. The zero value
	// disables the cutoff.
	Since time.Time
}

// Media holds whatever could be extracted from an episode page. Any
// field may be empty when the page lacks it.
type Media struct {
	AudioURL   string
	Transcript string
	ImageURL   string
}

// Scraper fetches RFI listing and episode pages sequentially.
type Scraper struct {
	cfg *config.Config

	// Short timeout for HTML pages, longer one for media downloads.
	pages *http.Client
	media *http.Client
}

// New creates a scraper using the given configuration.
func New(cfg *config.Config) *Scraper {
	return &Scraper{
		cfg:   cfg,
		pages: &http.Client{Timeout: 20 * time.Second},
		media: &http.Client{Timeout: 60 * time.Second},
	}
}

// get performs a GET with the configured User-Agent.
func (s *Scraper) get(client *http.Client, rawURL string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	return resp, nil
}

// FindEpisodeLinks extracts episode entries from listing HTML. Results
// are deduplicated by absolute URL and sorted by date descending.
func (s *Scraper) FindEpisodeLinks(doc *goquery.Document) []Episode {
	base, _ := url.Parse(s.cfg.BaseURL)

	found := map[string]time.Time{}
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		m := episodePathRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		date, err := time.Parse("20060102", m[1])
		if err != nil {
			// Malformed dates are skipped silently.
			return
		}
		absolute := href
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				absolute = base.ResolveReference(ref).String()
			}
		}
		found[absolute] = date
	})

	return sortEpisodes(found)
}

// FetchListing downloads listing pages and returns episode entries,
// newest first. Page 0 is the bare listing URL; later pages append
// ?page=N. Pagination stops early when a page contributes no URL not
// already seen. A failed page is logged and skipped, it never aborts
// the listing fetch.
func (s *Scraper) FetchListing(opts ListingOptions) []Episode {
	pages := opts.Pages
	if pages < 1 {
		pages = 1
	}

	collected := map[string]time.Time{}
	for page := 0; page < pages; page++ {
		pageURL := s.cfg.BaseURL
		if page > 0 {
			pageURL = fmt.Sprintf("%s?page=%d", s.cfg.BaseURL, page)
		}

		doc, err := s.fetchDocument(pageURL)
		if err != nil {
			log.Printf("WARN: failed to fetch listing page %d: %v", page, err)
			continue
		}

		before := len(collected)
		for _, ep := range s.FindEpisodeLinks(doc) {
			collected[ep.URL] = ep.Date
		}
		if len(collected) == before {
			// No new links on this page, stop early.
			break
		}
	}

	return applyListingOptions(sortEpisodes(collected), opts)
}

// fetchDocument retrieves a page and parses it with the response's
// apparent character encoding. RFI occasionally mis-declares charsets,
// which garbles accented characters without this coercion.
func (s *Scraper) fetchDocument(pageURL string) (*goquery.Document, error) {
	resp, err := s.get(s.pages, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to detect encoding: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ExtractMedia fetches an episode page and returns its audio URL,
// transcript text, and cover image URL. Any of the three may be empty;
// only a failed page request is an error.
func (s *Scraper) ExtractMedia(episodeURL string) (*Media, error) {
	doc, err := s.fetchDocument(episodeURL)
	if err != nil {
		return nil, err
	}

	media := &Media{
		Transcript: extractTranscript(doc),
		ImageURL:   extractImageURL(doc),
	}

	// The mp3 URL lives in inline player markup, not in a stable
	// element, so match it against the raw document.
	if html, err := doc.Html(); err == nil {
		media.AudioURL = mp3Re.FindString(html)
	}

	return media, nil
}

// extractTranscript pulls the transcription block's paragraphs,
// collapses whitespace runs, and joins paragraphs with a blank line.
// When the block has no paragraph children its full collapsed text is
// used; when the block is absent the transcript is empty.
func extractTranscript(doc *goquery.Document) string {
	block := doc.Find(".m-transcription").First()
	if block.Length() == 0 {
		return ""
	}

	var paras []string
	block.Find("p").Each(func(_ int, p *goquery.Selection) {
		clean := collapseWhitespace(p.Text())
		if clean != "" {
			paras = append(paras, clean)
		}
	})
	if len(paras) > 0 {
		return strings.Join(paras, "\n\n")
	}

	return collapseWhitespace(block.Text())
}

// extractImageURL prefers the og:image meta tag and falls back to the
// first figure's img.
func extractImageURL(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && content != "" {
		return content
	}
	if src, ok := doc.Find("figure img").First().Attr("src"); ok && src != "" {
		return src
	}
	return ""
}

// SlugFromURL makes a filesystem-safe slug from the last path segment
// of an episode URL.
func SlugFromURL(rawURL string) string {
	tail := strings.TrimRight(rawURL, "/")
	if idx := strings.LastIndex(tail, "/"); idx >= 0 {
		tail = tail[idx+1:]
	}
	if unescaped, err := url.PathUnescape(tail); err == nil {
		tail = unescaped
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(tail) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "episode"
	}
	return slug
}

// collapseWhitespace squeezes whitespace runs to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sortEpisodes converts a URL-keyed map to a slice sorted by date
// descending, with URL as a deterministic tie-break.
func sortEpisodes(collected map[string]time.Time) []Episode {
	episodes := make([]Episode, 0, len(collected))
	for u, d := range collected {
		episodes = append(episodes, Episode{Date: d, URL: u})
	}
	sort.Slice(episodes, func(i, j int) bool {
		if !episodes[i].Date.Equal(episodes[j].Date) {
			return episodes[i].Date.After(episodes[j].Date)
		}
		return episodes[i].URL < episodes[j].URL
	})
	return episodes
}

// applyListingOptions applies the since cutoff and limit to a sorted
// episode list.
func applyListingOptions(episodes []Episode, opts ListingOptions) []Episode {
	if !opts.Since.IsZero() {
		var kept []Episode
		for _, ep := range episodes {
			if !ep.Date.Before(opts.Since) {
				kept = append(kept, ep)
			}
		}
		episodes = kept
	}
	if opts.Limit > 0 && len(episodes) > opts.Limit {
		episodes = episodes[:opts.Limit]
	}
	return episodes
}
