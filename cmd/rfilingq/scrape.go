package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/RealFakeAccount/RFItoLingq/catalog"
	"github.com/RealFakeAccount/RFItoLingq/config"
	"github.com/RealFakeAccount/RFItoLingq/scraper"
)

// scrapeParams are the parsed flags of the scrape (and sync)
// subcommand.
type scrapeParams struct {
	limit   int
	pages   int
	since   string
	useFeed bool
}

func (p *scrapeParams) register(fs *flag.FlagSet) {
	fs.IntVar(&p.limit, "limit", 5, "Max episodes to scrape (0 = all)")
	fs.IntVar(&p.pages, "pages", 3, "Pagination depth")
	fs.StringVar(&p.since, "since", "", "Only episodes dated on or after this day (YYYY-MM-DD)")
	fs.BoolVar(&p.useFeed, "feed", false, "Discover episodes from the podcast RSS feed instead of the HTML listing")
}

func handleScrape(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	var params scrapeParams
	params.register(fs)
	fs.Parse(args)

	// Scraping works without credentials; only the later upload needs
	// them.
	if err := cfg.Validate(); err != nil {
		log.Printf("WARN: %v - scraping allowed, but upload will fail", err)
	}

	runScrape(cfg, params)
}

// runScrape executes one scrape batch: listing discovery, per-episode
// processing, and a final count report. A failed episode is logged and
// skipped.
func runScrape(cfg *config.Config, params scrapeParams) {
	opts := scraper.ListingOptions{
		Limit: params.limit,
		Pages: params.pages,
	}
	if params.since != "" {
		since, err := time.Parse("2006-01-02", params.since)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: --since must be YYYY-MM-DD")
			os.Exit(1)
		}
		opts.Since = since
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	cat := openCatalog(cfg)
	if cat != nil {
		defer cat.Close()
	}

	log.Printf("INFO: scraping with limit=%d, pages=%d", params.limit, params.pages)
	s := scraper.New(cfg)

	var found []scraper.Episode
	if params.useFeed {
		eps, err := s.FetchFeedListing(opts)
		if err != nil {
			log.Printf("WARN: feed discovery failed: %v", err)
		}
		found = eps
	} else {
		found = s.FetchListing(opts)
	}
	log.Printf("INFO: found %d episodes", len(found))

	runID := startRun(cat, "scrape")

	succeeded := 0
	for _, ep := range found {
		fmt.Printf("Processing %s -> %s\n", ep.Date.Format("2006-01-02"), ep.URL)
		dir, err := s.ProcessEpisode(ep.Date, ep.URL)
		if err != nil {
			log.Printf("ERROR: failed to process %s: %v", ep.URL, err)
			continue
		}
		succeeded++
		if cat != nil {
			if err := cat.RecordSighting(ep.URL, ep.Date, dir); err != nil {
				log.Printf("WARN: %v", err)
			}
		}
	}

	finishRun(cat, runID, len(found), succeeded)
	fmt.Printf("Scraped %d/%d episodes\n", succeeded, len(found))
}

// openCatalog opens the run-history catalog. Failure is tolerated; the
// batch just goes unrecorded.
func openCatalog(cfg *config.Config) *catalog.Catalog {
	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		log.Printf("WARN: catalog unavailable: %v", err)
		return nil
	}
	return cat
}

func startRun(cat *catalog.Catalog, kind string) uuid.UUID {
	if cat == nil {
		return uuid.Nil
	}
	id, err := cat.StartRun(kind)
	if err != nil {
		log.Printf("WARN: %v", err)
		return uuid.Nil
	}
	return id
}

func finishRun(cat *catalog.Catalog, id uuid.UUID, found, succeeded int) {
	if cat == nil || id == uuid.Nil {
		return
	}
	if err := cat.FinishRun(id, found, succeeded); err != nil {
		log.Printf("WARN: %v", err)
	}
}
