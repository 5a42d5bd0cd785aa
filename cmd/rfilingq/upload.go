package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/RealFakeAccount/RFItoLingq/config"
	"github.com/RealFakeAccount/RFItoLingq/lingq"
	"github.com/RealFakeAccount/RFItoLingq/uploader"
)

func handleUpload(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	date := fs.String("date", "", "Only episodes for this day (YYYY-MM-DD)")
	limit := fs.Int("limit", 0, "Max episodes to upload (0 = all)")
	fs.Parse(args)

	requireToken(cfg)
	runUpload(cfg, *date, *limit)
}

// runUpload executes one upload batch: remote index fetch, per-episode
// create/skip, and a final count report.
func runUpload(cfg *config.Config, date string, limit int) {
	api, err := lingq.NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	existing := api.CollectionLessons(cfg.LanguageCode, cfg.CourseID)
	log.Printf("INFO: course has %d existing lessons", len(existing))

	cat := openCatalog(cfg)
	if cat != nil {
		defer cat.Close()
	}
	runID := startRun(cat, "upload")

	u := uploader.New(cfg, api)
	found, succeeded, err := u.UploadAll(date, limit, uploader.TitleIndex(existing))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	finishRun(cat, runID, found, succeeded)

	if found == 0 && date != "" {
		log.Printf("WARN: no episodes found starting with %s", date)
		return
	}
	fmt.Printf("Uploaded %d/%d episodes\n", succeeded, found)
}
