package main

import (
	"flag"
	"fmt"

	"github.com/RealFakeAccount/RFItoLingq/config"
)

func handleSync(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	var params scrapeParams
	params.register(fs)
	date := fs.String("date", "", "Only upload episodes for this day (YYYY-MM-DD)")
	fs.Parse(args)

	requireToken(cfg)

	// The upload pass deliberately rescans the whole matched local set
	// rather than just this run's scrapes; the title check makes the
	// re-upload a cheap skip.
	fmt.Println("Step 1: scrape")
	runScrape(cfg, params)

	fmt.Println()
	fmt.Println("Step 2: upload")
	runUpload(cfg, *date, 0)
}
