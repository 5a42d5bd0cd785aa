package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/RealFakeAccount/RFItoLingq/catalog"
	"github.com/RealFakeAccount/RFItoLingq/config"
)

func handleHistory(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Max runs to show")
	fs.Parse(args)

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open catalog: %v\n", err)
		os.Exit(1)
	}
	defer cat.Close()

	runs, err := cat.RecentRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	for _, run := range runs {
		state := "running"
		if run.FinishedAt != nil {
			state = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		fmt.Printf("%s  %-6s  %s  %d/%d (%s)\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Kind, run.ID, run.Succeeded, run.Found, state)
	}

	if count, err := cat.CountSightings(); err == nil {
		fmt.Printf("\n%d distinct episodes seen.\n", count)
	}
}
