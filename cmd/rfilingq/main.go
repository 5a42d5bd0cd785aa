package main

import (
	"fmt"
	"os"

	"github.com/RealFakeAccount/RFItoLingq/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "scrape":
		handleScrape(cfg, args)
	case "upload":
		handleUpload(cfg, args)
	case "sync":
		handleSync(cfg, args)
	case "courses":
		handleCourses(cfg, args)
	case "history":
		handleHistory(cfg, args)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

// requireToken exits when the configuration cannot support uploads.
func requireToken(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("rfilingq - RFI Journal en français facile to LingQ importer")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  rfilingq <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scrape     Scrape episodes from the RFI site into the data directory")
	fmt.Println("  upload     Upload scraped episodes to LingQ")
	fmt.Println("  sync       Scrape then upload")
	fmt.Println("  courses    List or create LingQ courses")
	fmt.Println("  history    Show recent scrape/upload runs")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Run 'rfilingq <command> -h' for command flags.")
}
