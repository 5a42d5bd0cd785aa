package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/RealFakeAccount/RFItoLingq/config"
	"github.com/RealFakeAccount/RFItoLingq/lingq"
)

func handleCourses(cfg *config.Config, args []string) {
	if len(args) < 1 {
		printCoursesUsage()
		os.Exit(1)
	}

	requireToken(cfg)
	api, err := lingq.NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	action := args[0]
	switch action {
	case "list":
		handleCoursesList(cfg, api)
	case "create":
		handleCoursesCreate(cfg, api, args[1:])
	case "help", "--help", "-h":
		printCoursesUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown courses command: %s\n\n", action)
		printCoursesUsage()
		os.Exit(1)
	}
}

func handleCoursesList(cfg *config.Config, api *lingq.Client) {
	collections, err := api.ListCollections(cfg.LanguageCode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list courses: %v\n", err)
		os.Exit(1)
	}

	if len(collections) == 0 {
		fmt.Println("No courses found.")
		return
	}
	for _, col := range collections {
		fmt.Printf("%10d  %s\n", col.Key(), col.Title)
	}
}

func handleCoursesCreate(cfg *config.Config, api *lingq.Client, args []string) {
	fs := flag.NewFlagSet("courses create", flag.ExitOnError)
	title := fs.String("title", "", "Course title (required)")
	fs.Parse(args)

	if *title == "" {
		fmt.Fprintln(os.Stderr, "Error: -title is required")
		os.Exit(1)
	}

	id, err := api.EnsureCollection(cfg.LanguageCode, *title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create course: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Course %q has id %d\n", *title, id)
}

func printCoursesUsage() {
	fmt.Println("Usage:")
	fmt.Println("  rfilingq courses list")
	fmt.Println("  rfilingq courses create -title <title>")
}
