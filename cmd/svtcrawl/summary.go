package main

import (
	"flag"
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spraakbanken/svtcrawl"
)

func handleSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	cfgPath := fs.String("config", getEnv("SVTCRAWL_CONFIG", ""), "Path to configuration file")
	runs := fs.Int("runs", 0, "Also show the N most recent runs")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	fmt.Println("\nCalculating summary of collected articles ...")
	fmt.Println()

	store := svtcrawl.NewStore(cfg.DataDir)
	crawled, err := store.LoadCrawled()
	if err != nil {
		fatal("failed to load crawled index: %v", err)
	}
	if len(crawled) == 0 {
		fmt.Println("No crawled data available!")
		return
	}

	summary := svtcrawl.Summarize(crawled)

	fmt.Println("SVT nyheter")
	printCounts(svtcrawl.SortedByAmount(summary.National))
	fmt.Printf("SVT nyheter totalt\t%d\n", summary.Total()-summary.LocalTotal())
	fmt.Println()

	fmt.Println("SVT lokalnyheter")
	printCounts(svtcrawl.SortedByAmount(summary.Local))
	fmt.Printf("Lokalnyheter totalt\t%d\n", summary.LocalTotal())
	fmt.Println()

	fmt.Println("SVT artiklar per år")
	printCounts(svtcrawl.SortedByName(summary.PerYear))
	fmt.Println()

	fmt.Printf("Alla nyhetsartiklar\t%d\n", summary.Total())

	if *runs > 0 {
		printRuns(cfg.RunDB, *runs)
	}
}

// printCounts prints name/amount rows with the names padded to a common
// display width. Topic names contain non-ASCII characters, so padding goes
// by display width rather than byte length.
func printCounts(counts []svtcrawl.Count) {
	width := 0
	for _, c := range counts {
		if w := runewidth.StringWidth(c.Name); w > width {
			width = w
		}
	}
	for _, c := range counts {
		fmt.Printf("%s  %d\n", runewidth.FillRight(c.Name, width), c.Amount)
	}
}

func printRuns(dbPath string, limit int) {
	store, err := svtcrawl.NewRunStore(dbPath)
	if err != nil {
		fatal("failed to open run history: %v", err)
	}
	defer store.Close()

	runs, err := store.List(limit)
	if err != nil {
		fatal("failed to list runs: %v", err)
	}

	fmt.Println()
	fmt.Println("Recent runs")
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return
	}
	for _, run := range runs {
		fmt.Printf("%s  %-14s  new: %d  failed: %d\n",
			run.StartedAt.Format("2006-01-02 15:04"),
			run.Command,
			run.NewArticles,
			run.FailedURLs,
		)
	}
}
