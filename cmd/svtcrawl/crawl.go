package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/spraakbanken/svtcrawl"
)

func handleCrawl(args []string) {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	cfgPath := fs.String("config", getEnv("SVTCRAWL_CONFIG", ""), "Path to configuration file")
	retry := fs.Bool("retry", false, "Try to crawl pages that have failed previously")
	force := fs.Bool("force", false, "Crawl all pages even if they have been crawled before")
	debug := fs.Bool("debug", false, "Print some debug info while crawling")
	stop := fs.String("stop", "", "Stop crawling when reaching articles published before this date (YYYY-MM-DD)")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	var stopDate time.Time
	if *stop != "" {
		parsed, err := time.Parse("2006-01-02", *stop)
		if err != nil {
			fatal("not a valid date of format YYYY-MM-DD: %s", *stop)
		}
		stopDate = parsed
	}

	client := svtcrawl.NewClient(
		cfg.API.BaseURL,
		cfg.API.SiteURL,
		cfg.API.PageLimit,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
	)
	store := svtcrawl.NewStore(cfg.DataDir)
	crawler, err := svtcrawl.NewCrawler(client, store, &svtcrawl.CrawlerOptions{
		MaxSeen: cfg.Crawl.MaxSeenArticles,
		Logger:  newLogger(*debug),
	})
	if err != nil {
		fatal("failed to load crawl state: %v", err)
	}

	runs, err := svtcrawl.NewRunStore(cfg.RunDB)
	if err != nil {
		fatal("failed to open run history: %v", err)
	}
	defer runs.Close()

	started := time.Now()
	command := "crawl"

	if *retry {
		command = "crawl --retry"
		fmt.Println("\nTrying to crawl pages that failed last time ...")
		fmt.Println()
		if *force {
			fmt.Println("Argument '-force' is ignored when recrawling failed pages.")
			fmt.Println()
		}
		err = crawler.RetryFailed()
	} else {
		if !stopDate.IsZero() {
			fmt.Printf("\nStarting to crawl svt.se (until %s) ...\n\n", stopDate.Format("2006-01-02"))
		} else {
			fmt.Println("\nStarting to crawl svt.se ...")
			fmt.Println()
		}
		time.Sleep(time.Duration(cfg.Crawl.StartupDelaySec) * time.Second)
		err = crawler.Crawl(svtcrawl.AllTopics(), *force, stopDate)
	}
	if err != nil {
		fatal("crawl failed: %v", err)
	}

	if _, err := runs.Record(command, started, time.Now(), crawler.TotalNew(), crawler.FailedCount()); err != nil {
		fatal("failed to record run: %v", err)
	}
}
