package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "crawl":
		handleCrawl(args)
	case "summary":
		handleSummary(args)
	case "xml":
		handleXML(args)
	case "build-index":
		handleBuildIndex(args)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`svtcrawl - crawl svt.se for news articles and convert the data to XML

Usage:
  svtcrawl <command> [options]

Commands:
  crawl            Crawl svt.se and download news articles
  summary          Print summary of collected data
  xml              Convert articles from JSON to XML
  build-index      Compile an index of the crawled data based on the downloaded files

Options for crawl:
  -retry           Try to crawl pages that have failed previously
  -force           Crawl all pages even if they have been crawled before
  -debug           Print some debug info while crawling
  -stop DATE       Stop crawling when reaching articles published before DATE (YYYY-MM-DD)

Options for summary:
  -runs N          Also show the N most recent runs

Options for xml:
  -year YYYY       Convert only articles published in a certain year
  -override        Override existing xml files
  -debug           Print some debug info while converting

Options for build-index:
  -out NAME        Name of the output file (stored in the data directory)

All commands accept -config PATH (default from SVTCRAWL_CONFIG).`)
}
