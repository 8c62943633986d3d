package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/spraakbanken/svtcrawl"
)

func handleBuildIndex(args []string) {
	fs := flag.NewFlagSet("build-index", flag.ExitOnError)
	cfgPath := fs.String("config", getEnv("SVTCRAWL_CONFIG", ""), "Path to configuration file")
	out := fs.String("out", "crawled_pages_from_files.json", "Name of the output file (stored in the data directory)")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	fmt.Println("\nBuilding an index of crawled files based on the downloaded JSON files ...")
	fmt.Println()

	store := svtcrawl.NewStore(cfg.DataDir)
	if _, err := svtcrawl.BuildIndex(store, *out); err != nil {
		fatal("failed to build index: %v", err)
	}
	fmt.Printf("Done writing index of crawled data to '%s'\n", filepath.Join(cfg.DataDir, *out))
}
