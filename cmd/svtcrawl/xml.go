package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/spraakbanken/svtcrawl"
	"github.com/spraakbanken/svtcrawl/corpus"
)

func handleXML(args []string) {
	fs := flag.NewFlagSet("xml", flag.ExitOnError)
	cfgPath := fs.String("config", getEnv("SVTCRAWL_CONFIG", ""), "Path to configuration file")
	year := fs.String("year", "", "Convert only articles published in a certain year")
	override := fs.Bool("override", false, "Override existing xml files")
	debug := fs.Bool("debug", false, "Print some debug info while converting")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	if *year != "" {
		if _, err := time.Parse("2006", *year); err != nil {
			fatal("not a valid year: %s", *year)
		}
		fmt.Printf("\nPreparing to convert articles from %s to XML ...\n\n", *year)
	} else {
		fmt.Println("\nPreparing to convert articles to XML ...")
		fmt.Println()
	}

	store := svtcrawl.NewStore(cfg.DataDir)
	converter := corpus.NewConverter(
		store,
		corpus.NewTransformer(cfg.API.SiteURL),
		cfg.CorpusDir,
		&corpus.ConverterOptions{
			MaxBatchBytes: cfg.Convert.MaxBatchBytes,
			Logger:        newLogger(*debug),
		},
	)

	runs, err := svtcrawl.NewRunStore(cfg.RunDB)
	if err != nil {
		fatal("failed to open run history: %v", err)
	}
	defer runs.Close()

	started := time.Now()
	converted, err := converter.ConvertAll(*year, *override)
	if err != nil {
		fatal("conversion failed: %v", err)
	}

	if _, err := runs.Record("xml", started, time.Now(), converted, 0); err != nil {
		fatal("failed to record run: %v", err)
	}
}
