package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spraakbanken/svtcrawl"
)

// DefaultMaxBatchBytes is the buffer size at which a batch file is flushed.
// Output files end up around this size, plus the overflow of the article
// that crossed the threshold.
const DefaultMaxBatchBytes = 5000000

const batchHeader = "<articles>\n"

// ConverterOptions tunes a Converter. The zero value of every field selects
// the default.
type ConverterOptions struct {
	// MaxBatchBytes is the flush threshold for batch files.
	MaxBatchBytes int
	// Out receives user-facing progress output. Defaults to stdout.
	Out io.Writer
	// Logger receives diagnostic output. Defaults to the slog default logger.
	Logger *slog.Logger
}

// Converter turns the downloaded JSON tree into batched XML corpus files,
// one numbered sequence per topic and year.
type Converter struct {
	store       *svtcrawl.Store
	transformer *Transformer
	outDir      string
	maxBytes    int
	out         io.Writer
	log         *slog.Logger
}

// NewConverter creates a converter that reads articles from store and writes
// corpus files under outDir.
func NewConverter(store *svtcrawl.Store, transformer *Transformer, outDir string, opts *ConverterOptions) *Converter {
	if opts == nil {
		opts = &ConverterOptions{}
	}
	cv := &Converter{
		store:       store,
		transformer: transformer,
		outDir:      outDir,
		maxBytes:    opts.MaxBatchBytes,
		out:         opts.Out,
		log:         opts.Logger,
	}
	if cv.outDir == "" {
		cv.outDir = "."
	}
	if cv.maxBytes <= 0 {
		cv.maxBytes = DefaultMaxBatchBytes
	}
	if cv.out == nil {
		cv.out = os.Stdout
	}
	if cv.log == nil {
		cv.log = slog.Default()
	}
	return cv
}

// ConvertAll converts every unprocessed article file to XML, batched per
// topic directory. A non-empty year restricts conversion to that year's
// bucket. With override set, already-processed files are converted again and
// numbering restarts at 1. A file that cannot be decoded or flattened aborts
// the whole run. It returns the number of article files converted.
func (cv *Converter) ConvertAll(year string, override bool) (int, error) {
	processed, err := cv.store.LoadProcessed()
	if err != nil {
		return 0, err
	}

	pattern := "svt-*"
	if year != "" {
		pattern = "svt-" + year
	}
	topicDirs, err := filepath.Glob(filepath.Join(cv.store.DataDir(), pattern, "*"))
	if err != nil {
		return 0, err
	}
	sort.Strings(topicDirs)

	processedNow := 0
	for _, topicDir := range topicDirs {
		info, err := os.Stat(topicDir)
		if err != nil || !info.IsDir() {
			continue
		}

		fmt.Fprintf(cv.out, "Processing '%s'\n", topicDir)
		yearDir := filepath.Base(filepath.Dir(topicDir))

		written, err := EnsureSparvConfig(yearDir, filepath.Join(cv.outDir, yearDir), false)
		if err != nil {
			return processedNow, err
		}
		if written {
			fmt.Fprintf(cv.out, "%s written\n", filepath.Join(cv.outDir, yearDir, "config.yaml"))
		}

		contentsDir := filepath.Join(cv.outDir, yearDir, "source", filepath.Base(topicDir))
		counter := 1
		if !override {
			if next, ok := nextFileCounter(contentsDir); ok {
				counter = next
			}
		}

		count, err := cv.convertTopicDir(topicDir, contentsDir, counter, override, processed)
		if err != nil {
			return processedNow, err
		}
		processedNow += count
		fmt.Fprintf(cv.out, "Processed %d new article files in '%s'\n\n", count, topicDir)

		if err := cv.store.SaveProcessed(processed); err != nil {
			return processedNow, err
		}
	}

	if processedNow == 0 {
		fmt.Fprintln(cv.out, "No new articles found")
	} else {
		fmt.Fprintf(cv.out, "Done converting %d articles to XML!\n", processedNow)
	}
	return processedNow, nil
}

// convertTopicDir converts the JSON files of one topic directory, flushing
// size-bounded batches as it goes, and returns the number of files
// converted.
func (cv *Converter) convertTopicDir(topicDir, contentsDir string, counter int, override bool, processed svtcrawl.ProcessedIndex) (int, error) {
	files, err := jsonFiles(topicDir)
	if err != nil {
		return 0, err
	}

	count := 0
	var buf strings.Builder
	buf.WriteString(batchHeader)

	for _, path := range files {
		if !override {
			if dest, ok := processed[path]; ok {
				cv.log.Debug("skipping already processed file", "path", path, "dest", dest)
				continue
			}
		}
		cv.log.Debug("processing file", "path", path)

		data, err := os.ReadFile(path)
		if err != nil {
			return count, err
		}
		var articles []Article
		if err := json.Unmarshal(data, &articles); err != nil {
			return count, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if len(articles) == 0 {
			return count, fmt.Errorf("no content entries in %s", path)
		}

		xml, err := cv.transformer.Transform(&articles[0])
		if err != nil {
			return count, fmt.Errorf("failed to transform %s: %w", path, err)
		}

		buf.WriteString(xml)
		buf.WriteString("\n")
		processed[path] = filepath.Join(contentsDir, strconv.Itoa(counter)+".xml")

		// Builder length is UTF-8 bytes.
		if buf.Len() > cv.maxBytes {
			if err := cv.writeBatch(&buf, contentsDir, counter); err != nil {
				return count, err
			}
			counter++
			buf.Reset()
			buf.WriteString(batchHeader)
		}
		count++
	}

	if buf.Len() > len(batchHeader) {
		if err := cv.writeBatch(&buf, contentsDir, counter); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (cv *Converter) writeBatch(buf *strings.Builder, contentsDir string, counter int) error {
	buf.WriteString("</articles>")
	path := filepath.Join(contentsDir, strconv.Itoa(counter)+".xml")
	fmt.Fprintf(cv.out, "  Writing file %s\n", path)
	return svtcrawl.WriteData(path, []byte(buf.String()))
}

// nextFileCounter returns the counter following the highest numbered .xml
// file in dir, or false when there is none.
func nextFileCounter(dir string) (int, bool) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil || len(paths) == 0 {
		return 0, false
	}
	highest := 0
	found := false
	for _, path := range paths {
		stem := strings.TrimSuffix(filepath.Base(path), ".xml")
		n, err := strconv.Atoi(stem)
		if err != nil {
			continue
		}
		found = true
		if n > highest {
			highest = n
		}
	}
	if !found {
		return 0, false
	}
	return highest + 1, true
}

// jsonFiles returns the .json files under dir, sorted by path.
func jsonFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
