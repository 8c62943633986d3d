package svtcrawl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Index file names inside the data directory.
const (
	crawledFile   = "crawled_pages.json"
	failedFile    = "failed_urls.json"
	processedFile = "processed_json.json"
)

// NodateBucket is the storage partition for articles whose publishing year
// is missing or implausible.
const NodateBucket = "nodate"

// CrawledEntry holds the index data for one downloaded article: its id, the
// year bucket it was stored under, and its topic. Serialized as a JSON array
// to match the on-disk index format.
type CrawledEntry [3]string

func (e CrawledEntry) ArticleID() string { return e[0] }
func (e CrawledEntry) Year() string      { return e[1] }
func (e CrawledEntry) Topic() string     { return e[2] }

// CrawledIndex maps short article URLs to their index entries. It grows
// monotonically during a crawl; every key corresponds to a JSON file on disk.
type CrawledIndex map[string]CrawledEntry

// FailedList is the ordered, deduplicated list of URLs (listing pages or
// articles) that failed to download.
type FailedList []string

// Contains reports whether url is on the list.
func (f FailedList) Contains(url string) bool {
	for _, u := range f {
		if u == url {
			return true
		}
	}
	return false
}

// Add appends url to the list unless it is already present.
func (f *FailedList) Add(url string) {
	if !f.Contains(url) {
		*f = append(*f, url)
	}
}

// Remove deletes url from the list if present, preserving order.
func (f *FailedList) Remove(url string) {
	for i, u := range *f {
		if u == url {
			*f = append((*f)[:i], (*f)[i+1:]...)
			return
		}
	}
}

// ProcessedIndex maps source JSON file paths to the XML batch file each one
// was converted into.
type ProcessedIndex map[string]string

// Store reads and writes the crawl state and article payloads under a data
// directory.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at dataDir. The directory is created
// lazily on first write.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// DataDir returns the root directory of the store.
func (s *Store) DataDir() string {
	return s.dataDir
}

// ArticlePath returns the storage path for an article's raw JSON.
func (s *Store) ArticlePath(year, topic, articleID string) string {
	return filepath.Join(s.dataDir, "svt-"+year, topic, articleID+".json")
}

// LoadCrawled reads the crawled-pages index. A missing file yields an empty
// index.
func (s *Store) LoadCrawled() (CrawledIndex, error) {
	idx := CrawledIndex{}
	if err := s.loadJSON(crawledFile, &idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// SaveCrawled writes the crawled-pages index.
func (s *Store) SaveCrawled(idx CrawledIndex) error {
	return s.WriteJSON(filepath.Join(s.dataDir, crawledFile), idx)
}

// LoadFailed reads the failed-URLs list. A missing file yields an empty list.
func (s *Store) LoadFailed() (FailedList, error) {
	var list FailedList
	if err := s.loadJSON(failedFile, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveFailed writes the failed-URLs list.
func (s *Store) SaveFailed(list FailedList) error {
	if list == nil {
		list = FailedList{}
	}
	return s.WriteJSON(filepath.Join(s.dataDir, failedFile), list)
}

// LoadProcessed reads the processed-files index. A missing file yields an
// empty index.
func (s *Store) LoadProcessed() (ProcessedIndex, error) {
	idx := ProcessedIndex{}
	if err := s.loadJSON(processedFile, &idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// SaveProcessed writes the processed-files index.
func (s *Store) SaveProcessed(idx ProcessedIndex) error {
	return s.WriteJSON(filepath.Join(s.dataDir, processedFile), idx)
}

func (s *Store) loadJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// WriteJSON writes v as pretty-printed JSON to path, creating parent
// directories as needed.
func (s *Store) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	return WriteData(path, data)
}

// WriteData writes arbitrary bytes to path, creating parent directories as
// needed.
func WriteData(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
