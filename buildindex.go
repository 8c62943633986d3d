package svtcrawl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BuildIndex reconstructs a crawled index from the JSON files on disk and
// writes it to outName inside the data directory. The article URL comes from
// each file's first content entry; id, year and topic come from the file's
// path segments.
func BuildIndex(store *Store, outName string) (CrawledIndex, error) {
	idx := CrawledIndex{}

	paths, err := filepath.Glob(filepath.Join(store.DataDir(), "svt-*", "*", "*.json"))
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		topicDir := filepath.Dir(path)
		yearDir := filepath.Base(filepath.Dir(topicDir))
		year := strings.TrimPrefix(yearDir, "svt-")
		topic := filepath.Base(topicDir)
		articleID := strings.TrimSuffix(filepath.Base(path), ".json")

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var content []struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(data, &content); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if len(content) == 0 {
			continue
		}

		idx[content[0].URL] = CrawledEntry{articleID, year, topic}
	}

	if err := store.WriteJSON(filepath.Join(store.DataDir(), outName), idx); err != nil {
		return nil, err
	}
	return idx, nil
}
