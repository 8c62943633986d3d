package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// sparvConfig is the per-year corpus descriptor read by the Sparv pipeline.
// Each sub corpus inherits from the shared configuration one level up.
type sparvConfig struct {
	Parent   string        `yaml:"parent"`
	Metadata sparvMetadata `yaml:"metadata"`
}

type sparvMetadata struct {
	ID   string    `yaml:"id"`
	Name sparvName `yaml:"name"`
}

type sparvName struct {
	Swe string `yaml:"swe"`
	Eng string `yaml:"eng"`
}

// EnsureSparvConfig writes the corpus descriptor for corpusID (for example
// "svt-2020") into dir unless one exists already. It reports whether a file
// was written.
func EnsureSparvConfig(corpusID, dir string, override bool) (bool, error) {
	path := filepath.Join(dir, "config.yaml")
	if !override {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	year := corpusID
	if i := strings.LastIndex(corpusID, "-"); i >= 0 {
		year = corpusID[i+1:]
	}
	sweYear, engYear := year, year
	if year == "nodate" {
		sweYear = "okänt datum"
		engYear = "unknown date"
	}

	cfg := sparvConfig{
		Parent: "../config.yaml",
		Metadata: sparvMetadata{
			ID: corpusID,
			Name: sparvName{
				Swe: "SVT nyheter " + sweYear,
				Eng: "SVT news " + engYear,
			},
		},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("failed to marshal corpus config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
