package autoplay

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SuiteEntry is one starting position in a batch run. Depth, when set,
// overrides the batch default for this entry only.
type SuiteEntry struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	FEN   string `json:"fen" yaml:"fen"`
	Depth int    `json:"depth,omitempty" yaml:"depth,omitempty"`
}

// LoadSuite reads starting positions from a file. A .yaml/.yml file
// holds a list of entries; anything else is treated as plain text with
// one FEN per line and # comments.
func LoadSuite(path string) ([]SuiteEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAMLSuite(path)
	default:
		return loadTextSuite(path)
	}
}

func loadYAMLSuite(path string) ([]SuiteEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []SuiteEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}
	return entries, nil
}

func loadTextSuite(path string) ([]SuiteEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []SuiteEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, SuiteEntry{FEN: line})
	}
	return entries, scanner.Err()
}
