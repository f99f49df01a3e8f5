package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of the optional scraper.yaml file.
// Scrape targets are lists and are easier to manage in YAML than env vars.
type FileConfig struct {
	Scrape ScrapeTargets `yaml:"scrape"`
	Poll   PollSettings  `yaml:"poll"`
}

// LoadFile loads the YAML configuration file at path.
// Returns nil without error if the file doesn't exist.
func LoadFile(path string) (*FileConfig, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// applyTo copies every non-zero field onto cfg.
func (fc *FileConfig) applyTo(cfg *Config) {
	if fc == nil {
		return
	}
	if fc.Scrape.Actor != "" {
		cfg.Scrape.Actor = fc.Scrape.Actor
	}
	if fc.Scrape.MaxResults > 0 {
		cfg.Scrape.MaxResults = fc.Scrape.MaxResults
	}
	if len(fc.Scrape.CategoryURLs) > 0 {
		cfg.Scrape.CategoryURLs = fc.Scrape.CategoryURLs
	}
	if fc.Poll.MaxAttempts > 0 {
		cfg.Poll.MaxAttempts = fc.Poll.MaxAttempts
	}
	if fc.Poll.Interval > 0 {
		cfg.Poll.Interval = fc.Poll.Interval
	}
}
