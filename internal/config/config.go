// Package config provides configuration loading and structs for the Eiga server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Data     DataConfig     `yaml:"data"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Vocab    VocabConfig    `yaml:"vocab"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the catalog database and the title index.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	TitleIndexPath string `yaml:"title_index_path"`
}

// DataConfig holds the MovieLens dataset location and watch settings.
type DataConfig struct {
	Directory string `yaml:"directory"`
	Watch     bool   `yaml:"watch"`
}

// PipelineConfig holds the tunables for the query-answering pipeline.
// They are passed into the pipeline explicitly so tests can vary them
// without cross-test interference.
type PipelineConfig struct {
	// DefaultLimit is used when "top" appears without a usable quantity.
	DefaultLimit int `yaml:"default_limit"`
	// MaxLimit clamps any requested or parsed limit.
	MaxLimit int `yaml:"max_limit"`
	// ProcessingCap bounds normalized result sets for non-TOP_N intents.
	ProcessingCap int `yaml:"processing_cap"`
	// DisplayCap bounds compiled fact lines; always <= ProcessingCap.
	DisplayCap int `yaml:"display_cap"`
	// TitlePreview is the number of titles exposed in the context.
	TitlePreview int `yaml:"title_preview"`
	// QualityFloor is the minimum ratings count considered reliable.
	QualityFloor int `yaml:"quality_floor"`
	// FetchLimit bounds how many rows a single store read may return.
	FetchLimit int `yaml:"fetch_limit"`
	// Diversify enables genre round-robin re-selection on overflow.
	// Defaults to true when unset.
	Diversify *bool `yaml:"diversify"`
	// StarsMeanMinimum treats "N stars" as a lower bound (ge). When false,
	// "N stars" means exactly N (eq). Defaults to true when unset.
	StarsMeanMinimum *bool `yaml:"stars_mean_minimum"`
}

// DiversifyOrDefault returns whether to diversify on overflow; defaults to true.
func (p *PipelineConfig) DiversifyOrDefault() bool {
	if p.Diversify != nil {
		return *p.Diversify
	}
	return true
}

// StarsMeanMinimumOrDefault returns the "N stars" policy; defaults to true (ge).
func (p *PipelineConfig) StarsMeanMinimumOrDefault() bool {
	if p.StarsMeanMinimum != nil {
		return *p.StarsMeanMinimum
	}
	return true
}

// VocabConfig holds the vocabulary tables used by the parser. These are data,
// versionable independently of the extractor logic.
type VocabConfig struct {
	// Genres maps lowercase query aliases to canonical catalog genre names
	// (e.g. "science fiction" -> "Sci-Fi").
	Genres map[string]string `yaml:"genres"`
	// NumberWords maps small number words to values ("five" -> 5).
	NumberWords map[string]int `yaml:"number_words"`
	// FillerWords are trimmed from the tail of extracted title phrases.
	FillerWords []string `yaml:"filler_words"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.TitleIndexPath = expandPath(cfg.Storage.TitleIndexPath, configDir)
	if cfg.Data.Directory != "" {
		cfg.Data.Directory = expandPath(cfg.Data.Directory, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
