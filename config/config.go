// Package config loads reqtrace.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file reqtrace searches for.
const FileName = "reqtrace.toml"

// Config mirrors the reqtrace.toml layout. Zero values mean "unset";
// the CLI layer merges flags over these.
type Config struct {
	Root           string `toml:"root"`
	Format         string `toml:"format"`
	Output         string `toml:"output"`
	Quiet          bool   `toml:"quiet"`
	FailOnEmpty    bool   `toml:"fail_on_empty"`
	IncludeGitMeta bool   `toml:"include_git_meta"`
	IncludeBlame   bool   `toml:"include_blame"`

	Scan   ScanConfig   `toml:"scan"`
	Filter FilterConfig `toml:"filter"`
}

// ScanConfig configures the scanning engine.
type ScanConfig struct {
	Slugs []string `toml:"slugs"`
}

// FilterConfig configures file collection.
type FilterConfig struct {
	IncludeVendored   bool     `toml:"include_vendored"`
	IncludeGenerated  bool     `toml:"include_generated"`
	IncludeSubmodules bool     `toml:"include_submodules"`
	Include           []string `toml:"include"`
	Exclude           []string `toml:"exclude"`
}

// Load reads and decodes a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Find walks up from start looking for a reqtrace.toml. Returns the path
// of the nearest one, or "" when none exists up to the filesystem root.
func Find(start string) string {
	dir := start
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		dir = filepath.Dir(start)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
