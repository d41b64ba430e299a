// Package config loads the CLI configuration.
// Priority: defaults < user file < project file < CHRONOFMT_CONFIG.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chronofmt/chronofmt/pkg/format"
	"github.com/chronofmt/chronofmt/pkg/registry"
)

// Config holds all chronofmt configuration.
type Config struct {
	Version int `yaml:"version"`

	Layouts []LayoutConfig `yaml:"layouts"`
	Scan    ScanConfig     `yaml:"scan"`
}

// LayoutConfig declares one user-defined named layout.
type LayoutConfig struct {
	Name      string `yaml:"name"`
	Pattern   string `yaml:"pattern"`
	Zone      string `yaml:"zone"`       // IANA name, default UTC
	PivotYear int    `yaml:"pivot_year"` // 0 = current year
	ParseOnly bool   `yaml:"parse_only"`
}

// ScanConfig controls scan command defaults.
type ScanConfig struct {
	Output  string `yaml:"output"` // target layout name
	Workers int    `yaml:"workers"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Scan: ScanConfig{
			Output:  "date-time",
			Workers: 1,
		},
	}
}

// Load reads configuration from all sources in priority order and
// validates it. Missing files are skipped; a file that exists but does
// not validate fails the load.
func Load() (*Config, error) {
	cfg := Default()

	for _, path := range configPaths() {
		if err := cfg.loadFile(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configPaths returns config file paths, later entries override
// earlier ones.
func configPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".chronofmt", "config.yaml"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".chronofmt.yaml"))
	}
	if env := os.Getenv("CHRONOFMT_CONFIG"); env != "" {
		paths = append(paths, env)
	}
	return paths
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return err
	}
	c.merge(&partial)
	return nil
}

// merge overlays non-zero values from src. Layout lists append, with
// later declarations of the same name winning at catalog build time.
func (c *Config) merge(src *Config) {
	if src.Version != 0 {
		c.Version = src.Version
	}
	c.Layouts = append(c.Layouts, src.Layouts...)
	if src.Scan.Output != "" {
		c.Scan.Output = src.Scan.Output
	}
	if src.Scan.Workers != 0 {
		c.Scan.Workers = src.Scan.Workers
	}
}

// Validate eagerly compiles every declared pattern and resolves every
// zone, so a bad declaration fails at startup rather than first use.
func (c *Config) Validate() error {
	for _, l := range c.Layouts {
		if l.Name == "" {
			return fmt.Errorf("config: layout with empty name (pattern %q)", l.Pattern)
		}
		if _, err := l.formatter(); err != nil {
			return fmt.Errorf("config: layout %q: %w", l.Name, err)
		}
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("config: scan.workers must not be negative")
	}
	return nil
}

func (l LayoutConfig) formatter() (*format.Formatter, error) {
	f, err := format.New(l.Pattern)
	if err != nil {
		return nil, err
	}
	if l.Zone != "" {
		loc, err := time.LoadLocation(l.Zone)
		if err != nil {
			return nil, fmt.Errorf("zone: %w", err)
		}
		f = f.WithZone(loc)
	}
	if l.PivotYear != 0 {
		f = f.WithPivotYear(l.PivotYear)
	}
	return f, nil
}

// Catalog builds the process catalog: built-ins extended with the
// configured layouts. Construction happens once at startup; the result
// is immutable like the built-in catalog itself.
func (c *Config) Catalog() (*registry.Catalog, error) {
	cat := registry.Default()
	for _, l := range c.Layouts {
		f, err := l.formatter()
		if err != nil {
			return nil, fmt.Errorf("config: layout %q: %w", l.Name, err)
		}
		cat = cat.With(registry.Entry{
			Name:      l.Name,
			Formatter: f,
			CanPrint:  !l.ParseOnly,
			CanParse:  true,
		})
	}
	return cat, nil
}
