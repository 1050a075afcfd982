// Package config provides configuration loading and management for codatagen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/codatagen/codata"
	"github.com/c360studio/codatagen/export"
)

// Config represents the complete codatagen configuration
type Config struct {
	Project     ProjectConfig     `yaml:"project"`
	Output      OutputConfig      `yaml:"output"`
	Identifiers IdentifiersConfig `yaml:"identifiers"`
	Tests       TestsConfig       `yaml:"tests"`
	Revisions   []RevisionConfig  `yaml:"revisions"`
	Format      FormatConfig      `yaml:"format"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Watch       WatchConfig       `yaml:"watch"`
}

// ProjectConfig names the C++ namespaces generated code lives in
type ProjectConfig struct {
	// Org is the outermost namespace and include directory (default: triumf)
	Org string `yaml:"org"`
	// Category is the second namespace level (default: constants)
	Category string `yaml:"category"`
	// NamePrefix is joined to the revision label to form the innermost
	// namespace and file stem, e.g. codata_2006 (default: codata)
	NamePrefix string `yaml:"name_prefix"`
}

// OutputConfig sets where artifacts are written, relative to the project root
type OutputConfig struct {
	IncludeDir string `yaml:"include_dir"`
	TestsDir   string `yaml:"tests_dir"`
}

// IdentifiersConfig controls name translation
type IdentifiersConfig struct {
	// Hyphen is "strip" (default) or "underscore"
	Hyphen string `yaml:"hyphen"`
}

// TestsConfig configures the generated test suites
type TestsConfig struct {
	// Types are the floating-point types each test case is instantiated for
	Types []string `yaml:"types"`
}

// RevisionConfig binds a revision label to its catalog
type RevisionConfig struct {
	// Label is the revision year, e.g. "2006"
	Label string `yaml:"label"`
	// Catalog is "builtin:<label>" or a path to a .yaml or NIST .txt file
	Catalog string `yaml:"catalog"`
}

// FormatConfig configures the external formatter
type FormatConfig struct {
	Enabled bool          `yaml:"enabled"`
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
	// Patterns select the files the format command rewrites
	Patterns []string `yaml:"patterns"`
}

// GeneratorConfig configures the generation driver
type GeneratorConfig struct {
	// Parallelism is the number of revisions generated at once (default: 1)
	Parallelism int `yaml:"parallelism"`
	// Verify parses every artifact with tree-sitter after rendering
	Verify bool `yaml:"verify"`
	// Manifest is the run manifest path (empty disables it)
	Manifest string `yaml:"manifest"`
}

// MetricsConfig configures metrics output
type MetricsConfig struct {
	// Textfile is a node_exporter textfile path (empty disables it)
	Textfile string `yaml:"textfile"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

var labelPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Org:        "triumf",
			Category:   "constants",
			NamePrefix: "codata",
		},
		Output: OutputConfig{
			IncludeDir: "include",
			TestsDir:   "tests",
		},
		Identifiers: IdentifiersConfig{
			Hyphen: string(codata.HyphenStrip),
		},
		Tests: TestsConfig{
			Types: append([]string(nil), export.DefaultTestTypes...),
		},
		Revisions: DefaultRevisions(),
		Format: FormatConfig{
			Enabled:  true,
			Command:  "clang-format",
			Timeout:  30 * time.Second,
			Patterns: []string{"include/**/*.hpp"},
		},
		Generator: GeneratorConfig{
			Parallelism: 1,
			Verify:      true,
			Manifest:    ".codatagen/manifest.yaml",
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}

// DefaultRevisions returns the five supported revisions. 2002 and 2006 ship
// with the binary; later revisions are read from NIST tables under catalog/.
func DefaultRevisions() []RevisionConfig {
	return []RevisionConfig{
		{Label: "2002", Catalog: "builtin:2002"},
		{Label: "2006", Catalog: "builtin:2006"},
		{Label: "2010", Catalog: "catalog/codata_2010.txt"},
		{Label: "2014", Catalog: "catalog/codata_2014.txt"},
		{Label: "2018", Catalog: "catalog/codata_2018.txt"},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Project.Org == "" {
		return fmt.Errorf("project.org is required")
	}
	if c.Project.Category == "" {
		return fmt.Errorf("project.category is required")
	}
	for _, ns := range []string{c.Project.Org, c.Project.Category} {
		if !codata.ValidIdentifier(ns) {
			return fmt.Errorf("project namespace %q is not a valid C++ identifier", ns)
		}
	}
	if c.Output.IncludeDir == "" || c.Output.TestsDir == "" {
		return fmt.Errorf("output.include_dir and output.tests_dir are required")
	}
	if _, err := codata.ParseHyphenMode(c.Identifiers.Hyphen); err != nil {
		return fmt.Errorf("identifiers.hyphen: %w", err)
	}
	if err := export.ValidateTestTypes(c.Tests.Types); err != nil {
		return fmt.Errorf("tests.types: %w", err)
	}
	if len(c.Revisions) == 0 {
		return fmt.Errorf("at least one revision is required")
	}

	seen := make(map[string]bool, len(c.Revisions))
	for _, r := range c.Revisions {
		if !labelPattern.MatchString(r.Label) {
			return fmt.Errorf("revision label %q must be non-empty and use only letters, digits and underscores", r.Label)
		}
		if seen[r.Label] {
			return fmt.Errorf("revision %q is listed twice", r.Label)
		}
		seen[r.Label] = true
		if r.Catalog == "" {
			return fmt.Errorf("revision %q has no catalog", r.Label)
		}
		name := export.NewNamespace(c.Project.Org, c.Project.Category, c.Project.NamePrefix, r.Label).Name
		if !codata.ValidIdentifier(name) {
			return fmt.Errorf("revision %q yields namespace %q, which is not a valid C++ identifier", r.Label, name)
		}
	}

	if c.Format.Enabled && c.Format.Command == "" {
		return fmt.Errorf("format.command is required when formatting is enabled")
	}
	if c.Format.Timeout < 0 {
		return fmt.Errorf("format.timeout must not be negative")
	}
	if c.Generator.Parallelism < 1 {
		return fmt.Errorf("generator.parallelism must be at least 1")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// HyphenMode returns the parsed identifiers.hyphen setting.
func (c *Config) HyphenMode() codata.HyphenMode {
	mode, err := codata.ParseHyphenMode(c.Identifiers.Hyphen)
	if err != nil {
		return codata.HyphenStrip
	}
	return mode
}

// Revision returns the configured revision with the given label.
func (c *Config) Revision(label string) (RevisionConfig, bool) {
	for _, r := range c.Revisions {
		if r.Label == label {
			return r, true
		}
	}
	return RevisionConfig{}, false
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.ApplyFile(path); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyFile overlays the keys present in a YAML file onto c. Keys the file
// omits keep their current values; lists present in the file replace the
// current list.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values).
// Boolean switches are never merged since false is indistinguishable from unset.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Project
	if other.Project.Org != "" {
		c.Project.Org = other.Project.Org
	}
	if other.Project.Category != "" {
		c.Project.Category = other.Project.Category
	}
	if other.Project.NamePrefix != "" {
		c.Project.NamePrefix = other.Project.NamePrefix
	}

	// Output
	if other.Output.IncludeDir != "" {
		c.Output.IncludeDir = other.Output.IncludeDir
	}
	if other.Output.TestsDir != "" {
		c.Output.TestsDir = other.Output.TestsDir
	}

	if other.Identifiers.Hyphen != "" {
		c.Identifiers.Hyphen = other.Identifiers.Hyphen
	}
	if len(other.Tests.Types) > 0 {
		c.Tests.Types = other.Tests.Types
	}
	if len(other.Revisions) > 0 {
		c.Revisions = other.Revisions
	}

	// Format
	if other.Format.Command != "" {
		c.Format.Command = other.Format.Command
	}
	if len(other.Format.Args) > 0 {
		c.Format.Args = other.Format.Args
	}
	if other.Format.Timeout != 0 {
		c.Format.Timeout = other.Format.Timeout
	}
	if len(other.Format.Patterns) > 0 {
		c.Format.Patterns = other.Format.Patterns
	}

	// Generator
	if other.Generator.Parallelism != 0 {
		c.Generator.Parallelism = other.Generator.Parallelism
	}
	if other.Generator.Manifest != "" {
		c.Generator.Manifest = other.Generator.Manifest
	}

	if other.Metrics.Textfile != "" {
		c.Metrics.Textfile = other.Metrics.Textfile
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}
