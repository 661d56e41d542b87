// Package config loads the optional .dokumentor.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".dokumentor.yaml"

const (
	defaultFormat      = "markdown"
	defaultConcurrency = 4
	defaultReadme      = "README.md"
)

// Config represents the project configuration.
type Config struct {
	Format      string           `yaml:"format"`
	Concurrency int              `yaml:"concurrency"`
	Sections    SectionsConfig   `yaml:"sections"`
	Repository  RepositoryConfig `yaml:"repository"`
	Targets     []Target         `yaml:"targets"`
	Generated   GeneratedConfig  `yaml:"generated"`
}

// SectionsConfig selects and orders generated sections.
type SectionsConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
	Order   []string `yaml:"order,omitempty"`
}

// RepositoryConfig overrides values detected from git.
type RepositoryConfig struct {
	URL string `yaml:"url,omitempty"`
	Ref string `yaml:"ref,omitempty"`
}

// Target pairs a manifest with the document generated from it.
type Target struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination,omitempty"` // defaults to README.md beside the source
}

// GeneratedConfig controls the attribution footer.
type GeneratedConfig struct {
	Show *bool `yaml:"show,omitempty"`
}

// ShowFooter reports whether the generated section is rendered.
func (g GeneratedConfig) ShowFooter() bool {
	return g.Show == nil || *g.Show
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration at path. A missing file at the default
// location yields Default(); a missing explicit path is an error.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, ferrors.ConfigError("failed to read configuration").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.ConfigError("failed to parse configuration").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = defaultFormat
	}
	if c.Concurrency == 0 {
		c.Concurrency = defaultConcurrency
	}
	for i := range c.Targets {
		if c.Targets[i].Destination == "" && c.Targets[i].Source != "" {
			c.Targets[i].Destination = DefaultDestination(c.Targets[i].Source)
		}
	}
}

// DefaultDestination returns README.md in the directory of source.
func DefaultDestination(source string) string {
	return filepath.Join(filepath.Dir(source), defaultReadme)
}

// Validate checks the configuration for values no command could use.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return ferrors.ConfigError(fmt.Sprintf("concurrency must be positive, got %d", c.Concurrency)).Build()
	}
	for _, list := range [][]string{c.Sections.Include, c.Sections.Exclude, c.Sections.Order} {
		if _, err := section.ParseList(list); err != nil {
			return ferrors.ConfigError("invalid section list").WithCause(err).Build()
		}
	}
	for i, t := range c.Targets {
		if strings.TrimSpace(t.Source) == "" || strings.TrimSpace(t.Destination) == "" {
			return ferrors.ConfigError(fmt.Sprintf("targets[%d]: source and destination are required", i)).Build()
		}
	}
	return nil
}
