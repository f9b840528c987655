package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override file settings.
// RT_MODEL__PATH overrides model.path.
const EnvPrefix = "RT_"

type Config struct {
	Server     ServerConfig     `json:"server"`
	Model      ModelConfig      `json:"model"`
	Distance   DistanceConfig   `json:"distance"`
	Validation ValidationConfig `json:"validation"`
	Database   DatabaseConfig   `json:"database"`
	Logging    LoggingConfig    `json:"logging"`
}

// Load reads the configuration file at path (yaml or json), applies
// environment overrides and defaults, and validates the result.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %q: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Model.SetDefaults()
	c.Distance.SetDefaults()
	c.Validation.SetDefaults()
	c.Database.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section and joins the failures.
func (c Config) Validate() error {
	errs := []error{
		c.Server.Validate(),
		c.Model.Validate(),
		c.Distance.Validate(),
		c.Validation.Validate(),
		c.Logging.Validate(),
	}
	if c.Distance.needsDatabase() || c.Validation.needsDatabase() {
		errs = append(errs, c.Database.Validate())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NeedsDatabase reports whether any configured component reads reference data.
func (c Config) NeedsDatabase() bool {
	return c.Distance.needsDatabase() || c.Validation.needsDatabase()
}
