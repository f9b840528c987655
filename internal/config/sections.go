package config

import (
	"fmt"
	"time"
)

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	// Timeouts are expressed in seconds.
	ReadHeaderTimeoutSeconds int      `json:"read_header_timeout_seconds"`
	ReadTimeoutSeconds       int      `json:"read_timeout_seconds"`
	WriteTimeoutSeconds      int      `json:"write_timeout_seconds"`
	IdleTimeoutSeconds       int      `json:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds   int      `json:"shutdown_timeout_seconds"`
	CORSOrigins              []string `json:"cors_origins"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.ReadHeaderTimeoutSeconds == 0 {
		c.ReadHeaderTimeoutSeconds = 5
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.WriteTimeoutSeconds == 0 {
		c.WriteTimeoutSeconds = 30
	}
	if c.IdleTimeoutSeconds == 0 {
		c.IdleTimeoutSeconds = 60
	}
	if c.ShutdownTimeoutSeconds == 0 {
		c.ShutdownTimeoutSeconds = 10
	}
}

func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.ReadTimeoutSeconds < 0 || c.WriteTimeoutSeconds < 0 || c.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}

// Seconds converts a configured seconds value into a duration.
func Seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// ModelConfig locates the model artifact loaded at startup.
type ModelConfig struct {
	Path string `json:"path"`
	// Format is "catboost" (CatBoost JSON export) or "linear".
	Format string `json:"format"`
	// Required makes a load failure fatal. When false the service starts
	// without a model and answers 0.0.
	Required *bool `json:"required"`
}

func (c *ModelConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "model.json"
	}
	if c.Format == "" {
		c.Format = "catboost"
	}
	if c.Required == nil {
		required := true
		c.Required = &required
	}
}

func (c ModelConfig) Validate() error {
	if c.Format != "catboost" && c.Format != "linear" {
		return fmt.Errorf("unknown model format %s", c.Format)
	}
	return nil
}

// IsRequired reports whether a model load failure must abort startup.
func (c ModelConfig) IsRequired() bool { return c.Required == nil || *c.Required }

// DistanceConfig selects the distance resolver.
type DistanceConfig struct {
	// Mode is one of "constant", "static", "haversine", "table", "http".
	Mode string `json:"mode"`
	// Constant is the distance answered by the constant mode. Unset means 300.
	Constant *float64 `json:"constant"`
	// Pairs lists the distances answered by the static mode.
	Pairs []DistancePair `json:"pairs"`
	// URL is the base URL of the routing service used by the http mode.
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// Retries is the number of extra attempts after a transient routing
	// service failure. Zero sends each request once.
	Retries        int `json:"retries"`
	RetryBackoffMS int `json:"retry_backoff_ms"`
	// Store persists routing service answers in station_distances and reads
	// them back before calling the service. Requires the database.
	Store bool `json:"store"`
	// CacheSize bounds the LRU of resolved pairs. Zero disables caching.
	CacheSize int `json:"cache_size"`
}

func (c *DistanceConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "constant"
	}
	if c.Constant == nil {
		km := 300.0
		c.Constant = &km
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 5
	}
	if c.RetryBackoffMS == 0 {
		c.RetryBackoffMS = 200
	}
}

func (c DistanceConfig) Validate() error {
	switch c.Mode {
	case "constant", "haversine", "table":
	case "static":
		if len(c.Pairs) == 0 {
			return fmt.Errorf("distance.pairs is required for static mode")
		}
	case "http":
		if c.URL == "" {
			return fmt.Errorf("distance.url is required for http mode")
		}
	default:
		return fmt.Errorf("unknown distance mode %s", c.Mode)
	}
	if c.Store && c.Mode != "http" {
		return fmt.Errorf("distance.store only applies to http mode")
	}
	if c.ConstantKM() < 0 {
		return fmt.Errorf("distance.constant must not be negative")
	}
	if c.Retries < 0 || c.RetryBackoffMS < 0 {
		return fmt.Errorf("distance.retries and distance.retry_backoff_ms must not be negative")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("distance.cache_size must not be negative")
	}
	return nil
}

// ConstantKM returns the configured constant distance, 300 when unset.
func (c DistanceConfig) ConstantKM() float64 {
	if c.Constant == nil {
		return 300
	}
	return *c.Constant
}

// DistancePair is one fixed station-to-station distance.
type DistancePair struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKM float64 `json:"distance_km"`
}

func (c DistanceConfig) needsDatabase() bool {
	return c.Mode == "haversine" || c.Mode == "table" || (c.Mode == "http" && c.Store)
}

// ValidationConfig selects the request validator.
type ValidationConfig struct {
	// Mode is "none" (accept everything) or "reference".
	Mode            string `json:"mode"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`
}

func (c *ValidationConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "none"
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 600
	}
}

func (c ValidationConfig) Validate() error {
	if c.Mode != "none" && c.Mode != "reference" {
		return fmt.Errorf("unknown validation mode %s", c.Mode)
	}
	return nil
}

func (c ValidationConfig) needsDatabase() bool { return c.Mode == "reference" }

// DatabaseConfig locates the station reference database.
type DatabaseConfig struct {
	// Driver is "sqlite" or "pgx".
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.DSN == "" && c.Driver == "sqlite" {
		c.DSN = "data/reference.db"
	}
}

func (c DatabaseConfig) Validate() error {
	if c.Driver != "sqlite" && c.Driver != "pgx" {
		return fmt.Errorf("unknown database driver %s", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	return nil
}

// LoggingConfig defines log level, format and optional file rotation.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	// File enables rotated file output instead of stdout.
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.File != "" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 100
	}
}

func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %s", c.Level)
	}
	if c.Format != "" && c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown log format %s", c.Format)
	}
	return nil
}
