// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/NivBraz/contentfilter-service/pkg/parser"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address         string   `yaml:"address"`
		ReadTimeout     int      `yaml:"readTimeout"`
		WriteTimeout    int      `yaml:"writeTimeout"`
		ShutdownTimeout int      `yaml:"shutdownTimeout"`
		AllowedOrigins  []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	// RateLimit throttles incoming requests. Zero disables it.
	RateLimit struct {
		RequestsPerSecond int `yaml:"requestsPerSecond"`
		Burst             int `yaml:"burst"`
	} `yaml:"rateLimit"`

	Database struct {
		Type         string `yaml:"type"`
		DSN          string `yaml:"dsn"`
		MaxOpenConns int    `yaml:"maxOpenConns"`
		ShowSQL      bool   `yaml:"showSQL"`
	} `yaml:"database"`

	Cache struct {
		Type     string `yaml:"type"`
		RedisURL string `yaml:"redisURL"`
		Key      string `yaml:"key"`
		TTL      int    `yaml:"ttl"`
	} `yaml:"cache"`

	WordBank struct {
		File string `yaml:"file"`
		URL  string `yaml:"url"`
	} `yaml:"wordBank"`

	HTTPClient struct {
		Timeout           int    `yaml:"timeout"`
		MaxRetries        int    `yaml:"maxRetries"`
		RetryDelay        int    `yaml:"retryDelay"`
		UserAgent         string `yaml:"userAgent"`
		RequestsPerSecond int    `yaml:"requestsPerSecond"`
		Burst             int    `yaml:"burst"`
	} `yaml:"httpClient"`

	Sanitizer struct {
		Mask             string `yaml:"mask"`
		PatternCacheSize int    `yaml:"patternCacheSize"`
	} `yaml:"sanitizer"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	// This will be populated from WordBank.File
	SeedWords []string `yaml:"-"`
}

// Load reads and parses the configuration at path
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if cfg.WordBank.File != "" {
		words, err := loadWordsFromFile(cfg.WordBank.File)
		if err != nil {
			return nil, fmt.Errorf("error loading words from file: %w", err)
		}
		cfg.SeedWords = words
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadWordsFromFile reads one restricted word per line
func loadWordsFromFile(filepath string) ([]string, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading words file: %w", err)
	}
	return parser.New().ParseWordBank(content)
}

// Default returns a configuration with every default applied
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// setDefaults sets default values for configuration
func setDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite3"
	}
	if cfg.Database.DSN == "" && cfg.Database.Type == "sqlite3" {
		cfg.Database.DSN = "file:contentfilter.db?cache=shared"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	// sqlite3 fails concurrent writers on a shared cache rather than queueing them
	if cfg.Database.Type == "sqlite3" {
		cfg.Database.MaxOpenConns = 1
	}
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = "memory"
	}
	if cfg.Cache.Key == "" {
		cfg.Cache.Key = "contentfilter:restricted-words"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600
	}
	if cfg.HTTPClient.Timeout == 0 {
		cfg.HTTPClient.Timeout = 30
	}
	if cfg.HTTPClient.MaxRetries == 0 {
		cfg.HTTPClient.MaxRetries = 3
	}
	if cfg.HTTPClient.RetryDelay == 0 {
		cfg.HTTPClient.RetryDelay = 1
	}
	if cfg.HTTPClient.UserAgent == "" {
		cfg.HTTPClient.UserAgent = "ContentFilter-Service/1.0"
	}
	if cfg.HTTPClient.RequestsPerSecond == 0 {
		cfg.HTTPClient.RequestsPerSecond = 5
	}
	if cfg.HTTPClient.Burst == 0 {
		cfg.HTTPClient.Burst = 1
	}
	if cfg.Sanitizer.Mask == "" {
		cfg.Sanitizer.Mask = "*"
	}
	if cfg.Sanitizer.PatternCacheSize == 0 {
		cfg.Sanitizer.PatternCacheSize = 64
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("requestsPerSecond must not be negative")
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("burst must not be negative")
	}
	if c.HTTPClient.RequestsPerSecond < 0 {
		return fmt.Errorf("httpClient requestsPerSecond must not be negative")
	}
	switch c.Database.Type {
	case "sqlite3", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("redisURL is required for the redis cache")
		}
	default:
		return fmt.Errorf("unsupported cache type %q", c.Cache.Type)
	}
	if utf8.RuneCountInString(c.Sanitizer.Mask) != 1 {
		return fmt.Errorf("sanitizer mask must be a single character")
	}
	if c.Sanitizer.PatternCacheSize < 0 {
		return fmt.Errorf("patternCacheSize must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	return nil
}

// MaskRune returns the configured mask as a rune
func (c *Config) MaskRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Sanitizer.Mask)
	return r
}
