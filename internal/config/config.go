// Package config loads server configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	FX        FXConfig        `yaml:"fx"`
	Linkcheck LinkcheckConfig `yaml:"linkcheck"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type CacheConfig struct {
	Enabled         bool   `yaml:"enabled"`
	RedisHost       string `yaml:"redis_host"`
	RedisPort       string `yaml:"redis_port"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	TTLSeconds      int    `yaml:"ttl_seconds"`
	ClaimTTLSeconds int    `yaml:"claim_ttl_seconds"`
}

type SearchConfig struct {
	ConnectorTimeoutSeconds int      `yaml:"connector_timeout_seconds"`
	OverallDeadlineSeconds  int      `yaml:"overall_deadline_seconds"`
	DetailTimeoutSeconds    int      `yaml:"detail_timeout_seconds"`
	MaxAttempts             int      `yaml:"max_attempts"`
	MaxParallelConnectors   int      `yaml:"max_parallel_connectors"`
	MaxOffersPerSearch      int      `yaml:"max_offers_per_search"`
	DefaultSources          []string `yaml:"default_sources"`
	// RateLimit applies to any source without a RateLimits entry.
	RateLimit  RateLimitConfig            `yaml:"rate_limit"`
	RateLimits map[string]RateLimitConfig `yaml:"rate_limits"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type FXConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TTLSeconds     int    `yaml:"ttl_seconds"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LinkcheckConfig struct {
	Probe          bool `yaml:"probe"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Cache: CacheConfig{
			Enabled:         true,
			RedisHost:       "localhost",
			RedisPort:       "6379",
			TTLSeconds:      180,
			ClaimTTLSeconds: 45,
		},
		Search: SearchConfig{
			ConnectorTimeoutSeconds: 20,
			OverallDeadlineSeconds:  30,
			DetailTimeoutSeconds:    5,
			MaxAttempts:             2,
			MaxParallelConnectors:   8,
			MaxOffersPerSearch:      50,
			DefaultSources:          []string{"trip_com", "airasia"},
			RateLimit:               RateLimitConfig{RequestsPerSecond: 10, Burst: 20},
			RateLimits: map[string]RateLimitConfig{
				"trip_com": {RequestsPerSecond: 20, Burst: 30},
				"airasia":  {RequestsPerSecond: 10, Burst: 20},
				"mynztrip": {RequestsPerSecond: 15, Burst: 25},
			},
		},
		FX: FXConfig{TTLSeconds: 1800, TimeoutSeconds: 10},
		Linkcheck: LinkcheckConfig{Probe: false, TimeoutSeconds: 10},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path (missing file means defaults) and
// then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Cache.Enabled = getEnvBool("CACHE_ENABLED", cfg.Cache.Enabled)
	cfg.Cache.RedisHost = getEnv("REDIS_HOST", cfg.Cache.RedisHost)
	cfg.Cache.RedisPort = getEnv("REDIS_PORT", cfg.Cache.RedisPort)
	cfg.Cache.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.TTLSeconds = getEnvInt("CACHE_TTL_SECONDS", cfg.Cache.TTLSeconds)
	cfg.Search.DefaultSources = getEnvList("DEFAULT_SOURCES", cfg.Search.DefaultSources)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	return cfg, nil
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c CacheConfig) ClaimTTL() time.Duration {
	return time.Duration(c.ClaimTTLSeconds) * time.Second
}

func (c SearchConfig) ConnectorTimeout() time.Duration {
	return time.Duration(c.ConnectorTimeoutSeconds) * time.Second
}

func (c SearchConfig) OverallDeadline() time.Duration {
	return time.Duration(c.OverallDeadlineSeconds) * time.Second
}

func (c SearchConfig) DetailTimeout() time.Duration {
	return time.Duration(c.DetailTimeoutSeconds) * time.Second
}

func (c FXConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c FXConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c LinkcheckConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
