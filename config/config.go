package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Batch configuration
	Sites        []string
	InputFile    string
	OutputFile   string
	OutputFormat string // csv, jsonl, or dual
	Concurrency  int

	// Checker configuration
	MaxCandidates int

	// Fetch configuration
	HTTPTimeout   time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	BlockTime     time.Duration

	// Provider configuration (provider mode is disabled without a key)
	ProviderEndpoint string
	ProviderAPIKey   string
	ProviderSites    []string

	// Redis configuration (publishing is disabled without an address)
	RedisAddr         string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int

	// Memcache configuration (empty means the in-process cache)
	MemcacheAddr string

	// Metrics configuration (empty means no metrics listener)
	MetricsAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	retryBackoffMs, _ := strconv.Atoi(getEnv("RETRY_BACKOFF_MS", "400"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "15"))
	blockTime, _ := strconv.Atoi(getEnv("BLOCK_SECONDS", "300"))
	retryAttempts, _ := strconv.Atoi(getEnv("RETRY_ATTEMPTS", "3"))
	maxCandidates, _ := strconv.Atoi(getEnv("MAX_CANDIDATES", "5"))
	concurrency, _ := strconv.Atoi(getEnv("CONCURRENCY", "4"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAXLEN", "1000"))

	return Config{
		Sites:             splitList(getEnv("SKU_SITES", "HomeDepot,Lowes,TractorSupply")),
		InputFile:         getEnv("SKU_INPUT_FILE", "skus.csv"),
		OutputFile:        getEnv("SKU_OUTPUT_FILE", "output/results.csv"),
		OutputFormat:      getEnv("SKU_OUTPUT_FORMAT", "csv"),
		Concurrency:       concurrency,
		MaxCandidates:     maxCandidates,
		HTTPTimeout:       time.Duration(httpTimeout) * time.Second,
		RetryAttempts:     retryAttempts,
		RetryBackoff:      time.Duration(retryBackoffMs) * time.Millisecond,
		BlockTime:         time.Duration(blockTime) * time.Second,
		ProviderEndpoint:  getEnv("PROVIDER_ENDPOINT", ""),
		ProviderAPIKey:    getEnv("PROVIDER_API_KEY", ""),
		ProviderSites:     splitList(getEnv("PROVIDER_SITES", "")),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisDB:           redisDB,
		RedisStream:       getEnv("REDIS_STREAM", "skuchecker:results"),
		RedisStreamMaxLen: redisStreamMaxLen,
		MemcacheAddr:      getEnv("MEMCACHE_ADDR", ""),
		MetricsAddr:       getEnv("METRICS_ADDR", ""),
		Environment:       getEnv("SKU_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration values are coherent
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("at least one site must be configured")
	}
	if c.InputFile == "" {
		return fmt.Errorf("input file cannot be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "jsonl" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, jsonl, or dual")
	}
	if c.MaxCandidates < 1 || c.MaxCandidates > 8 {
		return fmt.Errorf("max candidates must be between 1 and 8")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if len(c.ProviderSites) > 0 && c.ProviderAPIKey == "" {
		return fmt.Errorf("provider sites configured without an API key")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList parses a comma-separated list, dropping empty entries
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
