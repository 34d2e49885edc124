package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize int
	CacheTTL  time.Duration

	// Court settings
	CourtBaseURL     string
	DefaultCourtName string

	// Source adapter settings
	SourceMode    string // "portal" or "fixture"
	SourceTimeout time.Duration
	HeadlessMode  bool
	UserAgent     string
	BrowserPath   string

	// Summarizer settings
	GroqAPIKey     string
	GroqModel      string
	SummaryTimeout time.Duration

	// Document download settings
	DownloadDir     string
	DownloadTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "./data/court_cases.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		CourtBaseURL:     getEnv("COURT_BASE_URL", "https://delhihighcourt.nic.in"),
		DefaultCourtName: getEnv("COURT_NAME", "Delhi High Court"),
		SourceMode:       getEnv("SOURCE_MODE", "fixture"),
		UserAgent:        getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		BrowserPath:      getEnv("ROD_BROWSER_PATH", ""),
		GroqAPIKey:       getEnv("GROQ_API_KEY", ""),
		GroqModel:        getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		DownloadDir:      getEnv("DOWNLOAD_DIR", "./data/downloads"),
	}

	if cfg.SourceMode != "portal" && cfg.SourceMode != "fixture" {
		return nil, fmt.Errorf("invalid SOURCE_MODE: %s (expected portal or fixture)", cfg.SourceMode)
	}

	// Parse integer values
	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	sourceTimeout, err := strconv.Atoi(getEnv("SOURCE_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOURCE_TIMEOUT: %w", err)
	}
	cfg.SourceTimeout = time.Duration(sourceTimeout) * time.Second

	summaryTimeout, err := strconv.Atoi(getEnv("SUMMARY_TIMEOUT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_TIMEOUT: %w", err)
	}
	cfg.SummaryTimeout = time.Duration(summaryTimeout) * time.Second

	downloadTimeout, err := strconv.Atoi(getEnv("DOWNLOAD_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid DOWNLOAD_TIMEOUT: %w", err)
	}
	cfg.DownloadTimeout = time.Duration(downloadTimeout) * time.Second

	cfg.HeadlessMode = getEnv("HEADLESS_MODE", "true") == "true"

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
