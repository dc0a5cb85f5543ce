package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Data source kinds for the aggregated map
const (
	SourceStore = "store" // Local SQLite reading store
	SourceHTTP  = "http"  // Remote map-data endpoint
)

// Config 应用配置
type Config struct {
	Port    string
	GinMode string
	DBPath  string

	// Reading provider for the map endpoints
	DataSource      string
	DataSourceURL   string
	UpstreamTimeout time.Duration

	// Merge uploads
	SpoolDir     string
	MaxFileSize  int64 // Per uploaded file, bytes
	MaxTotalSize int64 // Per request, bytes

	// Per-client rate limit for upload endpoints
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load 加载配置
// Values come from the environment; .env files are read first when present.
func Load() *Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))

	cfg := &Config{
		Port:            getEnv("PORT", ":8080"),
		GinMode:         getEnv("GIN_MODE", "release"),
		DBPath:          getEnv("DB_PATH", "./data/rci/rci.db"),
		DataSource:      getEnv("DATA_SOURCE", SourceStore),
		DataSourceURL:   getEnv("DATA_SOURCE_URL", "http://localhost:5000/api/map-data"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		SpoolDir:        getEnv("SPOOL_DIR", filepath.Join(os.TempDir(), "rci-merge")),
		MaxFileSize:     getInt64("MAX_FILE_SIZE", 50*1024*1024),   // 50MB
		MaxTotalSize:    getInt64("MAX_TOTAL_SIZE", 200*1024*1024), // 200MB
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 10),
	}

	if cfg.DataSource != SourceStore && cfg.DataSource != SourceHTTP {
		log.Printf("[Config] Unknown DATA_SOURCE %q, falling back to %q", cfg.DataSource, SourceStore)
		cfg.DataSource = SourceStore
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("[Config] Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[Config] Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[Config] Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
