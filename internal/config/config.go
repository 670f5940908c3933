// Package config loads service settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	RedisURL        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	WilayahCSVPath string

	// BMKG upstream endpoints.
	EarthquakeBaseURL string
	WeatherBaseURL    string
	NowcastBaseURL    string
	UpstreamTimeout   time.Duration

	// Per-domain cache TTLs.
	TTLEarthquakeLatest time.Duration
	TTLEarthquakeList   time.Duration
	TTLWeather          time.Duration
	TTLNowcast          time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	ttlLatest, err := parseTTLSeconds("CACHE_TTL_EARTHQUAKE_LATEST", 60)
	if err != nil {
		return nil, err
	}
	ttlList, err := parseTTLSeconds("CACHE_TTL_EARTHQUAKE_LIST", 300)
	if err != nil {
		return nil, err
	}
	ttlWeather, err := parseTTLSeconds("CACHE_TTL_WEATHER", 900)
	if err != nil {
		return nil, err
	}
	ttlNowcast, err := parseTTLSeconds("CACHE_TTL_NOWCAST", 120)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		RedisURL:        envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WilayahCSVPath: envOrDefault("WILAYAH_CSV_PATH", "data/wilayah.csv"),

		EarthquakeBaseURL: envOrDefault("BMKG_EARTHQUAKE_BASE_URL", "https://data.bmkg.go.id/DataMKG/TEWS"),
		WeatherBaseURL:    envOrDefault("BMKG_WEATHER_BASE_URL", "https://api.bmkg.go.id/publik/prakiraan-cuaca"),
		NowcastBaseURL:    envOrDefault("BMKG_NOWCAST_BASE_URL", "https://www.bmkg.go.id/alerts/nowcast"),
		UpstreamTimeout:   upstreamTimeout,

		TTLEarthquakeLatest: ttlLatest,
		TTLEarthquakeList:   ttlList,
		TTLWeather:          ttlWeather,
		TTLNowcast:          ttlNowcast,
	}

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("HTTP_ADDR is required")
	}
	if cfg.WilayahCSVPath == "" {
		return nil, fmt.Errorf("WILAYAH_CSV_PATH is required")
	}
	if cfg.EarthquakeBaseURL == "" || cfg.WeatherBaseURL == "" || cfg.NowcastBaseURL == "" {
		return nil, fmt.Errorf("BMKG base URLs must not be empty")
	}

	return cfg, nil
}

// envOrDefault returns the value of the named variable, or def when unset
// or empty.
func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}

// parseTTLSeconds reads a TTL expressed as a whole number of seconds.
func parseTTLSeconds(name string, def int) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return time.Duration(def) * time.Second, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return time.Duration(n) * time.Second, nil
}
