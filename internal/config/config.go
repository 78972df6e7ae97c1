package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Engine names selectable via FORECAST_ENGINE.
const (
	EngineModel     = "model"
	EngineHeuristic = "heuristic"
)

type AppConfig struct {
	Port        string
	MetricsPort string

	// Engine selects the forecast implementation: "model" (the trained
	// two-input classifier) or "heuristic" (the rule-based generator).
	Engine string

	// ArtifactSource is a file path or http(s) URL of the fitted bundle.
	ArtifactSource string

	// NoiseSeed fixes the synthetic-window noise source for reproducible
	// output. 0 means time-seeded.
	NoiseSeed int64

	// Precompute job: every interval, forecast the next PrecomputeHours
	// whole hours. PrecomputeHours <= 0 disables the job.
	PrecomputeInterval time.Duration
	PrecomputeHours    int

	// In-memory history retention.
	StoreMaxHistory int           // max number of retained forecasts (0 = unlimited)
	StoreMaxAge     time.Duration // max age of retained forecasts (0 = unlimited)

	// HTTPTimeout bounds the outbound artifact-bundle fetch.
	HTTPTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.MetricsPort = getenvDefault("METRICS_PORT", "9090")

	cfg.Engine = getenvDefault("FORECAST_ENGINE", EngineModel)
	if cfg.Engine != EngineModel && cfg.Engine != EngineHeuristic {
		return nil, fmt.Errorf("invalid FORECAST_ENGINE %q: must be %q or %q", cfg.Engine, EngineModel, EngineHeuristic)
	}

	cfg.ArtifactSource = getenvDefault("ARTIFACT_SOURCE", "models/nyc_bundle.json")

	seed, err := getenvInt64("NOISE_SEED", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid NOISE_SEED: %w", err)
	}
	cfg.NoiseSeed = seed

	interval, err := time.ParseDuration(getenvDefault("PRECOMPUTE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRECOMPUTE_INTERVAL: %w", err)
	}
	cfg.PrecomputeInterval = interval
	cfg.PrecomputeHours = getenvInt("PRECOMPUTE_HOURS", 6)

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 200)

	maxAge, err := time.ParseDuration(getenvDefault("STORE_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	httpTimeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = httpTimeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
