package config

import (
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads .env/.env.local into the process environment. Existing
// variables are not overwritten; a missing file is not an error.
func loadDotEnv() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// applyEnvOverrides lets deployment environments override connection
// settings without editing the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCNORM_NATS_URL"); v != "" {
		cfg.NATS.URL = v
		cfg.NATS.Enabled = true
	}
	if v := os.Getenv("DOCNORM_NATS_SUBJECT"); v != "" {
		cfg.NATS.Subject = v
	}
	if v := os.Getenv("DOCNORM_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("DOCNORM_STATE_PATH"); v != "" {
		cfg.State.Path = v
	}
}
