package config

import "time"

// Default returns the built-in configuration. The anchor map carries the
// hand-curated mappings for the wiki export this tool was written against;
// entries added via config with an empty value get a derived slug instead.
func Default() *Config {
	return &Config{
		SectionAnchors: map[string]string{
			"Networking Section":          "networking-configuration",
			"Virtual Environment Section": "virtual-environment-setup",
			"Module Import Section":       "module-import-issues",
			"WSL.exe Section":             "wslexe-issues",
			"Path Translation Section":    "path-translation-issues",
			"Performance Section":         "performance-optimization",
			"Line Ending Section":         "line-ending-issues",
			"Distribution Section":        "distribution-selection",
		},
		NoiseLinePrefixes: []string{
			"Ask Devin about",
		},
		Watch: WatchConfig{
			Debounce:       500 * time.Millisecond,
			RescanInterval: 0,
		},
		NATS: NATSConfig{
			Subject: "docnorm.changed",
		},
		Metrics: MetricsConfig{
			Listen: ":9473",
		},
	}
}
