package config

import "time"

// Config holds runtime settings for the tillpoint terminal.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - DatabasePath: location of the local SQLite database.
//   - OnlineCheckInterval: how often the client probes backend reachability.
//   - RequestTimeout: per-request timeout for backend calls.
//
// Units: intervals are time.Duration (e.g. 3*time.Second).
type Config struct {
	APIBaseURL          string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "tillpoint.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
