package config

import "time"

// Config holds runtime settings for the shopfront CLI.
//
// Fields:
//   - APIBaseURL: scheme://host:port of the shop REST API.
//   - DataDir: directory holding the local session database.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	APIBaseURL     string
	DataDir        string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:7077"
	c.DataDir = "shopfront-data"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
