package config

import (
	"time"
)

// Config holds runtime settings for the study client CLI.
type Config struct {
	// APIBaseURL is the backend REST root, e.g. http://127.0.0.1:8080/api/v1.
	APIBaseURL     string
	RequestTimeout time.Duration
	// DBPath is the SQLite file holding the local cache.
	DBPath    string
	PageSize  int
	LogFormat string
	Debug     bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api/v1"
	c.RequestTimeout = 15 * time.Second
	c.DBPath = "studyclient.db"
	c.PageSize = 20
	c.LogFormat = "text"
	c.Debug = false
}

// LoadConfig applies defaults, then the JSON file named by -c/-config (if
// any), then command-line flags. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
