package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/study-upc/studyclient/internal/flagx"
	"github.com/study-upc/studyclient/internal/timex"
)

// jsonConfig is the on-disk shape. Pointer fields tell "absent" from zero.
type jsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	DBPath         string          `json:"db_path"`
	PageSize       int             `json:"page_size"`
	LogFormat      string          `json:"log_format"`
	Debug          *bool           `json:"debug"`
}

// parseJSON overlays cfg with the file given by -c/-config. Without the flag
// nothing happens.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
	return nil
}
