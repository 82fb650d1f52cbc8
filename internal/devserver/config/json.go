package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/study-upc/studyclient/internal/flagx"
	"github.com/study-upc/studyclient/internal/timex"
)

// jsonConfig mirrors Config for decoding. Durations use timex.Duration so
// both "15m" and integer nanoseconds are accepted. Pointer fields tell an
// absent value from a zero one.
type jsonConfig struct {
	ListenAddr                  string          `json:"listen_addr"`
	BasePath                    string          `json:"base_path"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	DevPassword                 string          `json:"dev_password"`
	Admins                      []string        `json:"admins"`
	MaxUploadSize               int64           `json:"max_upload_size"`
	AllowedTypes                []string        `json:"allowed_types"`
	PresignExpiry               *timex.Duration `json:"presign_expiry"`
	S3RootUser                  string          `json:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket"`
	S3Region                    string          `json:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint"`
	LogFormat                   string          `json:"log_format"`
}

// parseJSON overlays cfg with the file given by -c/-config. Fields missing
// from the file keep their current values.
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

	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.BasePath, jc.BasePath)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.DevPassword, jc.DevPassword)
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	if jc.PresignExpiry != nil {
		cfg.PresignExpiry = jc.PresignExpiry.Duration
	}
	if jc.Admins != nil {
		cfg.Admins = jc.Admins
	}
	if len(jc.AllowedTypes) > 0 {
		cfg.AllowedTypes = jc.AllowedTypes
	}
	if jc.MaxUploadSize > 0 {
		cfg.MaxUploadSize = jc.MaxUploadSize
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
