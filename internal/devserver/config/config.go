package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - ListenAddr: bind address for the REST API.
//   - BasePath: prefix of every route, matching the client's API base URL.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - DevPassword: password accepted for every account.
//   - Admins: usernames that log in with the admin role.
//   - MaxUploadSize / AllowedTypes: the upload policy handed to clients.
//   - PresignExpiry: lifetime of a presigned PUT URL.
//   - S3*: object storage settings.
type Config struct {
	ListenAddr                  string
	BasePath                    string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	DevPassword                 string
	Admins                      []string
	MaxUploadSize               int64
	AllowedTypes                []string
	PresignExpiry               time.Duration
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	LogFormat                   string
}

// LoadDefaults populates c with development defaults. They are insecure and
// meant for a local MinIO.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.BasePath = "/api/v1"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.DevPassword = "password"
	c.Admins = []string{"admin"}
	c.MaxUploadSize = 50 * 1024 * 1024
	c.AllowedTypes = []string{"pdf", "docx", "doc", "pptx", "ppt", "zip", "rar"}
	c.PresignExpiry = 15 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "materials"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogFormat = "json"
}

// IsAdmin reports whether username is listed in Admins.
func (c *Config) IsAdmin(username string) bool {
	for _, a := range c.Admins {
		if a == username {
			return true
		}
	}
	return false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
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
