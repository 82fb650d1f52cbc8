package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080/api/v1", c.APIBaseURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "studyclient.db", c.DBPath)
	assert.Equal(t, 20, c.PageSize)
	assert.Equal(t, "text", c.LogFormat)
	assert.False(t, c.Debug)
}

func TestLoadConfig_DefaultsWithoutArgs(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url": "http://json:1/api",
		"page_size":    50,
	})

	cfg, err := LoadConfig([]string{"-c", path, "-a", "http://flag:2/api", "unrelated"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag:2/api", cfg.APIBaseURL)
	assert.Equal(t, 50, cfg.PageSize)
}
