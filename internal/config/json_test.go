package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_AllFields(t *testing.T) {
	path := writeTempJSON(t, `{
		"backend": {"address": "http://api.local:9000", "request_timeout": "20s"},
		"storage": {"db": {"dsn": "/tmp/sync.db"}},
		"sync": {
			"interval": "3m",
			"batch_size": 40,
			"max_attempts": 7,
			"max_in_flight": 2,
			"freshness_window": "90s"
		},
		"auth": {"session_token": "tok"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "http://api.local:9000", cfg.Backend.Address)
	assert.Equal(t, 20*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, "/tmp/sync.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 3*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 40, cfg.Sync.BatchSize)
	assert.Equal(t, 7, cfg.Sync.MaxAttempts)
	assert.Equal(t, 2, cfg.Sync.MaxInFlight)
	assert.Equal(t, 90*time.Second, cfg.Sync.FreshnessWindow)
	assert.Equal(t, "tok", cfg.Auth.SessionToken)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	// Durations may also arrive as raw nanosecond numbers.
	path := writeTempJSON(t, `{"backend": {"request_timeout": 1000000000}}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Backend.RequestTimeout)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON("/nonexistent/config.json")
	require.Error(t, err)
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	path := writeTempJSON(t, `{"backend": `)
	_, err := parseJSON(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding json")
}

func TestParseJSON_EmptyObject(t *testing.T) {
	path := writeTempJSON(t, `{}`)
	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, Backend{}, cfg.Backend)
	assert.Equal(t, Sync{}, cfg.Sync)
}

func TestDuration_UnmarshalInvalidString(t *testing.T) {
	var d Duration
	err := d.UnmarshalJSON([]byte(`"not-a-duration"`))
	require.Error(t, err)
}

func TestDuration_Marshal(t *testing.T) {
	d := Duration(90 * time.Second)
	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(out))
}
