package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":8080", cfg.StubAddr)
	assert.NotEmpty(t, cfg.StubSigningKey)
	assert.NotEmpty(t, cfg.SessionFile)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("SESSION_DB_PATH", ":memory:")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":memory:", cfg.SessionDB)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://env.example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := New(WithArgs([]string{"-b", "https://flag.example.com", "-t", "2s", "-f", ""}))
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.com", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.SessionFile, "an explicitly empty session file selects memory storage")
}

const testJSON = `{
	"api_base_url": "https://json.example.com",
	"log_level": "warn",
	"session_file_path": "",
	"request_timeout": "4s",
	"stub_address": "localhost:9090"
}`

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func TestJSONFile(t *testing.T) {
	path := writeTempJSON(t, testJSON)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := New(WithArgs([]string{"-c", path}))
	require.NoError(t, err)

	assert.Equal(t, "https://json.example.com", cfg.APIBaseURL)
	assert.Equal(t, "error", cfg.LogLevel, "the environment wins over the file")
	assert.Equal(t, 4*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "localhost:9090", cfg.StubAddr)
	assert.Empty(t, cfg.SessionFile)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestJSONFileFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG", writeTempJSON(t, testJSON))

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "https://json.example.com", cfg.APIBaseURL)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		fileJSON string
	}{
		{name: "unknown log level", args: []string{"-l", "verbose"}},
		{name: "base URL is not a URL", args: []string{"-b", "not a url"}},
		{name: "bad stub address", args: []string{"-a", "nowhere"}},
		{name: "missing config file", args: []string{"-c", filepath.Join(t.TempDir(), "missing.json")}},
		{name: "bad timeout in file", fileJSON: `{"request_timeout": "soon"}`},
		{name: "malformed file", fileJSON: `{"log_level":`},
		{name: "unknown flag", args: []string{"-z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.fileJSON != "" {
				args = []string{"-c", writeTempJSON(t, tt.fileJSON)}
			}

			_, err := New(WithArgs(args))
			assert.Error(t, err)
		})
	}
}
