package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"TEST_HTTP_PORT"`
	} `yaml:"http"`
	Limits struct {
		Timeout int     `yaml:"timeout"`
		Ratio   float64 `yaml:"ratio"`
		Enabled bool    `yaml:"enabled"`
	} `yaml:"limits"`
	Secret string `yaml:"secret" env:"-"`
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_RejectsNonPointer(t *testing.T) {
	assert.Error(t, LoadConfig(nil))
	assert.Error(t, LoadConfig(testConfig{}))

	s := "x"
	assert.Error(t, LoadConfig(&s))
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
http:
  port: "9000"
limits:
  timeout: 3
  ratio: 0.5
secret: from-file
`)
	t.Setenv(defaultConfigPathEnv, path)
	t.Setenv("TEST_HTTP_PORT", "9100")
	t.Setenv("LIMITS_ENABLED", "true")
	t.Setenv("SECRET", "ignored")

	var cfg testConfig
	require.NoError(t, LoadConfig(&cfg))

	assert.Equal(t, "9100", cfg.HTTP.Port)
	assert.Equal(t, 3, cfg.Limits.Timeout)
	assert.InDelta(t, 0.5, cfg.Limits.Ratio, 1e-9)
	assert.True(t, cfg.Limits.Enabled)
	assert.Equal(t, "from-file", cfg.Secret)
}

func TestLoadConfig_InvalidEnvValue(t *testing.T) {
	t.Setenv("LIMITS_TIMEOUT", "soon")

	var cfg testConfig
	err := LoadConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIMITS_TIMEOUT")
}

func TestLoadConfig_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := writeFile(t, "test.env", "TEST_HTTP_PORT=7000\nLIMITS_TIMEOUT=42\n")
	t.Setenv(defaultDotEnvPathEnv, path)
	t.Setenv("TEST_HTTP_PORT", "7100")
	t.Cleanup(func() { _ = os.Unsetenv("LIMITS_TIMEOUT") })

	var cfg testConfig
	require.NoError(t, LoadConfig(&cfg))

	assert.Equal(t, "7100", cfg.HTTP.Port)
	assert.Equal(t, 42, cfg.Limits.Timeout)
}

func TestLoadConfig_MissingExplicitDotEnv(t *testing.T) {
	t.Setenv(defaultDotEnvPathEnv, filepath.Join(t.TempDir(), "absent.env"))

	var cfg testConfig
	assert.Error(t, LoadConfig(&cfg))
}

type tunables struct {
	Shutdown time.Duration `yaml:"shutdown" env:"TEST_SHUTDOWN"`
	Origins  []string      `yaml:"origins" env:"TEST_ORIGINS"`
	Ports    []int         `yaml:"ports" env:"TEST_PORTS"`
}

func TestLoadConfig_DurationsAndLists(t *testing.T) {
	t.Setenv("TEST_SHUTDOWN", "15s")
	t.Setenv("TEST_ORIGINS", " http://a.test, ,http://b.test ")

	var cfg struct {
		Shutdown time.Duration `env:"TEST_SHUTDOWN"`
		Origins  []string      `env:"TEST_ORIGINS"`
	}
	require.NoError(t, LoadConfig(&cfg))
	assert.Equal(t, 15*time.Second, cfg.Shutdown)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins)
}

func TestLoadConfig_UnsupportedSlice(t *testing.T) {
	t.Setenv("TEST_PORTS", "1,2")

	var cfg tunables
	err := LoadConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_PORTS")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	t.Setenv("TEST_SHUTDOWN", "10")

	var cfg tunables
	assert.Error(t, LoadConfig(&cfg))
}
