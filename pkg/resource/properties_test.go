package resource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProperties = `
app:
  name: ${TEST_APP_NAME:go-weather}
  server:
    port: ${TEST_SERVER_PORT:8080}
  weather:
    api-key: ${TEST_WEATHER_API_KEY:}
    timeout: 5s
    base-url: http://${TEST_WEATHER_HOST:localhost}:${TEST_WEATHER_PORT:9000}/data
  redis:
    ttl:
      current: 10m
      forecast: 2h
`

func writeProperties(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yml")
	require.NoError(t, os.WriteFile(path, []byte(testProperties), 0o600))
	return path
}

func TestInitResolvesPlaceholders(t *testing.T) {
	t.Setenv("TEST_SERVER_PORT", "9090")
	t.Setenv("TEST_WEATHER_HOST", "weather.local")

	require.NoError(t, Init(writeProperties(t)))

	assert.Equal(t, "go-weather", GetString("app.name"))
	assert.Equal(t, 9090, GetInt("app.server.port"))
	assert.Equal(t, 5*time.Second, GetDuration("app.weather.timeout"))
	assert.Equal(t, "http://weather.local:9000/data", GetString("app.weather.base-url"))
	assert.Empty(t, GetString("app.weather.api-key"))
	assert.Equal(t, map[string]time.Duration{"current": 10 * time.Minute, "forecast": 2 * time.Hour},
		GetStringMapDuration("app.redis.ttl"))
}

func TestDefaultsFillMissingKeys(t *testing.T) {
	SetDefault("app.cache.backend", "sqlite")

	require.NoError(t, Init(writeProperties(t)))

	assert.Equal(t, "sqlite", GetString("app.cache.backend"))

	Set("app.cache.backend", "redis")
	assert.Equal(t, "redis", GetString("app.cache.backend"))
}

func TestInitMissingFile(t *testing.T) {
	assert.Error(t, Init(filepath.Join(t.TempDir(), "missing.yml")))
}
