package main

import (
	"bytes"
	"go-weather/internal/application/session"
	"go-weather/internal/domain/entity"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintStateSuccess(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	state := session.Success(
		entity.WeatherSnapshot{CityName: "London", TemperatureC: 15, HumidityPercent: 72, Description: "light rain", IconCode: "10d", WindSpeedMps: 4.1},
		[]entity.ForecastEntry{{CityName: "London", Timestamp: 1700000000, TemperatureC: 13.25, Description: "overcast clouds", WindSpeedMps: 3}},
		true,
	)

	require.NoError(t, printState(&out, state))

	text := out.String()
	assert.Contains(t, text, "Showing cached data for London")
	assert.Contains(t, text, "15.0°  light rain, humidity 72%, wind 4.1 m/s")
	assert.Contains(t, text, "overcast clouds")
	assert.Contains(t, text, "13.2°")
}

func TestPrintStateError(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer

	require.NoError(t, printState(&out, session.Failure("No previous city found")))

	assert.Equal(t, "No previous city found\n", out.String())
}

func TestUnknownBackend(t *testing.T) {
	_, err := openCacheStore("mongodb")

	assert.ErrorContains(t, err, `unknown cache backend "mongodb"`)
}
