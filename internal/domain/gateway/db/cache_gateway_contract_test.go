package db

import (
	"context"
	"go-weather/internal/domain/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCacheContract checks the behaviour every CacheGateway backend must share
func runCacheContract(t *testing.T, gateway CacheGateway) {
	ctx := context.Background()

	t.Run("last city is a singleton", func(t *testing.T) {
		require.NoError(t, gateway.ReplaceLastCity(ctx, "London"))
		require.NoError(t, gateway.ReplaceLastCity(ctx, "Tokyo"))

		lastCity, err := gateway.FindLastCity(ctx)
		require.NoError(t, err)
		assert.Equal(t, &entity.LastCity{CityName: "Tokyo"}, lastCity)
	})

	t.Run("current weather upsert keeps one row per city", func(t *testing.T) {
		missing, err := gateway.FindCurrentWeather(ctx, "Lima")
		require.NoError(t, err)
		assert.Nil(t, missing)

		first := entity.WeatherSnapshot{CityName: "Lima", TemperatureC: 19, HumidityPercent: 83, Description: "mist", IconCode: "50d", WindSpeedMps: 3.6}
		second := entity.WeatherSnapshot{CityName: "Lima", TemperatureC: 21.5, HumidityPercent: 77, Description: "few clouds", IconCode: "02d", WindSpeedMps: 4.1}
		require.NoError(t, gateway.UpsertCurrentWeather(ctx, first))
		require.NoError(t, gateway.UpsertCurrentWeather(ctx, second))

		stored, err := gateway.FindCurrentWeather(ctx, "Lima")
		require.NoError(t, err)
		assert.Equal(t, &second, stored)
	})

	t.Run("forecast replacement drops every previous entry", func(t *testing.T) {
		require.NoError(t, gateway.ReplaceForecast(ctx, "Lima", []entity.ForecastEntry{
			{CityName: "Lima", Timestamp: 100, TemperatureC: 18, Description: "mist", IconCode: "50n"},
			{CityName: "Lima", Timestamp: 200, TemperatureC: 19, Description: "mist", IconCode: "50d"},
		}))
		fresh := []entity.ForecastEntry{
			{CityName: "Lima", Timestamp: 300, TemperatureC: 20, Description: "clear sky", IconCode: "01d", WindSpeedMps: 2},
			{CityName: "Lima", Timestamp: 400, TemperatureC: 22, Description: "clear sky", IconCode: "01d", WindSpeedMps: 3},
		}
		require.NoError(t, gateway.ReplaceForecast(ctx, "Lima", fresh))

		stored, err := gateway.FindForecast(ctx, "Lima")
		require.NoError(t, err)
		assert.Equal(t, fresh, stored)

		none, err := gateway.FindForecast(ctx, "Quito")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("prune removes entries before the cutoff", func(t *testing.T) {
		require.NoError(t, gateway.ReplaceForecast(ctx, "Cusco", []entity.ForecastEntry{
			{CityName: "Cusco", Timestamp: 50}, {CityName: "Cusco", Timestamp: 500},
		}))

		removed, err := gateway.DeleteForecastsBefore(ctx, 350)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		lima, err := gateway.FindForecast(ctx, "Lima")
		require.NoError(t, err)
		require.Len(t, lima, 1)
		assert.Equal(t, int64(400), lima[0].Timestamp)
	})

	t.Run("forecast replacement orders entries and keeps the last duplicate", func(t *testing.T) {
		require.NoError(t, gateway.ReplaceForecast(ctx, "Arequipa", []entity.ForecastEntry{
			{CityName: "Arequipa", Timestamp: 900, TemperatureC: 24, Description: "clear sky", IconCode: "01d"},
			{CityName: "Arequipa", Timestamp: 600, TemperatureC: 15, Description: "mist", IconCode: "50n"},
			{CityName: "Arequipa", Timestamp: 900, TemperatureC: 26, Description: "few clouds", IconCode: "02d"},
			{CityName: "Arequipa", Timestamp: 750, TemperatureC: 19, Description: "clear sky", IconCode: "01d"},
		}))

		stored, err := gateway.FindForecast(ctx, "Arequipa")
		require.NoError(t, err)
		assert.Equal(t, []entity.ForecastEntry{
			{CityName: "Arequipa", Timestamp: 600, TemperatureC: 15, Description: "mist", IconCode: "50n"},
			{CityName: "Arequipa", Timestamp: 750, TemperatureC: 19, Description: "clear sky", IconCode: "01d"},
			{CityName: "Arequipa", Timestamp: 900, TemperatureC: 26, Description: "few clouds", IconCode: "02d"},
		}, stored)

		require.NoError(t, gateway.ReplaceForecast(ctx, "Arequipa", nil))
		emptied, err := gateway.FindForecast(ctx, "Arequipa")
		require.NoError(t, err)
		assert.Empty(t, emptied)
	})
}

func TestSQLiteCacheContract(t *testing.T) {
	runCacheContract(t, newSQLiteGateway(t))
}
