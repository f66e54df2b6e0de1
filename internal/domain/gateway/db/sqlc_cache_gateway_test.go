package db

import (
	"context"
	"go-weather/internal/domain/entity"
	"go-weather/internal/infra/database/migration"
	"go-weather/internal/infra/database/sqlc"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteGateway(t *testing.T) *SQLCCacheGateway {
	t.Helper()
	db, err := sqlc.OpenSQLite(filepath.Join(t.TempDir(), "cache", "weather.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migration.Up(db, "sqlite"))
	// running twice is a no-op
	require.NoError(t, migration.Up(db, "sqlite"))

	return NewSQLCCacheGateway(db, DialectSQLite)
}

func TestSQLCLastCity(t *testing.T) {
	ctx := context.Background()
	gateway := newSQLiteGateway(t)

	lastCity, err := gateway.FindLastCity(ctx)
	require.NoError(t, err)
	assert.Nil(t, lastCity)

	require.NoError(t, gateway.ReplaceLastCity(ctx, "London"))
	require.NoError(t, gateway.ReplaceLastCity(ctx, "Tokyo"))

	lastCity, err = gateway.FindLastCity(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entity.LastCity{CityName: "Tokyo"}, lastCity)

	var rows int
	require.NoError(t, gateway.DB.QueryRow(`SELECT COUNT(*) FROM last_city`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLCCurrentWeatherUpsert(t *testing.T) {
	ctx := context.Background()
	gateway := newSQLiteGateway(t)

	missing, err := gateway.FindCurrentWeather(ctx, "Paris")
	require.NoError(t, err)
	assert.Nil(t, missing)

	first := entity.WeatherSnapshot{CityName: "Paris", TemperatureC: 12, HumidityPercent: 70, Description: "mist", IconCode: "50d", WindSpeedMps: 1}
	second := entity.WeatherSnapshot{CityName: "Paris", TemperatureC: 14.5, HumidityPercent: 65, Description: "clear sky", IconCode: "01d", WindSpeedMps: 2.5}

	require.NoError(t, gateway.UpsertCurrentWeather(ctx, first))
	require.NoError(t, gateway.UpsertCurrentWeather(ctx, second))
	require.NoError(t, gateway.UpsertCurrentWeather(ctx, second))

	stored, err := gateway.FindCurrentWeather(ctx, "Paris")
	require.NoError(t, err)
	assert.Equal(t, &second, stored)

	var rows int
	require.NoError(t, gateway.DB.QueryRow(`SELECT COUNT(*) FROM current_weather`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLCReplaceForecast(t *testing.T) {
	ctx := context.Background()
	gateway := newSQLiteGateway(t)

	old := []entity.ForecastEntry{
		{CityName: "Paris", Timestamp: 100, TemperatureC: 1, Description: "a", IconCode: "01d"},
		{CityName: "Paris", Timestamp: 200, TemperatureC: 2, Description: "b", IconCode: "02d"},
		{CityName: "Paris", Timestamp: 300, TemperatureC: 3, Description: "c", IconCode: "03d"},
	}
	fresh := []entity.ForecastEntry{
		{CityName: "Paris", Timestamp: 500, TemperatureC: 5, Description: "e", IconCode: "05d"},
		{CityName: "Paris", Timestamp: 400, TemperatureC: 4, Description: "d", IconCode: "04d"},
	}
	other := []entity.ForecastEntry{{CityName: "Rome", Timestamp: 100, TemperatureC: 20, Description: "sun", IconCode: "01d"}}

	require.NoError(t, gateway.ReplaceForecast(ctx, "Paris", old))
	require.NoError(t, gateway.ReplaceForecast(ctx, "Rome", other))
	require.NoError(t, gateway.ReplaceForecast(ctx, "Paris", fresh))

	stored, err := gateway.FindForecast(ctx, "Paris")
	require.NoError(t, err)
	assert.Equal(t, []entity.ForecastEntry{fresh[1], fresh[0]}, stored)

	rome, err := gateway.FindForecast(ctx, "Rome")
	require.NoError(t, err)
	assert.Equal(t, other, rome)

	none, err := gateway.FindForecast(ctx, "Oslo")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLCDeleteForecastsBefore(t *testing.T) {
	ctx := context.Background()
	gateway := newSQLiteGateway(t)

	require.NoError(t, gateway.ReplaceForecast(ctx, "Paris", []entity.ForecastEntry{
		{CityName: "Paris", Timestamp: 100}, {CityName: "Paris", Timestamp: 200}, {CityName: "Paris", Timestamp: 300},
	}))
	require.NoError(t, gateway.ReplaceForecast(ctx, "Rome", []entity.ForecastEntry{{CityName: "Rome", Timestamp: 150}}))

	removed, err := gateway.DeleteForecastsBefore(ctx, 200)

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	paris, err := gateway.FindForecast(ctx, "Paris")
	require.NoError(t, err)
	assert.Len(t, paris, 2)
}

func TestRebind(t *testing.T) {
	postgres := &SQLCCacheGateway{dialect: DialectPostgres}
	sqlite := &SQLCCacheGateway{dialect: DialectSQLite}

	assert.Equal(t, "a = $1 AND b = $2", postgres.rebind("a = ? AND b = ?"))
	assert.Equal(t, "a = ? AND b = ?", sqlite.rebind("a = ? AND b = ?"))
}

func TestSQLCHealth(t *testing.T) {
	gateway := newSQLiteGateway(t)

	health := NewSQLCHealthDBGateway(gateway.DB, DialectSQLite).Health()

	assert.Equal(t, "UP", string(health.Status))
	assert.Equal(t, "sqlite", health.Details["backend"])
}
