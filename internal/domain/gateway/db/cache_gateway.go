package db

import (
	"cmp"
	"context"
	"go-weather/internal/domain/entity"
	"slices"
)

// CacheGateway persists the last successful remote results so they can be served offline.
// Find methods return nil (or an empty slice) without error when nothing is stored.
type CacheGateway interface {
	FindLastCity(ctx context.Context) (*entity.LastCity, error)
	// ReplaceLastCity keeps a single row, overwriting the previous city
	ReplaceLastCity(ctx context.Context, city string) error

	FindCurrentWeather(ctx context.Context, city string) (*entity.WeatherSnapshot, error)
	// UpsertCurrentWeather overwrites the snapshot stored for snapshot.CityName
	UpsertCurrentWeather(ctx context.Context, snapshot entity.WeatherSnapshot) error

	// FindForecast returns the entries of a city ordered by timestamp
	FindForecast(ctx context.Context, city string) ([]entity.ForecastEntry, error)
	// ReplaceForecast deletes every entry of the city and inserts entries in one atomic step
	ReplaceForecast(ctx context.Context, city string, entries []entity.ForecastEntry) error
	// DeleteForecastsBefore removes entries of every city whose timestamp is before the epoch second
	DeleteForecastsBefore(ctx context.Context, before int64) (int64, error)
}

// forecastRows orders entries by timestamp and keeps the last entry of each timestamp, tagged with city.
func forecastRows(city string, entries []entity.ForecastEntry) []entity.ForecastEntry {
	rows := make([]entity.ForecastEntry, 0, len(entries))
	for _, entry := range entries {
		entry.CityName = city
		rows = append(rows, entry)
	}
	slices.SortStableFunc(rows, func(a, b entity.ForecastEntry) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	deduped := rows[:0]
	for i, row := range rows {
		if i+1 < len(rows) && rows[i+1].Timestamp == row.Timestamp {
			continue
		}
		deduped = append(deduped, row)
	}
	return deduped
}
