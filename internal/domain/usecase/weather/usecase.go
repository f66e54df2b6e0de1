package weather

import (
	"context"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model"
	"time"
)

// UseCase fetches weather from the remote API and falls back to the cache when the remote fails.
type UseCase interface {
	// FetchCurrentWeather returns live conditions and caches them together with the last city,
	// or the cached snapshot when the remote fails. Without a cached snapshot it returns *model.DataUnavailableError.
	FetchCurrentWeather(ctx context.Context, city string) (*model.Fetched[entity.WeatherSnapshot], error)

	// FetchForecast returns the live forecast and replaces the cached one,
	// or the cached entries when the remote fails. Without cached entries it returns *model.DataUnavailableError.
	FetchForecast(ctx context.Context, city string) (*model.Fetched[[]entity.ForecastEntry], error)

	// GetLastCity returns the city of the most recent successful fetch, nil when none was recorded
	GetLastCity(ctx context.Context) (*entity.LastCity, error)

	// PruneForecasts deletes cached forecast entries older than before
	PruneForecasts(ctx context.Context, before time.Time) (int64, error)
}
