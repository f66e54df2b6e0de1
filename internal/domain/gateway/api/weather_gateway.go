package api

import (
	"context"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model"
)

// WeatherGateway defines the interface for weather-related external API calls.
// Every failure is returned as *model.RemoteFetchFailedError.
type WeatherGateway interface {
	// FetchCurrentWeather gets the current conditions of a city.
	// The returned snapshot is keyed by city exactly as given.
	FetchCurrentWeather(ctx context.Context, city string) (*entity.WeatherSnapshot, error)

	// FetchForecast gets the 5 day / 3 hour forecast of a city
	FetchForecast(ctx context.Context, city string) ([]entity.ForecastEntry, error)

	// Health reports the circuit breaker state of the remote API
	Health() model.ComponentHealthStatus
}
