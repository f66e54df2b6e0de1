package weather

import (
	"context"
	"errors"
	"fmt"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/gateway/api"
	"go-weather/internal/domain/gateway/db"
	"go-weather/internal/domain/model"
	"go-weather/pkg/log"
	"strings"
	"time"
)

type weatherUseCase struct {
	apiGateway   api.WeatherGateway
	cacheGateway db.CacheGateway
	locks        *cityLock
}

func NewWeatherUseCase(apiGateway api.WeatherGateway, cacheGateway db.CacheGateway) UseCase {
	return &weatherUseCase{
		apiGateway:   apiGateway,
		cacheGateway: cacheGateway,
		locks:        newCityLock(),
	}
}

// FetchCurrentWeather returns live conditions or the cached snapshot
func (uc *weatherUseCase) FetchCurrentWeather(ctx context.Context, city string) (*model.Fetched[entity.WeatherSnapshot], error) {
	key, err := cityKey(city)
	if err != nil {
		return nil, err
	}

	snapshot, remoteErr := uc.apiGateway.FetchCurrentWeather(ctx, key)
	if remoteErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return uc.cachedCurrentWeather(ctx, key, remoteErr)
	}

	// Cache writes are not cancelled with the caller
	writeCtx := context.WithoutCancel(ctx)
	unlock := uc.locks.lock(key)
	defer unlock()

	if err := uc.cacheGateway.UpsertCurrentWeather(writeCtx, *snapshot); err != nil {
		return nil, &model.CacheWriteFailedError{City: key, Operation: model.OperationCurrentWeather, Err: err}
	}
	if err := uc.cacheGateway.ReplaceLastCity(writeCtx, key); err != nil {
		return nil, &model.CacheWriteFailedError{City: key, Operation: model.OperationLastCity, Err: err}
	}

	log.Debugw("current weather fetched", "city", key, "source", model.SourceLive)
	return model.Live(*snapshot), nil
}

func (uc *weatherUseCase) cachedCurrentWeather(ctx context.Context, city string, remoteErr error) (*model.Fetched[entity.WeatherSnapshot], error) {
	cached, err := uc.cacheGateway.FindCurrentWeather(ctx, city)
	if err != nil {
		log.Warnw("cache read failed", "city", city, "operation", model.OperationCurrentWeather, "error", err)
		return nil, &model.DataUnavailableError{
			City:      city,
			Operation: model.OperationCurrentWeather,
			Err:       errors.Join(remoteErr, fmt.Errorf("read cache: %w", err)),
		}
	}
	if cached == nil {
		return nil, &model.DataUnavailableError{City: city, Operation: model.OperationCurrentWeather, Err: remoteErr}
	}

	log.Infow("serving cached current weather", "city", city, "cause", remoteErr.Error())
	return model.Cached(*cached), nil
}

// FetchForecast returns the live forecast or the cached entries
func (uc *weatherUseCase) FetchForecast(ctx context.Context, city string) (*model.Fetched[[]entity.ForecastEntry], error) {
	key, err := cityKey(city)
	if err != nil {
		return nil, err
	}

	entries, remoteErr := uc.apiGateway.FetchForecast(ctx, key)
	if remoteErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return uc.cachedForecast(ctx, key, remoteErr)
	}

	unlock := uc.locks.lock(key)
	defer unlock()

	if err := uc.cacheGateway.ReplaceForecast(context.WithoutCancel(ctx), key, entries); err != nil {
		return nil, &model.CacheWriteFailedError{City: key, Operation: model.OperationForecast, Err: err}
	}

	log.Debugw("forecast fetched", "city", key, "entries", len(entries), "source", model.SourceLive)
	return model.Live(entries), nil
}

func (uc *weatherUseCase) cachedForecast(ctx context.Context, city string, remoteErr error) (*model.Fetched[[]entity.ForecastEntry], error) {
	cached, err := uc.cacheGateway.FindForecast(ctx, city)
	if err != nil {
		log.Warnw("cache read failed", "city", city, "operation", model.OperationForecast, "error", err)
		return nil, &model.DataUnavailableError{
			City:      city,
			Operation: model.OperationForecast,
			Err:       errors.Join(remoteErr, fmt.Errorf("read cache: %w", err)),
		}
	}
	if len(cached) == 0 {
		return nil, &model.DataUnavailableError{City: city, Operation: model.OperationForecast, Err: remoteErr}
	}

	log.Infow("serving cached forecast", "city", city, "entries", len(cached), "cause", remoteErr.Error())
	return model.Cached(cached), nil
}

// GetLastCity returns the city of the most recent successful fetch
func (uc *weatherUseCase) GetLastCity(ctx context.Context) (*entity.LastCity, error) {
	lastCity, err := uc.cacheGateway.FindLastCity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last city: %w", err)
	}
	return lastCity, nil
}

// PruneForecasts deletes cached forecast entries older than before
func (uc *weatherUseCase) PruneForecasts(ctx context.Context, before time.Time) (int64, error) {
	removed, err := uc.cacheGateway.DeleteForecastsBefore(ctx, before.Unix())
	if err != nil {
		return removed, fmt.Errorf("failed to prune forecasts before %s: %w", before.Format(time.RFC3339), err)
	}
	return removed, nil
}

func cityKey(city string) (string, error) {
	key := strings.TrimSpace(city)
	if key == "" {
		return "", model.ErrInvalidCity
	}
	return key, nil
}
