package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-weather/internal/domain/entity"
	"go-weather/pkg/log"
	"go-weather/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

const (
	CacheNameWeather  = "weather"
	CacheNameCurrent  = "weather::current"
	CacheNameForecast = "weather::forecast"

	lastCityKey = "last_city"
)

// RedisCacheGateway stores each payload as one JSON value:
// weather::last_city, weather::current::<city> and weather::forecast::<city>.
type RedisCacheGateway struct {
	client   *redis.Client
	weather  *redis.Cache
	current  *redis.Cache
	forecast *redis.Cache
}

var _ CacheGateway = (*RedisCacheGateway)(nil)

func NewRedisCacheGateway(client *redis.Client) *RedisCacheGateway {
	return &RedisCacheGateway{
		client:   client,
		weather:  redis.NewCache(client, redis.NewCacheOptions(CacheNameWeather)),
		current:  redis.NewCache(client, redis.NewCacheOptions(CacheNameCurrent)),
		forecast: redis.NewCache(client, redis.NewCacheOptions(CacheNameForecast)),
	}
}

func (gateway *RedisCacheGateway) FindLastCity(ctx context.Context) (*entity.LastCity, error) {
	var lastCity entity.LastCity
	found, err := gateway.weather.Get(ctx, lastCityKey, &lastCity)
	if err != nil || !found {
		return nil, err
	}
	return &lastCity, nil
}

func (gateway *RedisCacheGateway) ReplaceLastCity(ctx context.Context, city string) error {
	return gateway.weather.Set(ctx, lastCityKey, entity.LastCity{CityName: city})
}

func (gateway *RedisCacheGateway) FindCurrentWeather(ctx context.Context, city string) (*entity.WeatherSnapshot, error) {
	var snapshot entity.WeatherSnapshot
	found, err := gateway.current.Get(ctx, city, &snapshot)
	if err != nil || !found {
		return nil, err
	}
	return &snapshot, nil
}

func (gateway *RedisCacheGateway) UpsertCurrentWeather(ctx context.Context, snapshot entity.WeatherSnapshot) error {
	return gateway.current.Set(ctx, snapshot.CityName, snapshot)
}

func (gateway *RedisCacheGateway) FindForecast(ctx context.Context, city string) ([]entity.ForecastEntry, error) {
	entries := make([]entity.ForecastEntry, 0)
	if _, err := gateway.forecast.Get(ctx, city, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceForecast writes the whole list as a single value, so the replacement is atomic.
// An empty list removes the key.
func (gateway *RedisCacheGateway) ReplaceForecast(ctx context.Context, city string, entries []entity.ForecastEntry) error {
	rows := forecastRows(city, entries)
	if len(rows) == 0 {
		return gateway.forecast.Delete(ctx, city)
	}
	return gateway.forecast.Set(ctx, city, rows)
}

// DeleteForecastsBefore filters every forecast list under WATCH. A list replaced concurrently is skipped.
func (gateway *RedisCacheGateway) DeleteForecastsBefore(ctx context.Context, before int64) (int64, error) {
	cities, err := gateway.forecast.Keys(ctx)
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, city := range cities {
		key := gateway.forecast.Key(city)
		err := gateway.client.Watch(ctx, func(tx *goredis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, goredis.Nil) {
				return nil
			}
			if err != nil {
				return err
			}

			var entries []entity.ForecastEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}

			kept := entries[:0]
			for _, entry := range entries {
				if entry.Timestamp >= before {
					kept = append(kept, entry)
				}
			}
			dropped := int64(len(entries) - len(kept))
			if dropped == 0 {
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
				if len(kept) == 0 {
					pipe.Del(ctx, key)
					return nil
				}
				return gateway.forecast.SetTx(ctx, pipe, city, kept)
			})
			if err == nil {
				removed += dropped
			}
			return err
		}, key)

		if errors.Is(err, goredis.TxFailedErr) {
			log.Debugw("forecast replaced while pruning, skipped", "city", city)
			continue
		}
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}
