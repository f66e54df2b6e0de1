package main

import (
	"database/sql"
	"fmt"
	"go-weather/internal/domain/gateway/api"
	"go-weather/internal/domain/gateway/db"
	"go-weather/internal/domain/usecase/health"
	"go-weather/internal/domain/usecase/weather"
	gormdb "go-weather/internal/infra/database/gorm"
	"go-weather/internal/infra/database/migration"
	"go-weather/internal/infra/database/sqlc"
	httpclient "go-weather/pkg/http"
	"go-weather/pkg/log"
	"go-weather/pkg/redis"
	"go-weather/pkg/resource"
	"time"
)

// cacheStore is an opened cache backend. sqlDB is nil for redis, which has no schema.
type cacheStore struct {
	backend string
	gateway db.CacheGateway
	health  db.HealthDBGateway
	sqlDB   *sql.DB
	dialect string
	close   func() error
}

// openCacheStore connects the backend named by app.cache.backend
func openCacheStore(backend string) (*cacheStore, error) {
	switch backend {
	case "sqlite":
		conn, err := sqlc.OpenSQLite(resource.GetString("app.cache.sqlite.path"))
		if err != nil {
			return nil, err
		}
		return &cacheStore{
			backend: backend,
			gateway: db.NewSQLCCacheGateway(conn, db.DialectSQLite),
			health:  db.NewSQLCHealthDBGateway(conn, db.DialectSQLite),
			sqlDB:   conn,
			dialect: "sqlite",
			close:   conn.Close,
		}, nil

	case "postgres":
		conn, err := sqlc.OpenPostgres(sqlc.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return &cacheStore{
			backend: backend,
			gateway: db.NewSQLCCacheGateway(conn, db.DialectPostgres),
			health:  db.NewSQLCHealthDBGateway(conn, db.DialectPostgres),
			sqlDB:   conn,
			dialect: "postgres",
			close:   conn.Close,
		}, nil

	case "gorm":
		gdb, err := gormdb.Open(sqlc.PostgresDSN())
		if err != nil {
			return nil, err
		}
		conn, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		return &cacheStore{
			backend: backend,
			gateway: db.NewGormCacheGateway(gdb),
			health:  db.NewGormHealthDBGateway(gdb),
			sqlDB:   conn,
			dialect: "postgres",
			close:   conn.Close,
		}, nil

	case "redis":
		ttls := resource.GetStringMapDuration("app.redis.ttl")
		config := redis.NewRedisConfig().
			WithHost(resource.GetString("app.redis.host")).
			WithPort(resource.GetInt("app.redis.port")).
			WithPassword(resource.GetString("app.redis.password")).
			WithDatabase(resource.GetInt("app.redis.database")).
			WithCacheTTL(db.CacheNameCurrent, ttls["current"]).
			WithCacheTTL(db.CacheNameForecast, ttls["forecast"])
		client, err := redis.NewClient(config)
		if err != nil {
			return nil, err
		}
		return &cacheStore{
			backend: backend,
			gateway: db.NewRedisCacheGateway(client),
			health:  db.NewRedisHealthDBGateway(client),
			close:   client.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q, expected sqlite, postgres, gorm or redis", backend)
}

func (store *cacheStore) migrate() error {
	if store.sqlDB == nil {
		log.Infow("cache backend has no schema to migrate", "backend", store.backend)
		return nil
	}
	return migration.Up(store.sqlDB, store.dialect)
}

// application holds the wired use cases of one process
type application struct {
	store   *cacheStore
	weather weather.UseCase
	health  health.UseCase
}

func newApplication() (*application, error) {
	store, err := openCacheStore(resource.GetString("app.cache.backend"))
	if err != nil {
		return nil, err
	}
	if err := store.migrate(); err != nil {
		_ = store.close()
		return nil, err
	}

	apiKey := resource.GetString("app.weather.api-key")
	if apiKey == "" {
		log.Warn("app.weather.api-key is empty, every live fetch will fail and only cached data is served")
	}

	timeout := resource.GetDuration("app.weather.timeout")
	gateway := api.NewWeatherGateway(
		resource.GetString("app.weather.base-url"),
		apiKey,
		resource.GetString("app.weather.units"),
		api.BreakerSettings{
			ConsecutiveFailures: uint32(resource.GetInt("app.weather.breaker.consecutive-failures")),
			OpenTimeout:         resource.GetDuration("app.weather.breaker.open-timeout"),
			HalfOpenRequests:    uint32(resource.GetInt("app.weather.breaker.half-open-requests")),
		},
		httpclient.ClientOptions{
			ConnectionTimeout: timeout,
			ReadTimeout:       timeout,
			DefaultHeaders:    map[string]string{"User-Agent": resource.GetString("app.name")},
			Backoff:           httpclient.NewBackoffConfig(resource.GetInt("app.weather.retries"), 500*time.Millisecond, 4*time.Second),
			Logger:            httpclient.NewZapHTTPLogger(log.L()),
		},
	)

	log.Infow("cache backend ready", "backend", store.backend)
	return &application{
		store:   store,
		weather: weather.NewWeatherUseCase(gateway, store.gateway),
		health:  health.NewHealthUseCase(store.health, gateway),
	}, nil
}

func (app *application) Close() error {
	return app.store.close()
}
