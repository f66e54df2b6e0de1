package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-weather/internal/domain/entity"
	"strconv"
	"strings"
	"time"
)

// Dialect selects the SQL flavour of a database/sql connection
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const lastCityID = 1

type SQLCCacheGateway struct {
	DB      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var _ CacheGateway = (*SQLCCacheGateway)(nil)

func NewSQLCCacheGateway(db *sql.DB, dialect Dialect) *SQLCCacheGateway {
	return &SQLCCacheGateway{DB: db, dialect: dialect, now: time.Now}
}

// FindLastCity returns the singleton last city row
func (gateway *SQLCCacheGateway) FindLastCity(ctx context.Context) (*entity.LastCity, error) {
	var lastCity entity.LastCity
	err := gateway.DB.QueryRowContext(ctx,
		gateway.rebind(`SELECT city_name FROM last_city WHERE id = ?`), lastCityID).
		Scan(&lastCity.CityName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lastCity, nil
}

// ReplaceLastCity overwrites the singleton last city row
func (gateway *SQLCCacheGateway) ReplaceLastCity(ctx context.Context, city string) error {
	_, err := gateway.DB.ExecContext(ctx, gateway.rebind(`
		INSERT INTO last_city (id, city_name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET city_name = excluded.city_name`),
		lastCityID, city)
	return err
}

// FindCurrentWeather returns the snapshot cached for the city
func (gateway *SQLCCacheGateway) FindCurrentWeather(ctx context.Context, city string) (*entity.WeatherSnapshot, error) {
	var snapshot entity.WeatherSnapshot
	err := gateway.DB.QueryRowContext(ctx, gateway.rebind(`
		SELECT city_name, temp, humidity, description, icon, wind_speed
		FROM current_weather
		WHERE city_name = ?`), city).
		Scan(&snapshot.CityName, &snapshot.TemperatureC, &snapshot.HumidityPercent,
			&snapshot.Description, &snapshot.IconCode, &snapshot.WindSpeedMps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// UpsertCurrentWeather inserts the snapshot or replaces the one cached for the same city
func (gateway *SQLCCacheGateway) UpsertCurrentWeather(ctx context.Context, snapshot entity.WeatherSnapshot) error {
	_, err := gateway.DB.ExecContext(ctx, gateway.rebind(`
		INSERT INTO current_weather (city_name, temp, humidity, description, icon, wind_speed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (city_name) DO UPDATE SET
			temp = excluded.temp,
			humidity = excluded.humidity,
			description = excluded.description,
			icon = excluded.icon,
			wind_speed = excluded.wind_speed,
			updated_at = excluded.updated_at`),
		snapshot.CityName, snapshot.TemperatureC, snapshot.HumidityPercent,
		snapshot.Description, snapshot.IconCode, snapshot.WindSpeedMps, gateway.now().Unix())
	return err
}

// FindForecast returns the entries cached for the city ordered by timestamp
func (gateway *SQLCCacheGateway) FindForecast(ctx context.Context, city string) ([]entity.ForecastEntry, error) {
	rows, err := gateway.DB.QueryContext(ctx, gateway.rebind(`
		SELECT city_name, dt, temp, description, icon, wind_speed
		FROM forecast
		WHERE city_name = ?
		ORDER BY dt ASC`), city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]entity.ForecastEntry, 0)
	for rows.Next() {
		var entry entity.ForecastEntry
		if err := rows.Scan(&entry.CityName, &entry.Timestamp, &entry.TemperatureC,
			&entry.Description, &entry.IconCode, &entry.WindSpeedMps); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ReplaceForecast deletes the city entries and inserts the new ones in a single transaction
func (gateway *SQLCCacheGateway) ReplaceForecast(ctx context.Context, city string, entries []entity.ForecastEntry) error {
	tx, err := gateway.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, gateway.rebind(`DELETE FROM forecast WHERE city_name = ?`), city); err != nil {
		return fmt.Errorf("delete forecast: %w", err)
	}

	if rows := forecastRows(city, entries); len(rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, gateway.rebind(`
			INSERT INTO forecast (city_name, dt, temp, description, icon, wind_speed)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (city_name, dt) DO UPDATE SET
				temp = excluded.temp,
				description = excluded.description,
				icon = excluded.icon,
				wind_speed = excluded.wind_speed`))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, entry := range rows {
			if _, err := stmt.ExecContext(ctx, city, entry.Timestamp, entry.TemperatureC,
				entry.Description, entry.IconCode, entry.WindSpeedMps); err != nil {
				return fmt.Errorf("insert forecast dt=%d: %w", entry.Timestamp, err)
			}
		}
	}

	return tx.Commit()
}

// DeleteForecastsBefore removes entries older than the epoch second, across cities
func (gateway *SQLCCacheGateway) DeleteForecastsBefore(ctx context.Context, before int64) (int64, error) {
	result, err := gateway.DB.ExecContext(ctx, gateway.rebind(`DELETE FROM forecast WHERE dt < ?`), before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// rebind turns ? placeholders into $n for postgres
func (gateway *SQLCCacheGateway) rebind(query string) string {
	if gateway.dialect != DialectPostgres {
		return query
	}

	var builder strings.Builder
	builder.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(n))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
