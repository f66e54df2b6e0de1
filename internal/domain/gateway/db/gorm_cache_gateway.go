package db

import (
	"context"
	"go-weather/internal/domain/entity"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type lastCityRecord struct {
	ID       int    `gorm:"column:id;primaryKey"`
	CityName string `gorm:"column:city_name"`
}

func (lastCityRecord) TableName() string { return "last_city" }

type currentWeatherRecord struct {
	CityName    string  `gorm:"column:city_name;primaryKey"`
	Temp        float64 `gorm:"column:temp"`
	Humidity    int     `gorm:"column:humidity"`
	Description string  `gorm:"column:description"`
	Icon        string  `gorm:"column:icon"`
	WindSpeed   float64 `gorm:"column:wind_speed"`
	UpdatedAt   int64   `gorm:"column:updated_at"`
}

func (currentWeatherRecord) TableName() string { return "current_weather" }

type forecastRecord struct {
	CityName    string  `gorm:"column:city_name;primaryKey"`
	Dt          int64   `gorm:"column:dt;primaryKey;autoIncrement:false"`
	Temp        float64 `gorm:"column:temp"`
	Description string  `gorm:"column:description"`
	Icon        string  `gorm:"column:icon"`
	WindSpeed   float64 `gorm:"column:wind_speed"`
}

func (forecastRecord) TableName() string { return "forecast" }

// GormCacheGateway is the CacheGateway over gorm. The schema comes from the shared migrations, not AutoMigrate.
type GormCacheGateway struct {
	DB  *gorm.DB
	now func() time.Time
}

var _ CacheGateway = (*GormCacheGateway)(nil)

func NewGormCacheGateway(db *gorm.DB) *GormCacheGateway {
	return &GormCacheGateway{DB: db, now: time.Now}
}

func (gateway *GormCacheGateway) FindLastCity(ctx context.Context) (*entity.LastCity, error) {
	var records []lastCityRecord
	if err := gateway.DB.WithContext(ctx).Where("id = ?", lastCityID).Limit(1).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &entity.LastCity{CityName: records[0].CityName}, nil
}

func (gateway *GormCacheGateway) ReplaceLastCity(ctx context.Context, city string) error {
	return gateway.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&lastCityRecord{ID: lastCityID, CityName: city}).Error
}

func (gateway *GormCacheGateway) FindCurrentWeather(ctx context.Context, city string) (*entity.WeatherSnapshot, error) {
	var records []currentWeatherRecord
	if err := gateway.DB.WithContext(ctx).Where("city_name = ?", city).Limit(1).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	record := records[0]
	return &entity.WeatherSnapshot{
		CityName:        record.CityName,
		TemperatureC:    record.Temp,
		HumidityPercent: record.Humidity,
		Description:     record.Description,
		IconCode:        record.Icon,
		WindSpeedMps:    record.WindSpeed,
	}, nil
}

func (gateway *GormCacheGateway) UpsertCurrentWeather(ctx context.Context, snapshot entity.WeatherSnapshot) error {
	record := currentWeatherRecord{
		CityName:    snapshot.CityName,
		Temp:        snapshot.TemperatureC,
		Humidity:    snapshot.HumidityPercent,
		Description: snapshot.Description,
		Icon:        snapshot.IconCode,
		WindSpeed:   snapshot.WindSpeedMps,
		UpdatedAt:   gateway.now().Unix(),
	}
	return gateway.DB.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
}

func (gateway *GormCacheGateway) FindForecast(ctx context.Context, city string) ([]entity.ForecastEntry, error) {
	var records []forecastRecord
	if err := gateway.DB.WithContext(ctx).Where("city_name = ?", city).Order("dt ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	entries := make([]entity.ForecastEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, entity.ForecastEntry{
			CityName:     record.CityName,
			Timestamp:    record.Dt,
			TemperatureC: record.Temp,
			Description:  record.Description,
			IconCode:     record.Icon,
			WindSpeedMps: record.WindSpeed,
		})
	}
	return entries, nil
}

func (gateway *GormCacheGateway) ReplaceForecast(ctx context.Context, city string, entries []entity.ForecastEntry) error {
	return gateway.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("city_name = ?", city).Delete(&forecastRecord{}).Error; err != nil {
			return err
		}
		rows := forecastRows(city, entries)
		if len(rows) == 0 {
			return nil
		}

		records := make([]forecastRecord, 0, len(rows))
		for _, entry := range rows {
			records = append(records, forecastRecord{
				CityName:    city,
				Dt:          entry.Timestamp,
				Temp:        entry.TemperatureC,
				Description: entry.Description,
				Icon:        entry.IconCode,
				WindSpeed:   entry.WindSpeedMps,
			})
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&records).Error
	})
}

func (gateway *GormCacheGateway) DeleteForecastsBefore(ctx context.Context, before int64) (int64, error) {
	result := gateway.DB.WithContext(ctx).Where("dt < ?", before).Delete(&forecastRecord{})
	return result.RowsAffected, result.Error
}
