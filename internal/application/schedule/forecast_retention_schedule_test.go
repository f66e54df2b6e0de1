package schedule

import (
	"context"
	"errors"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pruneRecorder struct {
	cutoffs []time.Time
	err     error
}

func (p *pruneRecorder) FetchCurrentWeather(context.Context, string) (*model.Fetched[entity.WeatherSnapshot], error) {
	return nil, errors.New("not used")
}

func (p *pruneRecorder) FetchForecast(context.Context, string) (*model.Fetched[[]entity.ForecastEntry], error) {
	return nil, errors.New("not used")
}

func (p *pruneRecorder) GetLastCity(context.Context) (*entity.LastCity, error) {
	return nil, nil
}

func (p *pruneRecorder) PruneForecasts(_ context.Context, before time.Time) (int64, error) {
	p.cutoffs = append(p.cutoffs, before)
	return 3, p.err
}

func TestPruneForecastsUsesMaxAge(t *testing.T) {
	recorder := &pruneRecorder{}
	scheduler := NewForecastRetentionScheduler(recorder, "@hourly", 6*time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	scheduler.now = func() time.Time { return now }

	scheduler.PruneForecasts()

	require.Len(t, recorder.cutoffs, 1)
	assert.Equal(t, now.Add(-6*time.Hour), recorder.cutoffs[0])
}

func TestPruneFailureIsLogged(t *testing.T) {
	recorder := &pruneRecorder{err: errors.New("database is locked")}
	scheduler := NewForecastRetentionScheduler(recorder, "@hourly", 0)

	assert.NotPanics(t, scheduler.PruneForecasts)
	assert.Equal(t, defaultMaxAge, scheduler.maxAge)
}

func TestInitRejectsInvalidCron(t *testing.T) {
	scheduler := NewForecastRetentionScheduler(&pruneRecorder{}, "not a cron", time.Hour)

	assert.Error(t, scheduler.InitRetentionScheduleTasks())
}

func TestInitStartsAndStops(t *testing.T) {
	scheduler := NewForecastRetentionScheduler(&pruneRecorder{}, "@every 1h", time.Hour)

	require.NoError(t, scheduler.InitRetentionScheduleTasks())
	assert.Len(t, scheduler.cron.Entries(), 1)
	scheduler.Stop()
}
