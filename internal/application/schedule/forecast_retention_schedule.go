package schedule

import (
	"context"
	"go-weather/internal/domain/usecase/weather"
	"go-weather/pkg/log"
	"go-weather/pkg/msg"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultMaxAge = 24 * time.Hour

// ForecastRetentionScheduler periodically drops cached forecast entries that are already in the past
type ForecastRetentionScheduler struct {
	cron           *cron.Cron
	useCase        weather.UseCase
	cronExpression string
	maxAge         time.Duration
	now            func() time.Time
}

func NewForecastRetentionScheduler(useCase weather.UseCase, cronExpression string, maxAge time.Duration) *ForecastRetentionScheduler {
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	return &ForecastRetentionScheduler{
		cron:           cron.New(),
		useCase:        useCase,
		cronExpression: cronExpression,
		maxAge:         maxAge,
		now:            time.Now,
	}
}

// InitRetentionScheduleTasks registers the prune job and starts the cron
func (scheduler *ForecastRetentionScheduler) InitRetentionScheduleTasks() error {
	if _, err := scheduler.cron.AddFunc(scheduler.cronExpression, scheduler.PruneForecasts); err != nil {
		return err
	}

	scheduler.cron.Start()
	log.Infof("Forecast retention scheduler started with cron expression: %s", scheduler.cronExpression)
	return nil
}

// PruneForecasts deletes entries older than maxAge
func (scheduler *ForecastRetentionScheduler) PruneForecasts() {
	requestID := uuid.NewString()
	cutoff := scheduler.now().Add(-scheduler.maxAge)

	log.Info(msg.GetMessage("retention.cron.start", cutoff.UTC().Format(time.RFC3339)), zap.String("request_id", requestID))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := scheduler.useCase.PruneForecasts(ctx, cutoff)
	if err != nil {
		log.Error(msg.GetMessage("retention.error.prune-failed", err), zap.String("request_id", requestID), zap.Error(err))
		return
	}

	log.Info(msg.GetMessage("retention.cron.end", removed), zap.String("request_id", requestID))
}

// Stop waits for a running prune to finish
func (scheduler *ForecastRetentionScheduler) Stop() {
	ctx := scheduler.cron.Stop()
	<-ctx.Done()
}
