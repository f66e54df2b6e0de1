package api

import (
	"context"
	"errors"
	"fmt"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model"
	"go-weather/internal/domain/model/external"
	"go-weather/pkg/http"
	"go-weather/pkg/log"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// weatherGatewayImpl implements the WeatherGateway interface against OpenWeatherMap
type weatherGatewayImpl struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// BreakerSettings tunes the circuit breaker around the remote API.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit once reached
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before trial calls are allowed
	OpenTimeout time.Duration
	// HalfOpenRequests is how many trial calls a half-open circuit lets through.
	// One search issues two calls, so it defaults to 2.
	HalfOpenRequests uint32
}

const (
	halfOpenWait     = 25 * time.Millisecond
	halfOpenAttempts = 40
)

// NewWeatherGateway creates a new instance of WeatherGateway with HTTP client.
// apiKey and units are sent on every call, and JSON is requested.
func NewWeatherGateway(baseUrl, apiKey, units string, breaker BreakerSettings, clientOptions http.ClientOptions) WeatherGateway {
	query := map[string]string{"appid": apiKey, "units": units}
	for k, v := range clientOptions.DefaultQueryParams {
		query[k] = v
	}
	clientOptions.DefaultQueryParams = query

	headers := map[string]string{"Accept": "application/json"}
	for k, v := range clientOptions.DefaultHeaders {
		headers[k] = v
	}
	clientOptions.DefaultHeaders = headers

	if breaker.ConsecutiveFailures == 0 {
		breaker.ConsecutiveFailures = 5
	}
	if breaker.OpenTimeout == 0 {
		breaker.OpenTimeout = 30 * time.Second
	}
	if breaker.HalfOpenRequests == 0 {
		breaker.HalfOpenRequests = 2
	}

	return &weatherGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openweathermap",
			MaxRequests: breaker.HalfOpenRequests,
			Timeout:     breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breaker.ConsecutiveFailures
			},
			IsSuccessful: countsAsSuccess,
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warnw("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// FetchCurrentWeather gets the current conditions of a city
func (w *weatherGatewayImpl) FetchCurrentWeather(ctx context.Context, city string) (*entity.WeatherSnapshot, error) {
	response := &external.CurrentWeatherResponse{}
	if err := w.get(ctx, city, model.OperationCurrentWeather, "/weather", response); err != nil {
		return nil, err
	}

	if response.Main.Temp == nil || len(response.Weather) == 0 {
		return nil, &model.RemoteFetchFailedError{
			City:      city,
			Operation: model.OperationCurrentWeather,
			Kind:      model.FailureDecode,
			Err:       errors.New("payload misses main.temp or weather[0]"),
		}
	}

	return &entity.WeatherSnapshot{
		CityName:        city,
		TemperatureC:    *response.Main.Temp,
		HumidityPercent: response.Main.Humidity,
		Description:     response.Weather[0].Description,
		IconCode:        response.Weather[0].Icon,
		WindSpeedMps:    response.Wind.Speed,
	}, nil
}

// FetchForecast gets the 5 day / 3 hour forecast of a city
func (w *weatherGatewayImpl) FetchForecast(ctx context.Context, city string) ([]entity.ForecastEntry, error) {
	response := &external.ForecastResponse{}
	if err := w.get(ctx, city, model.OperationForecast, "/forecast", response); err != nil {
		return nil, err
	}

	entries := make([]entity.ForecastEntry, 0, len(response.List))
	for i, item := range response.List {
		if item.Main.Temp == nil || len(item.Weather) == 0 {
			return nil, &model.RemoteFetchFailedError{
				City:      city,
				Operation: model.OperationForecast,
				Kind:      model.FailureDecode,
				Err:       fmt.Errorf("list[%d] misses main.temp or weather[0]", i),
			}
		}
		entries = append(entries, entity.ForecastEntry{
			CityName:     city,
			Timestamp:    item.Dt,
			TemperatureC: *item.Main.Temp,
			Description:  item.Weather[0].Description,
			IconCode:     item.Weather[0].Icon,
			WindSpeedMps: item.Wind.Speed,
		})
	}
	return entries, nil
}

// Health reports the circuit breaker state
func (w *weatherGatewayImpl) Health() model.ComponentHealthStatus {
	state := w.breaker.State()
	counts := w.breaker.Counts()

	status := model.StatusUp
	switch state {
	case gobreaker.StateOpen:
		status = model.StatusDown
	case gobreaker.StateHalfOpen:
		status = model.StatusUnknown
	}

	return model.ComponentHealthStatus{
		Status: status,
		Details: map[string]string{
			"circuit":              state.String(),
			"consecutive_failures": strconv.FormatUint(uint64(counts.ConsecutiveFailures), 10),
		},
	}
}

// get runs one GET through the circuit breaker and normalizes any failure
func (w *weatherGatewayImpl) get(ctx context.Context, city, operation, path string, successResp any) error {
	var (
		status  int
		errResp any
	)

	call := func() (interface{}, error) {
		var execErr error
		_, errResp, status, execErr = w.httpClient.Request().
			WithContext(ctx).
			WithMethod(http.GET).
			WithPath(path).
			WithQueryParams(map[string]string{"q": city}).
			WithSuccessResp(successResp).
			WithErrorResp(&external.APIErrorResponse{}).
			Execute()
		return nil, execErr
	}

	_, err := w.breaker.Execute(call)
	// a half-open circuit with every trial slot taken settles once those calls return
	for attempt := 0; errors.Is(err, gobreaker.ErrTooManyRequests) && attempt < halfOpenAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return normalize(city, operation, 0, nil, ctx.Err())
		case <-time.After(halfOpenWait):
		}
		_, err = w.breaker.Execute(call)
	}
	if err == nil {
		return nil
	}

	return normalize(city, operation, status, errResp, err)
}

func normalize(city, operation string, status int, errResp any, err error) error {
	failure := &model.RemoteFetchFailedError{
		City:      city,
		Operation: operation,
		Kind:      model.FailureNetwork,
		Err:       err,
	}

	var statusErr *http.StatusError
	var decodeErr *http.DecodeError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		failure.Err = fmt.Errorf("weather API circuit open: %w", err)
	case errors.As(err, &statusErr):
		failure.Kind = model.FailureStatus
		failure.StatusCode = status
		if apiErr, ok := errResp.(*external.APIErrorResponse); ok && apiErr.Message != "" {
			failure.Err = fmt.Errorf("%s: %w", apiErr.Message, err)
		}
	case errors.As(err, &decodeErr):
		failure.Kind = model.FailureDecode
		failure.StatusCode = status
	}
	return failure
}

// countsAsSuccess treats cancellation, 4xx answers other than 429 and decode failures as breaker successes.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < 500 && statusErr.StatusCode != 429
	}
	var decodeErr *http.DecodeError
	return errors.As(err, &decodeErr)
}
