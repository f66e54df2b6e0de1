package controller

import (
	"context"
	"encoding/json"
	"errors"
	"go-weather/internal/application/session"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	current  map[string]*model.Fetched[entity.WeatherSnapshot]
	forecast map[string]*model.Fetched[[]entity.ForecastEntry]
	lastCity *entity.LastCity
	err      error
}

func (s *stubRepository) FetchCurrentWeather(_ context.Context, city string) (*model.Fetched[entity.WeatherSnapshot], error) {
	if strings.TrimSpace(city) == "" {
		return nil, model.ErrInvalidCity
	}
	if result, ok := s.current[city]; ok {
		return result, nil
	}
	return nil, &model.DataUnavailableError{City: city, Operation: model.OperationCurrentWeather, Err: errors.New("offline")}
}

func (s *stubRepository) FetchForecast(_ context.Context, city string) (*model.Fetched[[]entity.ForecastEntry], error) {
	if result, ok := s.forecast[city]; ok {
		return result, nil
	}
	return nil, &model.DataUnavailableError{City: city, Operation: model.OperationForecast, Err: errors.New("offline")}
}

func (s *stubRepository) GetLastCity(context.Context) (*entity.LastCity, error) {
	return s.lastCity, s.err
}

func (s *stubRepository) PruneForecasts(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func newWeatherServer(t *testing.T, repository *stubRepository) *echo.Echo {
	t.Helper()
	e := echo.New()
	s := session.New(repository)
	t.Cleanup(s.Close)
	NewWeatherController(e.Group("/go-weather"), s, repository).InitWeatherRoutes()
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSearchReturnsSessionState(t *testing.T) {
	london := entity.WeatherSnapshot{CityName: "London", TemperatureC: 15, HumidityPercent: 70, Description: "light rain", IconCode: "10d", WindSpeedMps: 4}
	e := newWeatherServer(t, &stubRepository{
		current: map[string]*model.Fetched[entity.WeatherSnapshot]{"London": model.Cached(london)},
	})

	rec := serve(e, http.MethodPost, "/go-weather/weather/search", `{"city":"London"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var state session.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, session.StatusSuccess, state.Status)
	assert.True(t, state.IsOffline)
	assert.Equal(t, &london, state.Weather)

	rec = serve(e, http.MethodGet, "/go-weather/weather/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"SUCCESS"`)
}

func TestSearchFailureIsAState(t *testing.T) {
	e := newWeatherServer(t, &stubRepository{})

	rec := serve(e, http.MethodPost, "/go-weather/weather/search", `{"city":"Paris"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ERROR","isOffline":false,"message":"Failed to fetch data for Paris"}`, rec.Body.String())
}

func TestSearchRejectsMalformedBody(t *testing.T) {
	e := newWeatherServer(t, &stubRepository{})

	rec := serve(e, http.MethodPost, "/go-weather/weather/search", `{"city":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindCurrentWeather(t *testing.T) {
	tokyo := entity.WeatherSnapshot{CityName: "Tokyo", TemperatureC: 22}
	e := newWeatherServer(t, &stubRepository{
		current: map[string]*model.Fetched[entity.WeatherSnapshot]{"Tokyo": model.Live(tokyo)},
	})

	rec := serve(e, http.MethodGet, "/go-weather/weather/current/Tokyo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"LIVE"`)
	assert.Contains(t, rec.Body.String(), `"temperature":22`)

	rec = serve(e, http.MethodGet, "/go-weather/weather/current/Paris", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No weather data available for Paris")

	rec = serve(e, http.MethodGet, "/go-weather/weather/current/%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindForecast(t *testing.T) {
	entries := []entity.ForecastEntry{{CityName: "Rome", Timestamp: 1700000000, TemperatureC: 18}}
	e := newWeatherServer(t, &stubRepository{
		forecast: map[string]*model.Fetched[[]entity.ForecastEntry]{"Rome": model.Cached(entries)},
	})

	rec := serve(e, http.MethodGet, "/go-weather/weather/forecast/Rome", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.Fetched[[]entity.ForecastEntry]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, model.SourceCache, result.Source)
	assert.Equal(t, entries, result.Data)
}

func TestFindLastCity(t *testing.T) {
	e := newWeatherServer(t, &stubRepository{})
	rec := serve(e, http.MethodGet, "/go-weather/weather/last-city", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	e = newWeatherServer(t, &stubRepository{lastCity: &entity.LastCity{CityName: "Oslo"}})
	rec = serve(e, http.MethodGet, "/go-weather/weather/last-city", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cityName":"Oslo"}`, rec.Body.String())

	e = newWeatherServer(t, &stubRepository{err: errors.New("database is locked")})
	rec = serve(e, http.MethodGet, "/go-weather/weather/last-city", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStreamStateSendsCurrentState(t *testing.T) {
	e := newWeatherServer(t, &stubRepository{})
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/go-weather/weather/state/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.ServeHTTP(rec, req)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "event: state\ndata: {\"status\":\"LOADING\"")
}
