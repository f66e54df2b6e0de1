package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"go-weather/internal/application/session"
	"go-weather/internal/domain/model"
	"go-weather/internal/domain/usecase/weather"
	"go-weather/pkg/log"
	"go-weather/pkg/msg"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type WeatherController struct {
	api     *echo.Group
	session *session.Session
	useCase weather.UseCase
}

func NewWeatherController(api *echo.Group, session *session.Session, useCase weather.UseCase) *WeatherController {
	return &WeatherController{api: api, session: session, useCase: useCase}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes() {
	controller.api.POST("/weather/search", controller.Search)
	controller.api.GET("/weather/state", controller.GetState)
	controller.api.GET("/weather/state/stream", controller.StreamState)
	controller.api.GET("/weather/current/:city", controller.FindCurrentWeather)
	controller.api.GET("/weather/forecast/:city", controller.FindForecast)
	controller.api.GET("/weather/last-city", controller.FindLastCity)
}

// Search godoc
// @Summary Search the weather of a city
// @Description Runs a session search. A search started while another is running supersedes it.
// @Description Remote failures fall back to the cache and are reported through the returned state.
// @Tags weather
// @Accept json
// @Produce json
// @Param search body model.SearchWeatherDTO true "City to search"
// @Success 200 {object} session.State "State produced by the search"
// @Failure 400 {object} model.ErrorResponse "Invalid request body"
// @Router /weather/search [post]
func (controller *WeatherController) Search(c echo.Context) error {
	var dto model.SearchWeatherDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("weather.error.invalid-body")})
	}

	state := controller.session.FetchWeather(c.Request().Context(), dto.City)
	return c.JSON(http.StatusOK, state)
}

// GetState godoc
// @Summary Current session state
// @Tags weather
// @Produce json
// @Success 200 {object} session.State
// @Router /weather/state [get]
func (controller *WeatherController) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, controller.session.State())
}

// StreamState godoc
// @Summary Stream session states
// @Description Server-sent events, one per state change, starting with the current state.
// @Tags weather
// @Produce text/event-stream
// @Success 200 {object} session.State
// @Router /weather/state/stream [get]
func (controller *WeatherController) StreamState(c echo.Context) error {
	updates, cancel := controller.session.Subscribe(8)
	defer cancel()

	response := c.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case state, ok := <-updates:
			if !ok {
				return nil
			}
			data, err := json.Marshal(state)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(response, "event: state\ndata: %s\n\n", data); err != nil {
				log.Debugw("state stream closed", "error", err)
				return nil
			}
			response.Flush()
		}
	}
}

// FindCurrentWeather godoc
// @Summary Current weather of a city
// @Description Live conditions, or the cached snapshot when the weather API cannot be reached.
// @Tags weather
// @Produce json
// @Param city path string true "City name"
// @Success 200 {object} model.Fetched[entity.WeatherSnapshot] "Snapshot with its source"
// @Failure 400 {object} model.ErrorResponse "Blank city"
// @Failure 404 {object} model.ErrorResponse "Not available live nor cached"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /weather/current/{city} [get]
func (controller *WeatherController) FindCurrentWeather(c echo.Context) error {
	city := c.Param("city")
	result, err := controller.useCase.FetchCurrentWeather(c.Request().Context(), city)
	if err != nil {
		return repositoryError(c, city, err)
	}
	return c.JSON(http.StatusOK, result)
}

// FindForecast godoc
// @Summary Forecast of a city
// @Description Live 5 day / 3 hour forecast, or the cached entries when the weather API cannot be reached.
// @Tags weather
// @Produce json
// @Param city path string true "City name"
// @Success 200 {object} model.Fetched[[]entity.ForecastEntry] "Entries ordered by timestamp with their source"
// @Failure 400 {object} model.ErrorResponse "Blank city"
// @Failure 404 {object} model.ErrorResponse "Not available live nor cached"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /weather/forecast/{city} [get]
func (controller *WeatherController) FindForecast(c echo.Context) error {
	city := c.Param("city")
	result, err := controller.useCase.FetchForecast(c.Request().Context(), city)
	if err != nil {
		return repositoryError(c, city, err)
	}
	return c.JSON(http.StatusOK, result)
}

// FindLastCity godoc
// @Summary Last searched city
// @Tags weather
// @Produce json
// @Success 200 {object} entity.LastCity
// @Failure 404 {object} model.ErrorResponse "No city searched yet"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /weather/last-city [get]
func (controller *WeatherController) FindLastCity(c echo.Context) error {
	lastCity, err := controller.useCase.GetLastCity(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
	}
	if lastCity == nil {
		return c.JSON(http.StatusNotFound, model.ErrorResponse{Error: msg.GetMessage("weather.error.no-last-city")})
	}
	return c.JSON(http.StatusOK, lastCity)
}

func repositoryError(c echo.Context, city string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidCity):
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("session.error.invalid-city")})
	case errors.Is(err, model.ErrDataUnavailable):
		return c.JSON(http.StatusNotFound, model.ErrorResponse{Error: msg.GetMessage("weather.error.not-available", strings.TrimSpace(city))})
	default:
		return c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
	}
}
