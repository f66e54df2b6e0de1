package session

import "go-weather/internal/domain/entity"

type Status string

const (
	StatusLoading Status = "LOADING"
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// State is what a client renders. Weather, Forecast and IsOffline are set only on SUCCESS,
// Message only on ERROR. A nil Forecast means no forecast could be obtained.
type State struct {
	Status    Status                  `json:"status"`
	Weather   *entity.WeatherSnapshot `json:"weather,omitempty"`
	Forecast  []entity.ForecastEntry  `json:"forecast,omitempty"`
	IsOffline bool                    `json:"isOffline"`
	Message   string                  `json:"message,omitempty"`
}

func Loading() State {
	return State{Status: StatusLoading}
}

func Success(weather entity.WeatherSnapshot, forecast []entity.ForecastEntry, isOffline bool) State {
	return State{Status: StatusSuccess, Weather: &weather, Forecast: forecast, IsOffline: isOffline}
}

func Failure(message string) State {
	return State{Status: StatusError, Message: message}
}

// canTransition reports whether next may follow current. LOADING is only left for a result.
func canTransition(current, next Status) bool {
	if current == StatusLoading {
		return next != StatusLoading
	}
	return next == StatusLoading
}
