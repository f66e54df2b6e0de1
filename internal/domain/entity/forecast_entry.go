package entity

// ForecastEntry is one 3-hour slot of a city forecast, identified by (CityName, Timestamp).
type ForecastEntry struct {
	CityName     string  `json:"cityName"`
	Timestamp    int64   `json:"timestamp"`
	TemperatureC float64 `json:"temperature"`
	Description  string  `json:"description"`
	IconCode     string  `json:"icon"`
	WindSpeedMps float64 `json:"windSpeed"`
}
