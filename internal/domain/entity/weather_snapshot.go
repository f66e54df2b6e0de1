package entity

// WeatherSnapshot is the current conditions of a city. One snapshot is cached per city name.
type WeatherSnapshot struct {
	CityName        string  `json:"cityName"`
	TemperatureC    float64 `json:"temperature"`
	HumidityPercent int     `json:"humidity"`
	Description     string  `json:"description"`
	IconCode        string  `json:"icon"`
	WindSpeedMps    float64 `json:"windSpeed"`
}
