package external

// CurrentWeatherResponse is the payload of GET /weather
type CurrentWeatherResponse struct {
	Name    string                `json:"name"`
	Main    MainDTO               `json:"main"`
	Weather []WeatherConditionDTO `json:"weather"`
	Wind    WindDTO               `json:"wind"`
}

// ForecastResponse is the payload of GET /forecast
type ForecastResponse struct {
	List []ForecastItemDTO `json:"list"`
}

type ForecastItemDTO struct {
	Dt      int64                 `json:"dt"`
	Main    MainDTO               `json:"main"`
	Weather []WeatherConditionDTO `json:"weather"`
	Wind    WindDTO               `json:"wind"`
}

type MainDTO struct {
	Temp     *float64 `json:"temp"`
	Humidity int      `json:"humidity"`
}

type WeatherConditionDTO struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type WindDTO struct {
	Speed float64 `json:"speed"`
}

// APIErrorResponse represents error responses from OpenWeatherMap. cod is a number or a string depending on the endpoint.
type APIErrorResponse struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}
