package model

type SearchWeatherDTO struct {
	City string `json:"city" validate:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
