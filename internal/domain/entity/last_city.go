package entity

type LastCity struct {
	CityName string `json:"cityName"`
}
