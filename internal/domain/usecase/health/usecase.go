package health

import "go-weather/internal/domain/model"

type UseCase interface {
	CheckHealth() model.HealthResponse
}
