package health

import (
	"go-weather/internal/domain/gateway/api"
	"go-weather/internal/domain/gateway/db"
	"go-weather/internal/domain/model"
)

type healthUseCase struct {
	dbGateway  db.HealthDBGateway
	apiGateway api.WeatherGateway
}

func NewHealthUseCase(dbGateway db.HealthDBGateway, apiGateway api.WeatherGateway) UseCase {
	return &healthUseCase{
		dbGateway:  dbGateway,
		apiGateway: apiGateway,
	}
}

// CheckHealth is DOWN only when the cache is. An open circuit to the remote is reported
// in the remote component while searches keep being served from cache.
func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	cacheHealth := useCase.dbGateway.Health()
	remoteHealth := useCase.apiGateway.Health()

	overallStatus := model.StatusUp
	if cacheHealth.Status != model.StatusUp {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status: overallStatus,
		Cache:  cacheHealth,
		Remote: remoteHealth,
	}
}
