package db

import "go-weather/internal/domain/model"

// HealthDBGateway reports the health of the configured cache backend
type HealthDBGateway interface {
	Health() model.ComponentHealthStatus
}

func downStatus(err error) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusDown,
		Details: map[string]string{
			"message": err.Error(),
		},
	}
}

func upStatus(backend string) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"message": string(model.StatusUp),
			"backend": backend,
		},
	}
}
