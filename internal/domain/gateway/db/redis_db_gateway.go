package db

import (
	"context"
	"go-weather/internal/domain/model"
	"go-weather/pkg/redis"
)

type RedisHealthDBGateway struct {
	checker *redis.HealthChecker
}

var _ HealthDBGateway = (*RedisHealthDBGateway)(nil)

func NewRedisHealthDBGateway(client *redis.Client) *RedisHealthDBGateway {
	return &RedisHealthDBGateway{checker: redis.NewHealthChecker(client)}
}

func (gateway *RedisHealthDBGateway) Health() model.ComponentHealthStatus {
	check := gateway.checker.HealthCheck(context.Background())
	details := check.Details
	details["backend"] = "redis"
	return model.ComponentHealthStatus{
		Status:  model.HealthStatus(check.Status),
		Details: details,
	}
}
