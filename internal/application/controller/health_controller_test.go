package controller

import (
	"go-weather/internal/domain/model"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubHealth struct {
	response model.HealthResponse
}

func (s stubHealth) CheckHealth() model.HealthResponse {
	return s.response
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name     string
		status   model.HealthStatus
		remote   model.HealthStatus
		expected int
	}{
		{"up", model.StatusUp, model.StatusUp, http.StatusOK},
		{"remote circuit open is still up", model.StatusUp, model.StatusDown, http.StatusOK},
		{"cache down", model.StatusDown, model.StatusUp, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			NewHealthController(e.Group(""), stubHealth{response: model.HealthResponse{
				Status: tt.status,
				Remote: model.ComponentHealthStatus{Status: tt.remote},
			}}).InitHealthRoutes()

			rec := serve(e, http.MethodGet, "/health", "")

			assert.Equal(t, tt.expected, rec.Code)
			assert.Contains(t, rec.Body.String(), string(tt.status))
		})
	}
}
