package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDIsAssigned(t *testing.T) {
	e := echo.New()
	SetupRequestLogger(e)
	e.GET("/weather/state", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/weather/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID))
	assert.NoError(t, err)
}

func TestSkipQuietPaths(t *testing.T) {
	e := echo.New()
	paths := map[string]bool{
		"/go-weather/health":               true,
		"/go-weather/swagger/index.html":   true,
		"/go-weather/weather/state/stream": true,
		"/go-weather/weather/state":        false,
		"/go-weather/weather/search":       false,
	}

	for path, skipped := range paths {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		assert.Equal(t, skipped, skipQuietPaths(c), path)
	}
}
