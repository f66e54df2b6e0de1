package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value string `json:"value"`
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{
		Backoff: NewBackoffConfig(3, time.Millisecond, 5*time.Millisecond),
	})

	resp, _, status, err := client.Request().WithPath("/thing").WithSuccessResp(&payload{}).Execute()

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", resp.(*payload).Value)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"value":"missing"}`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{
		Backoff: NewBackoffConfig(3, time.Millisecond, time.Millisecond),
	})

	_, errResp, status, err := client.Request().WithErrorResp(&payload{}).Execute()

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "missing", errResp.(*payload).Value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, _, _, err := NewHttpClient(server.URL, ClientOptions{}).Request().WithSuccessResp(&payload{}).Execute()

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestQueryParamsAreEscaped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "São Paulo", r.URL.Query().Get("q"))
		assert.Equal(t, "k", r.URL.Query().Get("appid"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{DefaultQueryParams: map[string]string{"appid": "k"}})

	_, _, status, err := client.Request().WithQueryParams(map[string]string{"q": "São Paulo"}).Execute()

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestDefaultHeadersAreSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{DefaultHeaders: map[string]string{"Accept": "application/json"}})

	success, _, _, err := client.Request().WithSuccessResp(&payload{}).Execute()

	require.NoError(t, err)
	assert.Equal(t, &payload{Value: "ok"}, success)
}

func TestCancelStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{
		Backoff: NewBackoffConfig(10, time.Hour, time.Hour),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, _, err := client.Request().WithContext(ctx).Execute()

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRedactQuery(t *testing.T) {
	redacted := redactQuery("https://api.example.com/weather?appid=secret&q=Paris")

	assert.NotContains(t, redacted, "secret")
	assert.Contains(t, redacted, "q=Paris")
}
