package model

import (
	"errors"
	"fmt"
)

const (
	OperationCurrentWeather = "current weather"
	OperationForecast       = "forecast"
	OperationLastCity       = "last city"
)

// FailureKind classifies a remote failure.
type FailureKind string

const (
	// FailureNetwork covers transport errors, timeouts and an open circuit breaker.
	FailureNetwork FailureKind = "NETWORK"
	// FailureStatus is a non-2xx answer from the weather API.
	FailureStatus FailureKind = "STATUS"
	// FailureDecode is a 2xx answer whose body could not be mapped.
	FailureDecode FailureKind = "DECODE"
)

var (
	ErrInvalidCity      = errors.New("city name is required")
	ErrDataUnavailable  = errors.New("data unavailable")
	ErrCacheWriteFailed = errors.New("cache write failed")
)

// RemoteFetchFailedError is the normalized failure of a weather API call.
type RemoteFetchFailedError struct {
	City       string
	Operation  string
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *RemoteFetchFailedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s for %q failed (%s %d): %v", e.Operation, e.City, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s for %q failed (%s): %v", e.Operation, e.City, e.Kind, e.Err)
}

func (e *RemoteFetchFailedError) Unwrap() error {
	return e.Err
}

// IsConnectivity reports whether the remote could not be reached at all.
func (e *RemoteFetchFailedError) IsConnectivity() bool {
	return e.Kind == FailureNetwork
}

// DataUnavailableError means the remote failed and the cache had nothing for the city.
type DataUnavailableError struct {
	City      string
	Operation string
	Err       error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s for %q unavailable and not cached: %v", e.Operation, e.City, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// CacheWriteFailedError means a live result could not be persisted.
type CacheWriteFailedError struct {
	City      string
	Operation string
	Err       error
}

func (e *CacheWriteFailedError) Error() string {
	return fmt.Sprintf("cache %s for %q: %v", e.Operation, e.City, e.Err)
}

func (e *CacheWriteFailedError) Unwrap() error {
	return e.Err
}

func (e *CacheWriteFailedError) Is(target error) bool {
	return target == ErrCacheWriteFailed
}

// IsConnectivityFailure reports whether err wraps a remote failure caused by missing connectivity.
func IsConnectivityFailure(err error) bool {
	var remote *RemoteFetchFailedError
	return errors.As(err, &remote) && remote.IsConnectivity()
}
