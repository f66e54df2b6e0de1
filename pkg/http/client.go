package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// DecodeError is returned when a 2xx body cannot be unmarshalled into the success type.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Client represents an HTTP client with configuration options.
type Client struct {
	baseURL            string
	client             *http.Client
	defaultHeaders     map[string]string
	defaultQueryParams map[string]string
	backoff            *BackoffConfig
	logger             HTTPLogger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	DefaultHeaders      map[string]string
	DefaultQueryParams  map[string]string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	Backoff             *BackoffConfig
	Logger              HTTPLogger
	Transport           http.RoundTripper
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 200
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 20
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        opts.MaxIdleConns,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			IdleConnTimeout:     opts.IdleConnTimeout,
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.ReadTimeout,
		},
		defaultHeaders:     opts.DefaultHeaders,
		defaultQueryParams: opts.DefaultQueryParams,
		backoff:            opts.Backoff,
		logger:             opts.Logger,
	}
}

// Request creates a new Request object for the client.
func (hc *Client) Request() *Request {
	return NewHttpClientRequest(hc)
}

// doRequestWithBackoff runs doRequest and retries transport errors and retryable statuses.
// A request-level backoff overrides the client default.
func (hc *Client) doRequestWithBackoff(ctx context.Context, method, path string, queryParams map[string]string, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	if backoff == nil {
		backoff = hc.backoff
	}
	if backoff == nil {
		backoff = NoBackoff
	}

	fullURL := hc.buildURL(path, queryParams)
	headers := hc.defaultHeaders

	for attempt := 0; ; attempt++ {
		hc.logger.LogRequest(method, fullURL, headers, "")
		start := time.Now()

		success, errResp, status, respBody, err := hc.doRequest(ctx, method, fullURL, successResp, errorResp)
		latency := time.Since(start).Milliseconds()

		if err == nil {
			hc.logger.LogResponseSuccess(method, fullURL, headers, "", status, respBody, latency)
			return success, errResp, status, nil
		}

		if attempt >= backoff.MaxRetries || !backoff.retryable(status, err) {
			hc.logger.LogResponseError(method, fullURL, headers, "", status, respBody, latency, err)
			return success, errResp, status, err
		}

		hc.logger.LogRequestRetry(method, fullURL, headers, "", status, respBody, latency, err, attempt+1, backoff.MaxRetries)
		if waitErr := wait(ctx, backoff.delay(attempt)); waitErr != nil {
			return nil, nil, 0, waitErr
		}
	}
}

// doRequest sends one HTTP request and handles the response.
// It returns the success response, error response, status code, raw body and error if any.
func (hc *Client) doRequest(ctx context.Context, method, fullURL string, successResp any, errorResp any) (any, any, int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, nil, 0, "", err
	}

	for k, v := range hc.defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, nil, 0, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, resp.StatusCode, "", err
	}

	respContentType := resp.Header.Get("Content-Type")
	if respContentType == "" {
		respContentType = "application/json"
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if successResp != nil {
			if err := json.Unmarshal(bodyBytes, successResp); err != nil {
				return nil, nil, resp.StatusCode, string(bodyBytes), &DecodeError{ContentType: respContentType, Err: err}
			}
		}
		return successResp, nil, resp.StatusCode, string(bodyBytes), nil
	}

	if errorResp != nil {
		if json.Unmarshal(bodyBytes, errorResp) != nil {
			errorResp = nil
		}
	}

	return nil, errorResp, resp.StatusCode, string(bodyBytes), &StatusError{StatusCode: resp.StatusCode}
}

// buildURL joins the base URL and path and appends default and request query parameters, escaped.
func (hc *Client) buildURL(path string, queryParams map[string]string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	fullURL := hc.baseURL + path

	values := url.Values{}
	for k, v := range hc.defaultQueryParams {
		values.Set(k, v)
	}
	for k, v := range queryParams {
		values.Set(k, v)
	}
	if len(values) == 0 {
		return fullURL
	}
	return fullURL + "?" + values.Encode()
}

var sensitiveParams = map[string]bool{"appid": true, "apikey": true, "api_key": true, "key": true, "token": true}

// redactQuery masks credential-like query parameters before a URL is logged.
func redactQuery(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery == "" {
		return rawURL
	}
	values := parsed.Query()
	for k := range values {
		if sensitiveParams[strings.ToLower(k)] {
			values.Set(k, "***")
		}
	}
	parsed.RawQuery = values.Encode()
	return parsed.String()
}
