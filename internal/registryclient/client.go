// Package registryclient is a fluent HTTP client for fetching grammar
// and type-registry bundles from a remote registry, backing the
// `gradval fetch` command. It is adapted from the teacher's
// internal/http, which uses the same fluent request-builder/retry/cache
// shape to fetch remote drun includes. Two things are registry-specific
// rather than inherited wholesale: a retry loop that honors a 429
// response's Retry-After header ahead of its own backoff strategy, and a
// RegistryError that classifies a failed response as an auth failure or
// a missing resource so `gradval fetch` can react instead of just
// printing a status code.
package registryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a fluent HTTP client for registry requests.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	headers      map[string]string
	queryParams  map[string]string
	timeout      time.Duration
	retryConfig  *RetryConfig
	interceptors []Interceptor
}

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts int
	Backoff     BackoffStrategy
	RetryIf     func(*http.Response, error) bool
}

// BackoffStrategy calculates the delay before a retry attempt.
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
}

// Interceptor processes a response after it is received.
type Interceptor func(*Response) error

// Request is a single request being built up with a fluent API.
type Request struct {
	client      *Client
	method      string
	url         string
	headers     map[string]string
	queryParams map[string]string
	body        io.Reader
	bodyData    interface{}
	contentType string
	timeout     time.Duration
	retries     *RetryConfig
	ctx         context.Context
}

// Response wraps an *http.Response with its body already buffered.
type Response struct {
	*http.Response
	body       []byte
	retryCount int
	duration   time.Duration
}

// NewClient creates a registry client with the gradval default
// configuration: JSON accept header, a versioned User-Agent, and
// exponential backoff retries on server errors.
func NewClient(version string) *Client {
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": fmt.Sprintf("gradval/%s", version),
	}

	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		headers:     headers,
		queryParams: make(map[string]string),
		timeout:     30 * time.Second,
		retryConfig: &RetryConfig{
			MaxAttempts: 3,
			Backoff:     NewExponentialBackoff(time.Second),
			RetryIf:     DefaultRetryCondition,
		},
	}
}

// BaseURL sets the registry's base URL.
func (c *Client) BaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// Timeout sets the default request timeout.
func (c *Client) Timeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient.Timeout = timeout
	return c
}

// Header sets a default header applied to every request.
func (c *Client) Header(key, value string) *Client {
	c.headers[key] = value
	return c
}

// Auth applies an authentication scheme to the client.
func (c *Client) Auth(auth Auth) *Client {
	return auth.Apply(c)
}

// Retry overrides the client's retry configuration.
func (c *Client) Retry(config *RetryConfig) *Client {
	c.retryConfig = config
	return c
}

// Intercept registers response interceptors run after every request.
func (c *Client) Intercept(interceptors ...Interceptor) *Client {
	c.interceptors = append(c.interceptors, interceptors...)
	return c
}

// GET creates a GET request against path.
func (c *Client) GET(path string) *Request {
	return c.newRequest(http.MethodGet, path)
}

// POST creates a POST request against path.
func (c *Client) POST(path string) *Request {
	return c.newRequest(http.MethodPost, path)
}

func (c *Client) newRequest(method, path string) *Request {
	fullURL := path
	if c.baseURL != "" && !strings.HasPrefix(path, "http") {
		fullURL = c.baseURL + "/" + strings.TrimPrefix(path, "/")
	}

	req := &Request{
		client:      c,
		method:      method,
		url:         fullURL,
		headers:     make(map[string]string),
		queryParams: make(map[string]string),
		timeout:     c.timeout,
		retries:     c.retryConfig,
		ctx:         context.Background(),
	}
	for k, v := range c.headers {
		req.headers[k] = v
	}
	for k, v := range c.queryParams {
		req.queryParams[k] = v
	}
	return req
}

// Header sets a header for this request only.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Query sets a query parameter for this request only.
func (r *Request) Query(key, value string) *Request {
	r.queryParams[key] = value
	return r
}

// JSON sets the request body, serialized as JSON.
func (r *Request) JSON(data interface{}) *Request {
	r.bodyData = data
	r.contentType = "application/json"
	return r
}

// Context sets the context governing the request.
func (r *Request) Context(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send executes the request, retrying according to the client's
// RetryConfig, and returns the buffered response.
func (r *Request) Send() (*Response, error) {
	if err := r.prepareBody(); err != nil {
		return nil, fmt.Errorf("registryclient: prepare body: %w", err)
	}

	httpReq, err := r.buildHTTPRequest()
	if err != nil {
		return nil, fmt.Errorf("registryclient: build request: %w", err)
	}

	resp, err := r.executeWithRetries(httpReq)
	if err != nil {
		return nil, err
	}

	for _, interceptor := range r.client.interceptors {
		if err := interceptor(resp); err != nil {
			return nil, fmt.Errorf("registryclient: interceptor: %w", err)
		}
	}

	return resp, nil
}

func (r *Request) prepareBody() error {
	if r.bodyData == nil {
		return nil
	}
	if r.contentType != "application/json" {
		return fmt.Errorf("unsupported content type: %s", r.contentType)
	}
	data, err := json.Marshal(r.bodyData)
	if err != nil {
		return err
	}
	r.body = bytes.NewReader(data)
	return nil
}

func (r *Request) buildHTTPRequest() (*http.Request, error) {
	u, err := url.Parse(r.url)
	if err != nil {
		return nil, err
	}
	if len(r.queryParams) > 0 {
		q := u.Query()
		for k, v := range r.queryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(r.ctx, r.method, u.String(), r.body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	return req, nil
}

func (r *Request) executeWithRetries(req *http.Request) (*Response, error) {
	var lastErr error
	var resp *Response

	maxAttempts := 1
	if r.retries != nil {
		maxAttempts = r.retries.MaxAttempts
	}

	start := time.Now()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		httpResp, err := r.client.httpClient.Do(req.WithContext(ctx))
		cancel()

		duration := time.Since(start)

		if err != nil {
			lastErr = err
			if attempt < maxAttempts-1 && r.shouldRetry(nil, err) {
				time.Sleep(r.nextDelay(attempt, nil))
				continue
			}
			return nil, err
		}

		body, err := io.ReadAll(httpResp.Body)
		_ = httpResp.Body.Close()
		if err != nil {
			lastErr = err
			if attempt < maxAttempts-1 && r.shouldRetry(httpResp, err) {
				time.Sleep(r.nextDelay(attempt, httpResp))
				continue
			}
			return nil, err
		}

		resp = &Response{Response: httpResp, body: body, retryCount: attempt, duration: duration}

		if attempt < maxAttempts-1 && r.shouldRetry(httpResp, nil) {
			time.Sleep(r.nextDelay(attempt, httpResp))
			continue
		}
		return resp, nil
	}

	return resp, lastErr
}

func (r *Request) shouldRetry(resp *http.Response, err error) bool {
	if r.retries == nil || r.retries.RetryIf == nil {
		return false
	}
	return r.retries.RetryIf(resp, err)
}

// nextDelay prefers the registry's own Retry-After header — sent on a
// 429 by a well-behaved rate limiter — over the client's backoff
// strategy, falling back to the strategy when the header is absent.
func (r *Request) nextDelay(attempt int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if d, ok := RetryAfter(resp.Header.Get("Retry-After")); ok {
			return d
		}
	}
	return r.retries.Backoff.NextDelay(attempt)
}

// Body returns the raw response body.
func (r *Response) Body() []byte { return r.body }

// JSON unmarshals the response body into v.
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.body, v)
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// AsError returns nil for a successful response and a *RegistryError
// otherwise, classified by status code so a caller such as `gradval
// fetch` can distinguish "credentials are stale, re-run fetch login"
// from "no such grammar" instead of treating every failure alike.
func (r *Response) AsError() error {
	if r.IsSuccess() {
		return nil
	}
	return &RegistryError{StatusCode: r.StatusCode, Body: r.body}
}

// RetryCount reports how many retries were performed before this response.
func (r *Response) RetryCount() int { return r.retryCount }

// Duration reports the total request duration, including retries.
func (r *Response) Duration() time.Duration { return r.duration }

// DefaultRetryCondition retries network errors, server errors, and rate
// limiting. A 401/403 is deliberately excluded: retrying a request that
// failed because the stored credential is bad or missing can't succeed
// without a human re-running `gradval fetch login`.
func DefaultRetryCondition(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// RegistryError is a non-2xx response from the registry, classified by
// status code.
type RegistryError struct {
	StatusCode int
	Body       []byte
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry request failed with status %d", e.StatusCode)
}

// Unauthorized reports whether the registry rejected the request's
// credentials.
func (e *RegistryError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NotFound reports whether the registry has no such resource.
func (e *RegistryError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
