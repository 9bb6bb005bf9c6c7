// Package http provides the transport layer for the PowerTrack API: retryable
// requests, session header injection, and mapping of failures onto the typed
// error taxonomy.
package http

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

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sunwatt-io/powertrack/internal/auth"
	"github.com/sunwatt-io/powertrack/internal/constants"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// Logger matches powertrack.Logger so the transport has no dependency on the
// public package's interface identity.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes a single API request.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Headers  map[string]string
	Body     interface{}
	FormBody url.Values

	// Referer is the page URL this request emulates. The session headers are
	// derived from it.
	Referer string

	// Timeout overrides the client default for this request only.
	Timeout time.Duration
}

// Response is a completed 2xx API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the retryable HTTP client for the PowerTrack API.
type Client struct {
	baseURL        string
	headerProvider auth.HeaderProvider
	httpClient     *retryablehttp.Client
	logger         Logger
	debug          bool
	userAgent      string
	timeout        time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug logging.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig configures transport-level retries.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// retryableStatuses are retried at the transport level.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// checkRetry retries connection errors and the retryable status set.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	if resp != nil && retryableStatuses[resp.StatusCode] {
		return true, nil
	}

	return false, nil
}

// NewClient creates a new PowerTrack HTTP client.
func NewClient(baseURL string, headerProvider auth.HeaderProvider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.CheckRetry = checkRetry
	retryClient.Logger = nil

	client := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		headerProvider: headerProvider,
		httpClient:     retryClient,
		userAgent:      "powertrack-go-client/1.0",
		timeout:        constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes a request and returns the response or a taxonomy error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.buildURL(req.Path, req.Query)

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := retryablehttp.NewRequestWithContext(reqCtx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	err = c.applyHeaders(httpReq, req, contentType)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &powertrack.TransportError{Cause: err}
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &powertrack.TransportError{Cause: err}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    fullURL,
			"bytes":  len(respBody),
		})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, mapStatusError(resp, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// buildURL joins base URL, path, and query with exactly one slash between
// base and path.
func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	return fullURL
}

// encodeBody serializes the request body, preferring form encoding when
// FormBody is set.
func encodeBody(req *Request) (io.Reader, string, error) {
	if req.FormBody != nil {
		return strings.NewReader(req.FormBody.Encode()), "application/x-www-form-urlencoded", nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	encoded, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	return bytes.NewReader(encoded), "application/json", nil
}

// applyHeaders sets session headers for the request's referer, then overlays
// caller headers so the caller wins on conflict.
func (c *Client) applyHeaders(httpReq *retryablehttp.Request, req *Request, contentType string) error {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.headerProvider != nil {
		authHeaders, err := c.headerProvider.AuthHeaders(req.Referer)
		if err != nil {
			return fmt.Errorf("building auth headers: %w", err)
		}

		for key, value := range authHeaders {
			httpReq.Header.Set(key, value)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return nil
}

// mapStatusError converts a non-2xx response into the error taxonomy.
func mapStatusError(resp *http.Response, body []byte) error {
	apiErr := &powertrack.APIError{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		BodySnippet: snippet(body),
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.Message = "authentication failed"
	case http.StatusForbidden:
		apiErr.Message = "access forbidden"
	case http.StatusNotFound:
		apiErr.Message = "resource not found"
	default:
		apiErr.Message = "API request failed"
	}

	if strings.Contains(apiErr.ContentType, "json") {
		var parsed map[string]interface{}
		if json.Unmarshal(body, &parsed) == nil {
			apiErr.Body = parsed
		}
	}

	return apiErr
}

// snippet truncates a response body for error reporting.
func snippet(body []byte) string {
	text := string(body)
	if len(text) > powertrack.MaxBodySnippetLength {
		return text[:powertrack.MaxBodySnippetLength]
	}

	return text
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodGet, path, query, nil, opts))
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodPost, path, nil, body, opts))
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodPut, path, nil, body, opts))
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(http.MethodDelete, path, nil, nil, opts))
}

// RequestOption customizes a single request.
type RequestOption func(*Request)

// WithReferer sets the page-emulating Referer for a request.
func WithReferer(referer string) RequestOption {
	return func(r *Request) {
		r.Referer = referer
	}
}

// WithRequestTimeout overrides the client timeout for a request.
func WithRequestTimeout(timeout time.Duration) RequestOption {
	return func(r *Request) {
		r.Timeout = timeout
	}
}

// WithHeader adds a caller header to a request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}

		r.Headers[key] = value
	}
}

func newRequest(method, path string, query url.Values, body interface{}, opts []RequestOption) *Request {
	req := &Request{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	}

	for _, opt := range opts {
		opt(req)
	}

	return req
}
