package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sunwatt-io/powertrack/internal/auth"
	"github.com/sunwatt-io/powertrack/internal/constants"
	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// Static errors for err113 compliance.
var (
	ErrEndpointRequired = errors.New("endpoint is required")
)

// Client implements the powertrack.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     powertrack.Logger

	// Resource clients
	sites     powertrack.SitesClient
	hardware  powertrack.HardwareClient
	alerts    powertrack.AlertsClient
	modeling  powertrack.ModelingClient
	charts    powertrack.ChartsClient
	portfolio powertrack.PortfolioClient
	reports   powertrack.ReportsClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *powertrack.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.Timeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.Timeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new PowerTrack API client.
func New(config *powertrack.Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, ErrEndpointRequired
	}

	headerProvider := auth.NewSessionProvider(config.Cookie, config.XSRFToken)
	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(config.Endpoint, headerProvider, httpOpts...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(config.Endpoint, "/"),
		logger:     config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.hardware = NewHardwareClient(c.httpClient, c.baseURL)
	c.alerts = NewAlertsClient(c.httpClient, c.baseURL)
	c.modeling = NewModelingClient(c.httpClient, c.baseURL)
	c.charts = NewChartsClient(c.httpClient, c.baseURL)
	c.portfolio = NewPortfolioClient(c.httpClient, c.baseURL)
	c.reports = NewReportsClient(c.httpClient, c.baseURL)
	c.sites = NewSitesClient(c.httpClient, c.baseURL, c.hardware, c.alerts, c.modeling, c.portfolio)
}

// Sites implements powertrack.Client.Sites.
func (c *Client) Sites() powertrack.SitesClient {
	return c.sites
}

// Hardware implements powertrack.Client.Hardware.
func (c *Client) Hardware() powertrack.HardwareClient {
	return c.hardware
}

// Alerts implements powertrack.Client.Alerts.
func (c *Client) Alerts() powertrack.AlertsClient {
	return c.alerts
}

// Modeling implements powertrack.Client.Modeling.
func (c *Client) Modeling() powertrack.ModelingClient {
	return c.modeling
}

// Charts implements powertrack.Client.Charts.
func (c *Client) Charts() powertrack.ChartsClient {
	return c.charts
}

// Portfolio implements powertrack.Client.Portfolio.
func (c *Client) Portfolio() powertrack.PortfolioClient {
	return c.portfolio
}

// Reports implements powertrack.Client.Reports.
func (c *Client) Reports() powertrack.ReportsClient {
	return c.reports
}

// GetUserPreferences implements powertrack.Client.GetUserPreferences.
func (c *Client) GetUserPreferences(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, "/api/userpreferences", nil,
		http.WithReferer(pageReferer(c.baseURL, "preferences")))
	if err != nil {
		return nil, fmt.Errorf("getting user preferences: %w", err)
	}

	return decodeObject(resp.Body, "user preferences")
}

// GetAuditLog implements powertrack.Client.GetAuditLog.
func (c *Client) GetAuditLog(ctx context.Context, query map[string]string) ([]map[string]interface{}, error) {
	values := queryValues(query)

	resp, err := c.httpClient.Get(ctx, "/api/auditlog", values,
		http.WithReferer(pageReferer(c.baseURL, "auditlog")))
	if err != nil {
		return nil, fmt.Errorf("getting audit log: %w", err)
	}

	return decodeObjectList(resp.Body, "audit log")
}

// loggerAdapter adapts powertrack.Logger to http.Logger.
type loggerAdapter struct {
	logger powertrack.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

// pageReferer builds the web UI page URL a request emulates.
func pageReferer(baseURL string, segments ...string) string {
	return baseURL + "/powertrack/" + strings.Join(segments, "/")
}

// sitePageReferer builds a site-scoped page URL.
func sitePageReferer(baseURL, siteID string, segments ...string) string {
	parts := append([]string{siteID}, segments...)

	return pageReferer(baseURL, parts...)
}

// queryValues converts a string map into url.Values.
func queryValues(query map[string]string) url.Values {
	if len(query) == 0 {
		return nil
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	return values
}

// emptyBody reports whether a response body carries no payload.
func emptyBody(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))

	return trimmed == "" || trimmed == "null"
}

// decodeObject parses a JSON object body, mapping empty bodies to nil.
func decodeObject(body []byte, what string) (map[string]interface{}, error) {
	if emptyBody(body) {
		return nil, nil
	}

	var decoded map[string]interface{}

	err := json.Unmarshal(body, &decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", what, err)
	}

	return decoded, nil
}

// unmarshalInto parses a JSON body into a typed record.
func unmarshalInto(body []byte, target interface{}, what string) error {
	err := json.Unmarshal(body, target)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", what, err)
	}

	return nil
}

// decodeObjectList parses a JSON array body, mapping empty bodies to nil.
func decodeObjectList(body []byte, what string) ([]map[string]interface{}, error) {
	if emptyBody(body) {
		return nil, nil
	}

	var decoded []map[string]interface{}

	err := json.Unmarshal(body, &decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", what, err)
	}

	return decoded, nil
}
