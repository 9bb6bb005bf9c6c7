package client

import (
	"context"
	"fmt"

	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// ReportsClient implements powertrack.ReportsClient.
type ReportsClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewReportsClient creates a new reports client.
func NewReportsClient(httpClient *http.Client, baseURL string) *ReportsClient {
	return &ReportsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// GetCapabilities implements powertrack.ReportsClient.GetCapabilities.
func (c *ReportsClient) GetCapabilities(ctx context.Context) (*powertrack.ReportingCapabilities, error) {
	resp, err := c.httpClient.Get(ctx, "/api/reporting", nil,
		http.WithReferer(pageReferer(c.baseURL, "reporting")))
	if err != nil {
		return nil, fmt.Errorf("getting reporting capabilities: %w", err)
	}

	if emptyBody(resp.Body) {
		return nil, nil
	}

	var capabilities powertrack.ReportingCapabilities

	err = unmarshalInto(resp.Body, &capabilities, "reporting capabilities")
	if err != nil {
		return nil, err
	}

	return &capabilities, nil
}

// GetConfigs implements powertrack.ReportsClient.GetConfigs.
func (c *ReportsClient) GetConfigs(ctx context.Context) ([]map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, "/api/view/reportconfigs", nil,
		http.WithReferer(pageReferer(c.baseURL, "reporting")))
	if err != nil {
		return nil, fmt.Errorf("listing report configs: %w", err)
	}

	return decodeObjectList(resp.Body, "report configs")
}

// CreateConfig implements powertrack.ReportsClient.CreateConfig.
func (c *ReportsClient) CreateConfig(ctx context.Context, config map[string]interface{}) (map[string]interface{}, error) {
	resp, err := c.httpClient.Post(ctx, "/api/report/config", powertrack.Plain(config),
		http.WithReferer(pageReferer(c.baseURL, "reporting")))
	if err != nil {
		return nil, fmt.Errorf("creating report config: %w", err)
	}

	return decodeObject(resp.Body, "report config")
}

// Start implements powertrack.ReportsClient.Start.
func (c *ReportsClient) Start(ctx context.Context, request map[string]interface{}) (map[string]interface{}, error) {
	resp, err := c.httpClient.Post(ctx, "/api/report/start", powertrack.Plain(request),
		http.WithReferer(pageReferer(c.baseURL, "reporting")))
	if err != nil {
		return nil, fmt.Errorf("starting report: %w", err)
	}

	return decodeObject(resp.Body, "report run")
}
