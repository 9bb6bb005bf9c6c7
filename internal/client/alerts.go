package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// AlertsClient implements powertrack.AlertsClient.
type AlertsClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewAlertsClient creates a new alerts client.
func NewAlertsClient(httpClient *http.Client, baseURL string) *AlertsClient {
	return &AlertsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// GetTriggers implements powertrack.AlertsClient.GetTriggers. The key may be
// a site, customer, or hardware key. When lastChanged is set only triggers
// modified since that timestamp are returned.
func (c *AlertsClient) GetTriggers(ctx context.Context, key string, lastChanged string) ([]powertrack.AlertTrigger, error) {
	var query url.Values
	if lastChanged != "" {
		query = url.Values{"lastChanged": []string{lastChanged}}
	}

	resp, err := c.httpClient.Get(ctx, "/api/alerttrigger/"+key, query,
		http.WithReferer(pageReferer(c.baseURL, "alerts", key)))
	if err != nil {
		return nil, fmt.Errorf("getting alert triggers: %w", err)
	}

	if emptyBody(resp.Body) {
		return nil, nil
	}

	var triggers []powertrack.AlertTrigger

	err = unmarshalInto(resp.Body, &triggers, "alert triggers")
	if err != nil {
		return nil, err
	}

	return triggers, nil
}

// UpdateTriggers implements powertrack.AlertsClient.UpdateTriggers. There is
// no single-trigger read endpoint, so this is a plain write: the result
// carries the server response but no original snapshot.
func (c *AlertsClient) UpdateTriggers(ctx context.Context, key string, triggers []map[string]interface{}) *powertrack.UpdateResult {
	payload := make([]interface{}, len(triggers))
	for index, trigger := range triggers {
		payload[index] = powertrack.Plain(trigger)
	}

	resp, err := c.httpClient.Put(ctx, "/api/alerttrigger/"+key, payload,
		http.WithReferer(pageReferer(c.baseURL, "alerts", key)))
	if err != nil {
		return &powertrack.UpdateResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("PUT request failed: %v", err),
		}
	}

	putResponse, err := decodeObject(resp.Body, "alert trigger response")
	if err != nil {
		return &powertrack.UpdateResult{
			Success:      false,
			ErrorMessage: err.Error(),
		}
	}

	return &powertrack.UpdateResult{
		Success:     true,
		PutResponse: putResponse,
	}
}

// AddTrigger implements powertrack.AlertsClient.AddTrigger.
func (c *AlertsClient) AddTrigger(ctx context.Context, key string, trigger map[string]interface{}) (map[string]interface{}, error) {
	resp, err := c.httpClient.Post(ctx, "/api/alerttrigger/"+key, powertrack.Plain(trigger),
		http.WithReferer(pageReferer(c.baseURL, "alerts", key)))
	if err != nil {
		return nil, fmt.Errorf("adding alert trigger: %w", err)
	}

	return decodeObject(resp.Body, "alert trigger")
}

// DeleteTriggers implements powertrack.AlertsClient.DeleteTriggers.
func (c *AlertsClient) DeleteTriggers(ctx context.Context, key string) error {
	_, err := c.httpClient.Delete(ctx, "/api/alerttrigger/"+key,
		http.WithReferer(pageReferer(c.baseURL, "alerts", key)))
	if err != nil {
		return fmt.Errorf("deleting alert triggers: %w", err)
	}

	return nil
}

// GetSummary implements powertrack.AlertsClient.GetSummary. The key may be a
// customer or a site key.
func (c *AlertsClient) GetSummary(ctx context.Context, key string) (*powertrack.AlertSummaryResponse, error) {
	resp, err := c.httpClient.Get(ctx, "/api/view/activealerts/activesummary/"+key, nil,
		http.WithReferer(pageReferer(c.baseURL, "alerts", key)))
	if err != nil {
		return nil, fmt.Errorf("getting alert summary: %w", err)
	}

	if emptyBody(resp.Body) {
		return nil, nil
	}

	var summary powertrack.AlertSummaryResponse

	err = unmarshalInto(resp.Body, &summary, "alert summary")
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
