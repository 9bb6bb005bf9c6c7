package client

import (
	"context"
	"fmt"

	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// ModelingClient implements powertrack.ModelingClient.
type ModelingClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewModelingClient creates a new modeling client.
func NewModelingClient(httpClient *http.Client, baseURL string) *ModelingClient {
	return &ModelingClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Get implements powertrack.ModelingClient.Get.
func (c *ModelingClient) Get(ctx context.Context, siteID string) (map[string]interface{}, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	resp, err := c.httpClient.Get(ctx, "/api/edit/modeling/"+siteID, nil,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "administration", "modeling")))
	if err != nil {
		return nil, fmt.Errorf("getting modeling data: %w", err)
	}

	return decodeObject(resp.Body, "modeling data")
}

// Update implements powertrack.ModelingClient.Update.
func (c *ModelingClient) Update(ctx context.Context, siteID string, changes map[string]interface{}, returnFull bool) *powertrack.UpdateResult {
	siteID = powertrack.NormalizeSiteID(siteID)

	return mergeUpdate(ctx, c.httpClient, updateSpec{
		description: "modeling data",
		getPath:     "/api/edit/modeling/" + siteID,
		putPath:     "/api/edit/modeling/" + siteID,
		idField:     "key",
		idValue:     siteID,
		referer:     sitePageReferer(c.baseURL, siteID, "administration", "modeling"),
	}, changes, returnFull)
}

// UpdateInverterModel implements powertrack.ModelingClient.UpdateInverterModel.
func (c *ModelingClient) UpdateInverterModel(ctx context.Context, siteID string, model map[string]interface{}) *powertrack.UpdateResult {
	return c.Update(ctx, siteID, map[string]interface{}{"inverterModels": []interface{}{model}}, true)
}

// UpdateBifacial implements powertrack.ModelingClient.UpdateBifacial.
func (c *ModelingClient) UpdateBifacial(ctx context.Context, siteID string, settings map[string]interface{}) *powertrack.UpdateResult {
	return c.Update(ctx, siteID, map[string]interface{}{"bifacial": settings}, true)
}

// GetCurveModels implements powertrack.ModelingClient.GetCurveModels.
func (c *ModelingClient) GetCurveModels(ctx context.Context, modelType string) ([]map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, "/api/view/pvcurvemodels/"+modelType, nil,
		http.WithReferer(pageReferer(c.baseURL, "modeling", "curves")))
	if err != nil {
		return nil, fmt.Errorf("getting curve models: %w", err)
	}

	return decodeObjectList(resp.Body, "curve models")
}

// GetPVSystModules implements powertrack.ModelingClient.GetPVSystModules.
func (c *ModelingClient) GetPVSystModules(ctx context.Context, key string) ([]map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, "/api/view/pvsystmodules/"+key, nil,
		http.WithReferer(pageReferer(c.baseURL, "modeling", "modules")))
	if err != nil {
		return nil, fmt.Errorf("getting PVsyst modules: %w", err)
	}

	return decodeObjectList(resp.Body, "PVsyst modules")
}
