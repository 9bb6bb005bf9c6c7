package client

import (
	"context"
	"fmt"

	"github.com/sunwatt-io/powertrack/internal/constants"
	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// ChartsClient implements powertrack.ChartsClient.
type ChartsClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewChartsClient creates a new charts client.
func NewChartsClient(httpClient *http.Client, baseURL string) *ChartsClient {
	return &ChartsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// defaultChartHardwareTypes are queried when the caller does not narrow the
// series: weather stations and production meters.
var defaultChartHardwareTypes = []int{5, 2}

// GetData implements powertrack.ChartsClient.GetData.
func (c *ChartsClient) GetData(ctx context.Context, query *powertrack.ChartQuery) (*powertrack.ChartData, error) {
	siteID := powertrack.NormalizeSiteID(query.SiteID)

	hardwareByType := query.HardwareByType
	if len(hardwareByType) == 0 {
		hardwareByType = defaultChartHardwareTypes
	}

	payload := map[string]interface{}{
		"context":        constants.ChartContextSite,
		"hardwareByType": hardwareByType,
		"siteKeys":       []string{siteID},
		"spanFrom":       query.SpanFrom,
		"spanTo":         query.SpanTo,
	}

	resp, err := c.httpClient.Post(ctx, "/api/view/chart", payload,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "charts")))
	if err != nil {
		return nil, fmt.Errorf("getting chart data: %w", err)
	}

	if emptyBody(resp.Body) {
		return nil, nil
	}

	var data powertrack.ChartData

	err = unmarshalInto(resp.Body, &data, "chart data")
	if err != nil {
		return nil, err
	}

	if data.SiteKey == "" {
		data.SiteKey = siteID
	}

	return &data, nil
}

// GetDefinitions implements powertrack.ChartsClient.GetDefinitions. The
// builtin chart menu is grouped into sections; the result flattens every
// predefined chart with its section name attached.
func (c *ChartsClient) GetDefinitions(ctx context.Context) ([]powertrack.ChartDefinition, error) {
	resp, err := c.httpClient.Get(ctx, "/api/view/chart/builtin", nil,
		http.WithReferer(pageReferer(c.baseURL, "charts")))
	if err != nil {
		return nil, fmt.Errorf("getting chart definitions: %w", err)
	}

	menu, err := decodeObject(resp.Body, "chart menu")
	if err != nil || menu == nil {
		return nil, err
	}

	sections, ok := menu["chartMenuSections"].([]interface{})
	if !ok {
		return nil, nil
	}

	var definitions []powertrack.ChartDefinition

	for _, element := range sections {
		section, ok := element.(map[string]interface{})
		if !ok {
			continue
		}

		sectionName := asString(section["name"])

		charts, ok := section["predefinedCharts"].([]interface{})
		if !ok {
			continue
		}

		for _, chartElement := range charts {
			chart, ok := chartElement.(map[string]interface{})
			if !ok {
				continue
			}

			definitions = append(definitions, powertrack.ChartDefinition{
				ID:       asString(chart["id"]),
				Name:     asString(chart["name"]),
				Section:  sectionName,
				Category: asString(chart["category"]),
			})
		}
	}

	return definitions, nil
}
