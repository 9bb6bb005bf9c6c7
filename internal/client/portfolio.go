package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sunwatt-io/powertrack/internal/constants"
	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// PortfolioClient implements powertrack.PortfolioClient.
type PortfolioClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewPortfolioClient creates a new portfolio client.
func NewPortfolioClient(httpClient *http.Client, baseURL string) *PortfolioClient {
	return &PortfolioClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// GetOverview implements powertrack.PortfolioClient.GetOverview. The epoch
// lastChanged value requests the full portfolio rather than a delta.
func (c *PortfolioClient) GetOverview(ctx context.Context, customerID string) ([]powertrack.PortfolioMetrics, error) {
	customerID = powertrack.NormalizeCustomerID(customerID)
	query := url.Values{"lastChanged": []string{constants.PortfolioEpoch}}

	resp, err := c.httpClient.Get(ctx, "/api/view/portfolio/"+customerID, query,
		http.WithReferer(pageReferer(c.baseURL, "portfolio")))
	if err != nil {
		return nil, fmt.Errorf("getting portfolio: %w", err)
	}

	if emptyBody(resp.Body) {
		return nil, nil
	}

	var portfolio []powertrack.PortfolioMetrics

	err = unmarshalInto(resp.Body, &portfolio, "portfolio")
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

// GetOverviewForSite implements powertrack.PortfolioClient.GetOverviewForSite:
// it fetches the parent customer's portfolio and picks out the site.
func (c *PortfolioClient) GetOverviewForSite(ctx context.Context, siteID, customerID string) (*powertrack.SiteOverview, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	portfolio, err := c.GetOverview(ctx, customerID)
	if err != nil {
		return nil, err
	}

	for _, customer := range portfolio {
		for index := range customer.Sites {
			if powertrack.NormalizeSiteID(customer.Sites[index].Key) == siteID {
				return &customer.Sites[index], nil
			}
		}
	}

	return nil, nil
}
