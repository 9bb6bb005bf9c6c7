package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// SitesClient implements powertrack.SitesClient.
type SitesClient struct {
	httpClient *http.Client
	baseURL    string

	hardware  powertrack.HardwareClient
	alerts    powertrack.AlertsClient
	modeling  powertrack.ModelingClient
	portfolio powertrack.PortfolioClient
}

// NewSitesClient creates a new sites client. The sibling clients are used by
// GetData to assemble the comprehensive snapshot.
func NewSitesClient(httpClient *http.Client, baseURL string, hardware powertrack.HardwareClient, alerts powertrack.AlertsClient, modeling powertrack.ModelingClient, portfolio powertrack.PortfolioClient) *SitesClient {
	return &SitesClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		hardware:   hardware,
		alerts:     alerts,
		modeling:   modeling,
		portfolio:  portfolio,
	}
}

// GetConfig implements powertrack.SitesClient.GetConfig.
func (c *SitesClient) GetConfig(ctx context.Context, siteID string) (map[string]interface{}, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	resp, err := c.httpClient.Get(ctx, "/api/edit/site/"+siteID, nil,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "administration", "config")))
	if err != nil {
		return nil, fmt.Errorf("getting site config: %w", err)
	}

	return decodeObject(resp.Body, "site config")
}

// UpdateConfig implements powertrack.SitesClient.UpdateConfig.
func (c *SitesClient) UpdateConfig(ctx context.Context, siteID string, changes map[string]interface{}, returnFull bool) *powertrack.UpdateResult {
	siteID = powertrack.NormalizeSiteID(siteID)

	return mergeUpdate(ctx, c.httpClient, updateSpec{
		description: "site configuration",
		getPath:     "/api/edit/site/" + siteID,
		putPath:     "/api/edit/site",
		idField:     "key",
		idValue:     siteID,
		referer:     sitePageReferer(c.baseURL, siteID, "administration", "config"),
	}, changes, returnFull)
}

// GetDetailedInfo implements powertrack.SitesClient.GetDetailedInfo.
func (c *SitesClient) GetDetailedInfo(ctx context.Context, siteID string) (*powertrack.SiteDetailedInfo, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	resp, err := c.httpClient.Get(ctx, "/api/view/site/"+siteID, nil,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "dashboard")))
	if err != nil {
		return nil, fmt.Errorf("getting site details: %w", err)
	}

	if emptyBody(resp.Body) {
		return nil, nil
	}

	var info powertrack.SiteDetailedInfo

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing site details: %w", err)
	}

	return &info, nil
}

// GetOverview implements powertrack.SitesClient.GetOverview.
func (c *SitesClient) GetOverview(ctx context.Context, siteID, customerID string) (*powertrack.SiteOverview, error) {
	return c.portfolio.GetOverviewForSite(ctx, siteID, customerID)
}

// GetLinks implements powertrack.SitesClient.GetLinks.
func (c *SitesClient) GetLinks(ctx context.Context, siteID string) (map[string]interface{}, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	resp, err := c.httpClient.Get(ctx, "/api/view/sitelinks/"+siteID, nil,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "administration", "links")))
	if err != nil {
		return nil, fmt.Errorf("getting site links: %w", err)
	}

	return decodeObject(resp.Body, "site links")
}

// GetShares implements powertrack.SitesClient.GetShares.
func (c *SitesClient) GetShares(ctx context.Context, siteID string) (map[string]interface{}, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	resp, err := c.httpClient.Get(ctx, "/api/view/siteshares/"+siteID, nil,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "administration", "shares")))
	if err != nil {
		return nil, fmt.Errorf("getting site shares: %w", err)
	}

	return decodeObject(resp.Body, "site shares")
}

// GetData implements powertrack.SitesClient.GetData. It assembles a
// comprehensive snapshot: configuration, then, per the options, the hardware
// list with per-device details, alert triggers for each detailed device, and
// modeling. Pieces that fail are skipped and their messages collected; the
// snapshot itself is always returned.
func (c *SitesClient) GetData(ctx context.Context, siteID, customerID string, options *powertrack.SiteDataOptions) (*powertrack.SiteData, error) {
	if options == nil {
		options = powertrack.AllSiteData()
	}

	siteID = powertrack.NormalizeSiteID(siteID)
	data := &powertrack.SiteData{SiteKey: siteID}

	config, err := c.GetConfig(ctx, siteID)
	if err != nil {
		data.Errors = append(data.Errors, fmt.Sprintf("config: %v", err))
	} else {
		data.Config = config
	}

	if options.IncludeHardware {
		devices, err := c.hardware.List(ctx, siteID)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("hardware: %v", err))
		} else {
			data.Hardware = devices
		}
	}

	if len(data.Hardware) > 0 {
		data.HardwareDetails = make(map[string]map[string]interface{}, len(data.Hardware))

		for _, device := range data.Hardware {
			details, err := c.hardware.GetDetails(ctx, device.Key)
			if err != nil {
				data.Errors = append(data.Errors, fmt.Sprintf("hardware %s: %v", device.Key, err))

				continue
			}

			if details != nil {
				data.HardwareDetails[device.Key] = details
			}
		}
	}

	if options.IncludeAlerts {
		for _, device := range data.Hardware {
			if _, detailed := data.HardwareDetails[device.Key]; !detailed {
				continue
			}

			triggers, err := c.alerts.GetTriggers(ctx, device.Key, "")
			if err != nil {
				data.Errors = append(data.Errors, fmt.Sprintf("alerts %s: %v", device.Key, err))

				continue
			}

			data.Alerts = append(data.Alerts, triggers...)
		}
	}

	if options.IncludeModeling {
		modeling, err := c.modeling.Get(ctx, siteID)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("modeling: %v", err))
		} else {
			data.Modeling = modeling
		}
	}

	return data, nil
}
