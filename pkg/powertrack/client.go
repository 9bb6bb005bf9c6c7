package powertrack

import (
	"context"
	"time"
)

// SitesClient provides access to site-level operations.
type SitesClient interface {
	GetConfig(ctx context.Context, siteID string) (map[string]interface{}, error)
	UpdateConfig(ctx context.Context, siteID string, changes map[string]interface{}, returnFull bool) *UpdateResult
	GetDetailedInfo(ctx context.Context, siteID string) (*SiteDetailedInfo, error)
	GetOverview(ctx context.Context, siteID, customerID string) (*SiteOverview, error)
	GetLinks(ctx context.Context, siteID string) (map[string]interface{}, error)
	GetShares(ctx context.Context, siteID string) (map[string]interface{}, error)
	GetData(ctx context.Context, siteID, customerID string, options *SiteDataOptions) (*SiteData, error)
}

// HardwareClient provides access to hardware-level operations.
type HardwareClient interface {
	List(ctx context.Context, siteID string) ([]Hardware, error)
	GetDetails(ctx context.Context, hardwareID string) (map[string]interface{}, error)
	UpdateConfig(ctx context.Context, hardwareID string, changes map[string]interface{}, returnFull bool) *UpdateResult
	UpdateSiteHardware(ctx context.Context, hardwareID string, changes map[string]interface{}, returnFull bool) *UpdateResult
	BulkUpdate(ctx context.Context, siteID string, payload map[string]interface{}) (map[string]interface{}, error)
	UpdateDriver(ctx context.Context, hardwareID string, settings map[string]interface{}) (map[string]interface{}, error)
	GetProduction(ctx context.Context, siteID string) (map[string]interface{}, error)
	GetDiagnostics(ctx context.Context, hardwareID string) (*HardwareDiagnostics, error)
	GetDriverSettings(ctx context.Context, hardwareID string) (map[string]interface{}, error)
	GetDriverSettingsList(ctx context.Context, hardwareID string) ([]map[string]interface{}, error)
	GetRegisterOffsets(ctx context.Context, hardwareID string) (map[string]interface{}, error)
}

// AlertsClient provides access to alert trigger and summary operations.
type AlertsClient interface {
	GetTriggers(ctx context.Context, key string, lastChanged string) ([]AlertTrigger, error)
	// UpdateTriggers is write-only: the API has no single-trigger read
	// endpoint, so the result carries no original snapshot.
	UpdateTriggers(ctx context.Context, key string, triggers []map[string]interface{}) *UpdateResult
	AddTrigger(ctx context.Context, key string, trigger map[string]interface{}) (map[string]interface{}, error)
	DeleteTriggers(ctx context.Context, key string) error
	GetSummary(ctx context.Context, key string) (*AlertSummaryResponse, error)
}

// ModelingClient provides access to energy modeling operations.
type ModelingClient interface {
	Get(ctx context.Context, siteID string) (map[string]interface{}, error)
	Update(ctx context.Context, siteID string, changes map[string]interface{}, returnFull bool) *UpdateResult
	UpdateInverterModel(ctx context.Context, siteID string, model map[string]interface{}) *UpdateResult
	UpdateBifacial(ctx context.Context, siteID string, settings map[string]interface{}) *UpdateResult
	GetCurveModels(ctx context.Context, modelType string) ([]map[string]interface{}, error)
	GetPVSystModules(ctx context.Context, key string) ([]map[string]interface{}, error)
}

// ChartsClient provides access to chart data and definitions.
type ChartsClient interface {
	GetData(ctx context.Context, query *ChartQuery) (*ChartData, error)
	GetDefinitions(ctx context.Context) ([]ChartDefinition, error)
}

// PortfolioClient provides access to fleet-level overviews.
type PortfolioClient interface {
	GetOverview(ctx context.Context, customerID string) ([]PortfolioMetrics, error)
	GetOverviewForSite(ctx context.Context, siteID, customerID string) (*SiteOverview, error)
}

// ReportsClient provides access to reporting operations.
type ReportsClient interface {
	GetCapabilities(ctx context.Context) (*ReportingCapabilities, error)
	GetConfigs(ctx context.Context) ([]map[string]interface{}, error)
	CreateConfig(ctx context.Context, config map[string]interface{}) (map[string]interface{}, error)
	Start(ctx context.Context, request map[string]interface{}) (map[string]interface{}, error)
}

// AccountClient provides access to account-scoped endpoints.
type AccountClient interface {
	GetUserPreferences(ctx context.Context) (map[string]interface{}, error)
	GetAuditLog(ctx context.Context, query map[string]string) ([]map[string]interface{}, error)
}

// Client is the full PowerTrack API surface.
type Client interface {
	Sites() SitesClient
	Hardware() HardwareClient
	Alerts() AlertsClient
	Modeling() ModelingClient
	Charts() ChartsClient
	Portfolio() PortfolioClient
	Reports() ReportsClient
	AccountClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a powertrack.Client.
//
// Endpoint is the base URL of the PowerTrack deployment, e.g.
// "https://apps.alsoenergy.com". ptclient.New normalizes this value by
// trimming a trailing slash and adding "https://" if no scheme is present.
//
// Authentication is cookie/session based: Cookie carries the browser session
// and XSRFToken the matching anti-forgery token. Both are sent on every
// request together with a page-emulating Referer header. ptclient.NewFromEnv
// reads POWERTRACK_BASE_URL, POWERTRACK_COOKIE, and POWERTRACK_XSRF_TOKEN
// once at construction; nothing is read from the environment afterwards.
type Config struct {
	// Endpoint is the base URL for the PowerTrack API.
	Endpoint string

	// Cookie is the authenticated browser session cookie.
	Cookie string

	// XSRFToken is the anti-forgery token paired with the cookie.
	XSRFToken string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Logger receives structured request/response logs when set.
	Logger Logger

	// Debug enables request/response logging through Logger.
	Debug bool

	// RetryMax is the number of transport-level retries for retryable
	// statuses (429, 500, 502, 503, 504). Zero means the default of 3.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the retry backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Timeout is the default per-request timeout. Zero means 30s.
	Timeout time.Duration
}
