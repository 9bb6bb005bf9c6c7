package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600

	// SnapshotFilePerm is the permission for saved snapshot files.
	SnapshotFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations such as bulk updates.
	ExtendedHTTPTimeout = 45 * time.Second
)

// Transport retry limits.
const (
	// DefaultRetryMax is the default number of transport-level retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between transport retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Operation retry and batching limits.
const (
	// DefaultOperationRetries is the default number of additional attempts
	// for a wrapped operation.
	DefaultOperationRetries = 2

	// DefaultRetryBackoff is the base delay before the first operation retry.
	DefaultRetryBackoff = 500 * time.Millisecond

	// DefaultBatchWorkers bounds concurrent items in a batch run.
	DefaultBatchWorkers = 5
)

// Cache sizing.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024
)

// API constants.
const (
	// PortfolioEpoch is the lastChanged value that requests a full
	// portfolio rather than a delta.
	PortfolioEpoch = "1900-01-01T00:00:00.000Z"

	// ChartContextSite is the chart query context for site-level charts.
	ChartContextSite = "site"

	// NodeSearchContext is the node search query context.
	NodeSearchContext = "query"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// PercentageMultiplier converts decimals to percentages.
	PercentageMultiplier = 100
)
