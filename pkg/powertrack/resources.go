package powertrack

import (
	"strings"
	"time"
)

// Hardware is a single device on a site, as returned by the hardware list.
type Hardware struct {
	Key          string `json:"key"                    yaml:"key"`
	Name         string `json:"name"                   yaml:"name"`
	FunctionCode int    `json:"functionCode"           yaml:"functionCode"`
	HID          int    `json:"hid"                    yaml:"hid"`
	Enabled      bool   `json:"enableBool"             yaml:"enableBool"`
	SerialNumber string `json:"serialNumber,omitempty" yaml:"serialNumber,omitempty"`
	Model        string `json:"model,omitempty"        yaml:"model,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	LastUpdate   string `json:"lastUpdate,omitempty"   yaml:"lastUpdate,omitempty"`
}

// TypeName returns the human-readable device type.
func (h *Hardware) TypeName() string {
	return HardwareTypeName(h.FunctionCode)
}

// AlertTrigger is a configured alert rule on a site or device.
type AlertTrigger struct {
	Key          string                 `json:"key"                    yaml:"key"`
	Name         string                 `json:"name"                   yaml:"name"`
	Enabled      bool                   `json:"enableBool"             yaml:"enableBool"`
	Priority     int                    `json:"priority"               yaml:"priority"`
	AlertType    string                 `json:"alertType,omitempty"    yaml:"alertType,omitempty"`
	HardwareKeys []string               `json:"hardwareKeys,omitempty" yaml:"hardwareKeys,omitempty"`
	Settings     map[string]interface{} `json:"settings,omitempty"     yaml:"settings,omitempty"`
	LastChanged  string                 `json:"lastChanged,omitempty"  yaml:"lastChanged,omitempty"`
}

// ActiveTriggers filters a trigger list down to the enabled rules.
func ActiveTriggers(triggers []AlertTrigger) []AlertTrigger {
	var active []AlertTrigger

	for _, trigger := range triggers {
		if trigger.Enabled {
			active = append(active, trigger)
		}
	}

	return active
}

// AlertSummaryEntry is one active alert in an alert summary.
type AlertSummaryEntry struct {
	HardwareKey  string `json:"hardwareKey"            yaml:"hardwareKey"`
	HardwareName string `json:"hardwareName,omitempty" yaml:"hardwareName,omitempty"`
	Severity     int    `json:"severity"               yaml:"severity"`
	Message      string `json:"message,omitempty"      yaml:"message,omitempty"`
	Since        string `json:"since,omitempty"        yaml:"since,omitempty"`
}

// AlertSummaryResponse is the active-alert summary for a site or customer.
type AlertSummaryResponse struct {
	Key         string              `json:"key"                   yaml:"key"`
	ActiveCount int                 `json:"activeCount"           yaml:"activeCount"`
	Alerts      []AlertSummaryEntry `json:"alerts,omitempty"      yaml:"alerts,omitempty"`
	LastUpdated string              `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
}

// SeverityLevel returns the highest severity among active alerts, zero when
// none are active.
func (s *AlertSummaryResponse) SeverityLevel() int {
	highest := 0

	for _, alert := range s.Alerts {
		if alert.Severity > highest {
			highest = alert.Severity
		}
	}

	return highest
}

// HardwareWithAlerts returns the distinct hardware keys that currently have
// active alerts.
func (s *AlertSummaryResponse) HardwareWithAlerts() []string {
	seen := make(map[string]bool)

	var keys []string

	for _, alert := range s.Alerts {
		if alert.HardwareKey == "" || seen[alert.HardwareKey] {
			continue
		}

		seen[alert.HardwareKey] = true

		keys = append(keys, alert.HardwareKey)
	}

	return keys
}

// SiteDetailedInfo is the read-only site detail view.
type SiteDetailedInfo struct {
	Key             string  `json:"key"                       yaml:"key"`
	Name            string  `json:"name"                      yaml:"name"`
	Address         string  `json:"address,omitempty"         yaml:"address,omitempty"`
	City            string  `json:"city,omitempty"            yaml:"city,omitempty"`
	State           string  `json:"state,omitempty"           yaml:"state,omitempty"`
	PostalCode      string  `json:"postalCode,omitempty"      yaml:"postalCode,omitempty"`
	Country         string  `json:"country,omitempty"         yaml:"country,omitempty"`
	Latitude        float64 `json:"latitude,omitempty"        yaml:"latitude,omitempty"`
	Longitude       float64 `json:"longitude,omitempty"       yaml:"longitude,omitempty"`
	TimeZone        string  `json:"timeZone,omitempty"        yaml:"timeZone,omitempty"`
	ContractEndDate string  `json:"contractEndDate,omitempty" yaml:"contractEndDate,omitempty"`
	CommissionDate  string  `json:"commissionDate,omitempty"  yaml:"commissionDate,omitempty"`
}

// FullAddress joins the address parts into a single display line.
func (s *SiteDetailedInfo) FullAddress() string {
	parts := []string{s.Address, s.City, s.State, s.PostalCode, s.Country}

	var present []string

	for _, part := range parts {
		if part != "" {
			present = append(present, part)
		}
	}

	return strings.Join(present, ", ")
}

// ContractDaysRemaining returns the whole days until the contract end date,
// or -1 when no parseable date is set.
func (s *SiteDetailedInfo) ContractDaysRemaining() int {
	if s.ContractEndDate == "" {
		return -1
	}

	endDate, err := time.Parse("2006-01-02T15:04:05", s.ContractEndDate)
	if err != nil {
		endDate, err = time.Parse("2006-01-02", s.ContractEndDate)
		if err != nil {
			return -1
		}
	}

	return int(time.Until(endDate).Hours() / 24)
}

// SiteOverview is the per-site slice of the portfolio view.
type SiteOverview struct {
	Key            string  `json:"key"                      yaml:"key"`
	Name           string  `json:"name"                     yaml:"name"`
	CapacityKW     float64 `json:"capacityKw"               yaml:"capacityKw"`
	CurrentPowerKW float64 `json:"currentPowerKw"           yaml:"currentPowerKw"`
	EnergyTodayKWH float64 `json:"energyTodayKwh"           yaml:"energyTodayKwh"`
	Availability   float64 `json:"availability"             yaml:"availability"`
	Performance    float64 `json:"performance"              yaml:"performance"`
	AlertCount     int     `json:"alertCount"               yaml:"alertCount"`
	LastReported   string  `json:"lastReported,omitempty"   yaml:"lastReported,omitempty"`
	CommStatus     string  `json:"commStatus,omitempty"     yaml:"commStatus,omitempty"`
}

// IsOnline reports whether the site is currently communicating.
func (s *SiteOverview) IsOnline() bool {
	return strings.EqualFold(s.CommStatus, "online") || strings.EqualFold(s.CommStatus, "ok")
}

// PerformanceStatus buckets the performance ratio for display.
func (s *SiteOverview) PerformanceStatus() string {
	switch {
	case s.Performance >= 0.95:
		return "good"
	case s.Performance >= 0.80:
		return "degraded"
	default:
		return "poor"
	}
}

// PortfolioMetrics aggregates one customer's sites in the portfolio view.
type PortfolioMetrics struct {
	CustomerKey string         `json:"customerKey"        yaml:"customerKey"`
	Name        string         `json:"name"               yaml:"name"`
	Sites       []SiteOverview `json:"sites,omitempty"    yaml:"sites,omitempty"`
	SiteCount   int            `json:"siteCount"          yaml:"siteCount"`
}

// TotalCapacityKW sums nameplate capacity across the portfolio's sites.
func (p *PortfolioMetrics) TotalCapacityKW() float64 {
	total := 0.0
	for _, site := range p.Sites {
		total += site.CapacityKW
	}

	return total
}

// AverageAvailability averages availability across sites, zero when empty.
func (p *PortfolioMetrics) AverageAvailability() float64 {
	if len(p.Sites) == 0 {
		return 0
	}

	total := 0.0
	for _, site := range p.Sites {
		total += site.Availability
	}

	return total / float64(len(p.Sites))
}

// ModelingData is the energy model for a site.
type ModelingData struct {
	Key            string                   `json:"key"                       yaml:"key"`
	DCCapacityKW   float64                  `json:"dcCapacityKw"              yaml:"dcCapacityKw"`
	ACCapacityKW   float64                  `json:"acCapacityKw"              yaml:"acCapacityKw"`
	SystemLosses   map[string]float64       `json:"systemLosses,omitempty"    yaml:"systemLosses,omitempty"`
	InverterModels []map[string]interface{} `json:"inverterModels,omitempty"  yaml:"inverterModels,omitempty"`
	Bifacial       map[string]interface{}   `json:"bifacial,omitempty"        yaml:"bifacial,omitempty"`
	ExpectedPR     float64                  `json:"expectedPr,omitempty"      yaml:"expectedPr,omitempty"`
}

// TotalCapacityAC returns the AC nameplate capacity in kW.
func (m *ModelingData) TotalCapacityAC() float64 {
	return m.ACCapacityKW
}

// TotalCapacityDC returns the DC nameplate capacity in kW.
func (m *ModelingData) TotalCapacityDC() float64 {
	return m.DCCapacityKW
}

// PerformanceRatio returns the modeled performance ratio.
func (m *ModelingData) PerformanceRatio() float64 {
	return m.ExpectedPR
}

// Losses sums the modeled system loss factors.
func (m *ModelingData) Losses() float64 {
	total := 0.0
	for _, loss := range m.SystemLosses {
		total += loss
	}

	return total
}

// ChartQuery describes a chart data request.
type ChartQuery struct {
	SiteID         string
	HardwareByType []int
	SpanFrom       string
	SpanTo         string
}

// ChartSeries is one series in a chart response.
type ChartSeries struct {
	Name         string      `json:"name"                  yaml:"name"`
	HardwareKey  string      `json:"hardwareKey,omitempty" yaml:"hardwareKey,omitempty"`
	Unit         string      `json:"unit,omitempty"        yaml:"unit,omitempty"`
	Points       [][]float64 `json:"points,omitempty"      yaml:"points,omitempty"`
	FunctionCode int         `json:"functionCode"          yaml:"functionCode"`
}

// ChartData is a chart query response.
type ChartData struct {
	SiteKey  string        `json:"siteKey"            yaml:"siteKey"`
	SpanFrom string        `json:"spanFrom,omitempty" yaml:"spanFrom,omitempty"`
	SpanTo   string        `json:"spanTo,omitempty"   yaml:"spanTo,omitempty"`
	Series   []ChartSeries `json:"series,omitempty"   yaml:"series,omitempty"`
}

// ChartDefinition is one predefined chart from the builtin chart menu.
type ChartDefinition struct {
	ID       string `json:"id"                 yaml:"id"`
	Name     string `json:"name"               yaml:"name"`
	Section  string `json:"section,omitempty"  yaml:"section,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// HardwareDiagnostics is the device status view.
type HardwareDiagnostics struct {
	Key           string                 `json:"key"                     yaml:"key"`
	CommStatus    string                 `json:"commStatus,omitempty"    yaml:"commStatus,omitempty"`
	LastReported  string                 `json:"lastReported,omitempty"  yaml:"lastReported,omitempty"`
	ErrorCount    int                    `json:"errorCount"              yaml:"errorCount"`
	Registers     map[string]interface{} `json:"registers,omitempty"     yaml:"registers,omitempty"`
	FirmwareLevel string                 `json:"firmwareLevel,omitempty" yaml:"firmwareLevel,omitempty"`
}

// ReportingCapabilities describes the account's reporting access.
type ReportingCapabilities struct {
	Enabled     bool     `json:"enabled"               yaml:"enabled"`
	ReportTypes []string `json:"reportTypes,omitempty" yaml:"reportTypes,omitempty"`
	MaxSchedule int      `json:"maxSchedule,omitempty" yaml:"maxSchedule,omitempty"`
}

// HasReportingAccess reports whether any report type is available.
func (r *ReportingCapabilities) HasReportingAccess() bool {
	return r.Enabled && len(r.ReportTypes) > 0
}

// SiteDataOptions selects which sections SitesClient.GetData assembles. A nil
// options value includes everything. Alerts are fetched per detailed hardware
// device, so excluding hardware also leaves the alerts section empty.
type SiteDataOptions struct {
	IncludeHardware bool
	IncludeAlerts   bool
	IncludeModeling bool
}

// AllSiteData returns options with every section included.
func AllSiteData() *SiteDataOptions {
	return &SiteDataOptions{
		IncludeHardware: true,
		IncludeAlerts:   true,
		IncludeModeling: true,
	}
}

// SiteData is the comprehensive per-site snapshot assembled by
// SitesClient.GetData. Pieces that could not be fetched stay empty and the
// corresponding messages are collected in Errors.
type SiteData struct {
	SiteKey         string                            `json:"siteKey"                   yaml:"siteKey"`
	Config          map[string]interface{}            `json:"config,omitempty"          yaml:"config,omitempty"`
	Hardware        []Hardware                        `json:"hardware,omitempty"        yaml:"hardware,omitempty"`
	HardwareDetails map[string]map[string]interface{} `json:"hardwareDetails,omitempty" yaml:"hardwareDetails,omitempty"`
	Alerts          []AlertTrigger                    `json:"alerts,omitempty"          yaml:"alerts,omitempty"`
	Modeling        map[string]interface{}            `json:"modeling,omitempty"        yaml:"modeling,omitempty"`
	Errors          []string                          `json:"errors,omitempty"          yaml:"errors,omitempty"`
}

// UpdateResult is the outcome of a read-merge-write operation. Failures are
// reported through Success and ErrorMessage, never as a Go error.
type UpdateResult struct {
	Success      bool                   `json:"success"                yaml:"success"`
	OriginalData map[string]interface{} `json:"originalData,omitempty" yaml:"originalData,omitempty"`
	UpdatedData  map[string]interface{} `json:"updatedData,omitempty"  yaml:"updatedData,omitempty"`
	PutResponse  map[string]interface{} `json:"putResponse,omitempty"  yaml:"putResponse,omitempty"`
	ErrorMessage string                 `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}
