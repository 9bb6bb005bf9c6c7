package client

import (
	"context"
	"fmt"

	"github.com/sunwatt-io/powertrack/internal/constants"
	"github.com/sunwatt-io/powertrack/internal/http"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// HardwareClient implements powertrack.HardwareClient.
type HardwareClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHardwareClient creates a new hardware client.
func NewHardwareClient(httpClient *http.Client, baseURL string) *HardwareClient {
	return &HardwareClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// List implements powertrack.HardwareClient.List. It tries three sources in
// order: the production summary, the node search, and the bulk hardware
// editor. An API error from one tier moves on to the next; only transport
// errors propagate. When every tier fails or is empty the result is an empty
// list with no error.
func (c *HardwareClient) List(ctx context.Context, siteID string) ([]powertrack.Hardware, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	devices, err := c.listFromProductionSummary(ctx, siteID)
	if err != nil {
		if _, ok := powertrack.IsAPIError(err); !ok {
			return nil, err
		}
	}

	if len(devices) > 0 {
		return devices, nil
	}

	devices, err = c.listFromNodeSearch(ctx, siteID)
	if err != nil {
		if _, ok := powertrack.IsAPIError(err); !ok {
			return nil, err
		}
	}

	if len(devices) > 0 {
		return devices, nil
	}

	devices, err = c.listFromBulkEditor(ctx, siteID)
	if err != nil {
		if _, ok := powertrack.IsAPIError(err); !ok {
			return nil, err
		}

		return []powertrack.Hardware{}, nil
	}

	if devices == nil {
		devices = []powertrack.Hardware{}
	}

	return devices, nil
}

// listFromProductionSummary reads the "hardware" array from the production
// summary view.
func (c *HardwareClient) listFromProductionSummary(ctx context.Context, siteID string) ([]powertrack.Hardware, error) {
	summary, err := c.GetProduction(ctx, siteID)
	if err != nil {
		return nil, err
	}

	raw, ok := summary["hardware"].([]interface{})
	if !ok {
		return nil, nil
	}

	var devices []powertrack.Hardware

	for _, element := range raw {
		entry, ok := element.(map[string]interface{})
		if !ok {
			continue
		}

		devices = append(devices, hardwareFromMap(entry))
	}

	return devices, nil
}

// listFromNodeSearch queries the navigation node search and reshapes hardware
// nodes into the list form.
func (c *HardwareClient) listFromNodeSearch(ctx context.Context, siteID string) ([]powertrack.Hardware, error) {
	payload := map[string]interface{}{
		"key":      siteID,
		"context":  constants.NodeSearchContext,
		"kinds":    []string{"customer", "site", "hardware"},
		"subKinds": []string{},
		"nodes":    []interface{}{},
		"filter":   "",
		"filterBy": "Name",
	}

	resp, err := c.httpClient.Post(ctx, "/api/node", payload,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "dashboard")))
	if err != nil {
		return nil, fmt.Errorf("searching nodes: %w", err)
	}

	result, err := decodeObject(resp.Body, "node search")
	if err != nil {
		return nil, err
	}

	nodes, ok := result["nodes"].([]interface{})
	if !ok {
		return nil, nil
	}

	var devices []powertrack.Hardware

	for _, element := range nodes {
		node, ok := element.(map[string]interface{})
		if !ok {
			continue
		}

		if asString(node["kind"]) != "hardware" {
			continue
		}

		key := asString(node["key"])
		devices = append(devices, powertrack.Hardware{
			Key:          key,
			Name:         asString(node["name"]),
			FunctionCode: subKindFunctionCode(asString(node["subKind"])),
			HID:          powertrack.HardwareNumericID(key),
			Enabled:      true,
		})
	}

	return devices, nil
}

// listFromBulkEditor flattens the bulk hardware editor's grouped rows.
func (c *HardwareClient) listFromBulkEditor(ctx context.Context, siteID string) ([]powertrack.Hardware, error) {
	resp, err := c.httpClient.Get(ctx, "/api/edit/bulkhardware/"+siteID, nil,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "administration", "hardware")))
	if err != nil {
		return nil, fmt.Errorf("getting bulk hardware: %w", err)
	}

	bulk, err := decodeObject(resp.Body, "bulk hardware")
	if err != nil {
		return nil, err
	}

	groups, ok := bulk["list"].([]interface{})
	if !ok {
		return nil, nil
	}

	var devices []powertrack.Hardware

	for _, element := range groups {
		group, ok := element.(map[string]interface{})
		if !ok {
			continue
		}

		functionCode := asInt(group["functionCode"])

		rows, ok := group["rows"].([]interface{})
		if !ok {
			continue
		}

		for _, rowElement := range rows {
			row, ok := rowElement.(map[string]interface{})
			if !ok {
				continue
			}

			hid := asInt(row["hid"])
			devices = append(devices, powertrack.Hardware{
				Key:          fmt.Sprintf("H%d", hid),
				Name:         asString(row["name"]),
				FunctionCode: functionCode,
				HID:          hid,
				Enabled:      asBool(row["enableBool"], true),
				SerialNumber: asString(row["serialNumber"]),
			})
		}
	}

	return devices, nil
}

// GetDetails implements powertrack.HardwareClient.GetDetails.
func (c *HardwareClient) GetDetails(ctx context.Context, hardwareID string) (map[string]interface{}, error) {
	hardwareID = powertrack.NormalizeHardwareID(hardwareID)

	resp, err := c.httpClient.Get(ctx, "/api/edit/hardware/"+hardwareID, nil,
		http.WithReferer(pageReferer(c.baseURL, "hardware", hardwareID, "config")))
	if err != nil {
		return nil, fmt.Errorf("getting hardware details: %w", err)
	}

	return decodeObject(resp.Body, "hardware details")
}

// UpdateConfig implements powertrack.HardwareClient.UpdateConfig.
func (c *HardwareClient) UpdateConfig(ctx context.Context, hardwareID string, changes map[string]interface{}, returnFull bool) *powertrack.UpdateResult {
	hardwareID = powertrack.NormalizeHardwareID(hardwareID)

	return mergeUpdate(ctx, c.httpClient, updateSpec{
		description: "hardware configuration",
		getPath:     "/api/edit/hardware/" + hardwareID,
		putPath:     "/api/edit/hardware/" + hardwareID,
		idField:     "hardwareId",
		idValue:     powertrack.HardwareNumericID(hardwareID),
		referer:     pageReferer(c.baseURL, "hardware", hardwareID, "config"),
	}, changes, returnFull)
}

// UpdateSiteHardware implements powertrack.HardwareClient.UpdateSiteHardware.
func (c *HardwareClient) UpdateSiteHardware(ctx context.Context, hardwareID string, changes map[string]interface{}, returnFull bool) *powertrack.UpdateResult {
	hardwareID = powertrack.NormalizeHardwareID(hardwareID)

	return mergeUpdate(ctx, c.httpClient, updateSpec{
		description: "site hardware configuration",
		getPath:     "/api/edit/sitehardware/" + hardwareID,
		putPath:     "/api/edit/sitehardware",
		idField:     "key",
		idValue:     hardwareID,
		referer:     pageReferer(c.baseURL, "hardware", hardwareID, "config"),
	}, changes, returnFull)
}

// BulkUpdate implements powertrack.HardwareClient.BulkUpdate.
func (c *HardwareClient) BulkUpdate(ctx context.Context, siteID string, payload map[string]interface{}) (map[string]interface{}, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	resp, err := c.httpClient.Put(ctx, "/api/edit/bulkhardware/"+siteID, powertrack.Plain(payload),
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "administration", "hardware")))
	if err != nil {
		return nil, fmt.Errorf("bulk updating hardware: %w", err)
	}

	return decodeObject(resp.Body, "bulk update response")
}

// UpdateDriver implements powertrack.HardwareClient.UpdateDriver.
func (c *HardwareClient) UpdateDriver(ctx context.Context, hardwareID string, settings map[string]interface{}) (map[string]interface{}, error) {
	hardwareID = powertrack.NormalizeHardwareID(hardwareID)

	resp, err := c.httpClient.Post(ctx, "/api/view/driversettings/"+hardwareID, powertrack.Plain(settings),
		http.WithReferer(pageReferer(c.baseURL, "hardware", hardwareID, "driver")))
	if err != nil {
		return nil, fmt.Errorf("updating driver settings: %w", err)
	}

	return decodeObject(resp.Body, "driver settings response")
}

// GetProduction implements powertrack.HardwareClient.GetProduction.
func (c *HardwareClient) GetProduction(ctx context.Context, siteID string) (map[string]interface{}, error) {
	siteID = powertrack.NormalizeSiteID(siteID)

	resp, err := c.httpClient.Get(ctx, "/api/view/sitehardwareproduction/"+siteID, nil,
		http.WithReferer(sitePageReferer(c.baseURL, siteID, "dashboard")))
	if err != nil {
		return nil, fmt.Errorf("getting production summary: %w", err)
	}

	return decodeObject(resp.Body, "production summary")
}

// GetDiagnostics implements powertrack.HardwareClient.GetDiagnostics.
func (c *HardwareClient) GetDiagnostics(ctx context.Context, hardwareID string) (*powertrack.HardwareDiagnostics, error) {
	hardwareID = powertrack.NormalizeHardwareID(hardwareID)

	resp, err := c.httpClient.Get(ctx, "/api/view/hardwarestatus/"+hardwareID, nil,
		http.WithReferer(pageReferer(c.baseURL, "hardware", hardwareID, "status")))
	if err != nil {
		return nil, fmt.Errorf("getting hardware status: %w", err)
	}

	if emptyBody(resp.Body) {
		return nil, nil
	}

	var diagnostics powertrack.HardwareDiagnostics

	err = unmarshalInto(resp.Body, &diagnostics, "hardware status")
	if err != nil {
		return nil, err
	}

	return &diagnostics, nil
}

// GetDriverSettings implements powertrack.HardwareClient.GetDriverSettings.
func (c *HardwareClient) GetDriverSettings(ctx context.Context, hardwareID string) (map[string]interface{}, error) {
	hardwareID = powertrack.NormalizeHardwareID(hardwareID)

	resp, err := c.httpClient.Get(ctx, "/api/view/driversettings/"+hardwareID, nil,
		http.WithReferer(pageReferer(c.baseURL, "hardware", hardwareID, "driver")))
	if err != nil {
		return nil, fmt.Errorf("getting driver settings: %w", err)
	}

	return decodeObject(resp.Body, "driver settings")
}

// GetDriverSettingsList implements powertrack.HardwareClient.GetDriverSettingsList.
func (c *HardwareClient) GetDriverSettingsList(ctx context.Context, hardwareID string) ([]map[string]interface{}, error) {
	hardwareID = powertrack.NormalizeHardwareID(hardwareID)

	resp, err := c.httpClient.Get(ctx, "/api/view/driversettings/list/"+hardwareID, nil,
		http.WithReferer(pageReferer(c.baseURL, "hardware", hardwareID, "driver")))
	if err != nil {
		return nil, fmt.Errorf("listing driver settings: %w", err)
	}

	return decodeObjectList(resp.Body, "driver settings list")
}

// GetRegisterOffsets implements powertrack.HardwareClient.GetRegisterOffsets.
func (c *HardwareClient) GetRegisterOffsets(ctx context.Context, hardwareID string) (map[string]interface{}, error) {
	hardwareID = powertrack.NormalizeHardwareID(hardwareID)

	resp, err := c.httpClient.Get(ctx, "/api/view/registeroffsets/"+hardwareID, nil,
		http.WithReferer(pageReferer(c.baseURL, "hardware", hardwareID, "registers")))
	if err != nil {
		return nil, fmt.Errorf("getting register offsets: %w", err)
	}

	return decodeObject(resp.Body, "register offsets")
}

// hardwareFromMap converts a production-summary hardware entry.
func hardwareFromMap(entry map[string]interface{}) powertrack.Hardware {
	key := asString(entry["key"])

	hid := asInt(entry["hid"])
	if hid == 0 {
		hid = powertrack.HardwareNumericID(key)
	}

	return powertrack.Hardware{
		Key:          key,
		Name:         asString(entry["name"]),
		FunctionCode: asInt(entry["functionCode"]),
		HID:          hid,
		Enabled:      asBool(entry["enableBool"], true),
		SerialNumber: asString(entry["serialNumber"]),
		Model:        asString(entry["model"]),
		Manufacturer: asString(entry["manufacturer"]),
		LastUpdate:   asString(entry["lastUpdate"]),
	}
}

// subKindFunctionCode maps node-search subKind labels to function codes.
func subKindFunctionCode(subKind string) int {
	codes := map[string]int{
		"inverter":        1,
		"productionMeter": 2,
		"gridMeter":       4,
		"weatherStation":  5,
		"combiner":        6,
		"gateway":         10,
		"cellModem":       11,
		"camera":          14,
		"tracker":         24,
		"bessController":  25,
		"dataLogger":      28,
		"relay":           34,
		"bessMeter":       37,
	}

	return codes[subKind]
}

func asString(value interface{}) string {
	text, _ := value.(string)

	return text
}

func asInt(value interface{}) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case int:
		return typed
	default:
		return 0
	}
}

func asBool(value interface{}, fallback bool) bool {
	flag, ok := value.(bool)
	if !ok {
		return fallback
	}

	return flag
}
