package powertrack

import (
	"strconv"
	"strings"
)

// Identifier prefixes used by the PowerTrack API.
const (
	SitePrefix     = "S"
	HardwarePrefix = "H"
	CustomerPrefix = "C"
)

// NormalizeSiteID ensures a site identifier carries the "S" prefix.
// Already-prefixed identifiers are returned unchanged.
func NormalizeSiteID(id string) string {
	return normalizeID(id, SitePrefix)
}

// NormalizeHardwareID ensures a hardware identifier carries the "H" prefix.
func NormalizeHardwareID(id string) string {
	return normalizeID(id, HardwarePrefix)
}

// NormalizeCustomerID ensures a customer identifier carries the "C" prefix.
func NormalizeCustomerID(id string) string {
	return normalizeID(id, CustomerPrefix)
}

func normalizeID(id, prefix string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return id
	}

	if strings.HasPrefix(strings.ToUpper(id), prefix) {
		return prefix + id[1:]
	}

	return prefix + id
}

// HardwareNumericID extracts the numeric portion of a hardware key
// ("H12345" -> 12345). Returns 0 when the key has no numeric portion.
func HardwareNumericID(key string) int {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0
	}

	if strings.HasPrefix(strings.ToUpper(key), HardwarePrefix) {
		key = key[1:]
	}

	numericID, err := strconv.Atoi(key)
	if err != nil {
		return 0
	}

	return numericID
}

// hardwareTypeNames maps hardware function codes to display names.
var hardwareTypeNames = map[int]string{
	1:  "Inverter (PV)",
	2:  "Production Meter (PM)",
	4:  "Grid Meter (GM)",
	5:  "Weather Station (WS)",
	6:  "DC Combiner",
	9:  "Kiosk",
	10: "Gateway (GW)",
	11: "Cell Modem (CE)",
	14: "Camera",
	20: "Extra Meter",
	21: "DNP3 Server",
	24: "Tracker",
	25: "BESS Controller",
	28: "Data Logger",
	31: "Data Capture",
	34: "Relay",
	37: "BESS Meter",
}

// HardwareTypeName returns the display name for a hardware function code.
func HardwareTypeName(functionCode int) string {
	if name, ok := hardwareTypeNames[functionCode]; ok {
		return name
	}

	return "Unknown (" + strconv.Itoa(functionCode) + ")"
}
