package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"github.com/sunwatt-io/powertrack/internal/constants"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
	"github.com/sunwatt-io/powertrack/pkg/ptclient"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = constants.FormatJSON
	OutputFormatYAML = constants.FormatYAML

	defaultJSONIndent = "  "
)

// Common static errors used throughout the commands package.
var (
	ErrBaseURLRequired   = errors.New("base URL is required (use --base-url, config file, or POWERTRACK_BASE_URL)")
	ErrNotLoggedIn       = errors.New("not logged in (run 'powertrack login' or set POWERTRACK_COOKIE)")
	ErrSiteKeyRequired   = errors.New("site key is required")
	ErrSiteListRequired  = errors.New("a site list file is required (--site-list)")
	ErrChangesRequired   = errors.New("changes are required (--set key=value or --from-file)")
	ErrInvalidSetFormat  = errors.New("invalid --set format, expected key=value")
	ErrCustomerRequired  = errors.New("customer key is required (--customer)")
	ErrHardwareRequired  = errors.New("hardware key is required")
	ErrSpanRequired      = errors.New("both --from and --to are required")
	ErrOutputDirRequired = errors.New("output directory is required (--out)")
)

// createClient builds a client from viper configuration.
func createClient() (powertrack.Client, error) {
	baseURL := viper.GetString("base-url")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	cookie := viper.GetString("cookie")
	if cookie == "" {
		return nil, ErrNotLoggedIn
	}

	return ptclient.New(&powertrack.Config{
		Endpoint:  baseURL,
		Cookie:    cookie,
		XSRFToken: viper.GetString("xsrf-token"),
	})
}

// renderOutput writes a value in the configured output format, falling back
// to the provided table renderer.
func renderOutput(value interface{}, renderTable func() error) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", defaultJSONIndent)

		return encoder.Encode(value)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(value)
	default:
		return renderTable()
	}
}

// newTable creates a stdout table with the given header.
func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header(toAnySlice(header)...)

	return table
}

func toAnySlice(values []string) []interface{} {
	converted := make([]interface{}, len(values))
	for index, value := range values {
		converted[index] = value
	}

	return converted
}

// renderTable renders and reports render failures uniformly.
func renderTable(table *tablewriter.Table) error {
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
