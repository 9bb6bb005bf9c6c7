package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sunwatt-io/powertrack/internal/constants"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// NewSitesCommand creates the sites command group.
func NewSitesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Work with sites",
	}

	cmd.AddCommand(newSitesListCommand())
	cmd.AddCommand(newSitesConfigCommand())
	cmd.AddCommand(newSitesUpdateCommand())

	return cmd
}

func newSitesListCommand() *cobra.Command {
	var customer string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sites in a customer's portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if customer == "" {
				return ErrCustomerRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			portfolio, err := client.Portfolio().GetOverview(cmd.Context(), customer)
			if err != nil {
				return fmt.Errorf("listing sites: %w", err)
			}

			return renderOutput(portfolio, func() error {
				table := newTable("Key", "Name", "Capacity (kW)", "Availability", "Alerts", "Status")

				for _, metrics := range portfolio {
					for _, site := range metrics.Sites {
						_ = table.Append(
							site.Key,
							site.Name,
							fmt.Sprintf("%.1f", site.CapacityKW),
							fmt.Sprintf("%.1f%%", site.Availability*constants.PercentageMultiplier),
							fmt.Sprintf("%d", site.AlertCount),
							site.PerformanceStatus(),
						)
					}
				}

				return renderTable(table)
			})
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "customer key (e.g. C8458)")

	return cmd
}

func newSitesConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config SITE_KEY",
		Short: "Show a site's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			config, err := client.Sites().GetConfig(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting site config: %w", err)
			}

			return renderOutput(config, func() error {
				table := newTable("Setting", "Value")

				for _, key := range powertrack.SortedKeys(config) {
					value := powertrack.FormatValue(config[key])
					if value == "" {
						value = constants.NotAvailable
					}

					_ = table.Append(key, value)
				}

				return renderTable(table)
			})
		},
	}
}

func newSitesUpdateCommand() *cobra.Command {
	var (
		setFlags []string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update SITE_KEY",
		Short: "Update a site's configuration (read-merge-write)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := collectChanges(setFlags, fromFile)
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			result := client.Sites().UpdateConfig(cmd.Context(), args[0], changes, true)
			if !result.Success {
				return fmt.Errorf("update failed: %s", result.ErrorMessage) //nolint:err113
			}

			return renderOutput(result, func() error {
				fmt.Printf("Site %s updated (%d fields changed)\n", args[0], len(changes))

				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "field to change, key=value (repeatable)")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "JSON file with partial changes")

	return cmd
}

// collectChanges merges --set flags and an optional JSON file into one
// partial update.
func collectChanges(setFlags []string, fromFile string) (map[string]interface{}, error) {
	changes := make(map[string]interface{})

	if fromFile != "" {
		data, err := os.ReadFile(fromFile) // #nosec G304 -- user-chosen input file
		if err != nil {
			return nil, fmt.Errorf("reading changes file: %w", err)
		}

		err = json.Unmarshal(data, &changes)
		if err != nil {
			return nil, fmt.Errorf("parsing changes file: %w", err)
		}
	}

	for _, flag := range setFlags {
		key, value, found := strings.Cut(flag, "=")
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSetFormat, flag)
		}

		changes[key] = value
	}

	if len(changes) == 0 {
		return nil, ErrChangesRequired
	}

	return changes, nil
}
