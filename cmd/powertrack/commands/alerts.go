package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// NewAlertsCommand creates the alerts command group.
func NewAlertsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Work with alert triggers and summaries",
	}

	cmd.AddCommand(newAlertsSummaryCommand())
	cmd.AddCommand(newAlertsTriggersCommand())

	return cmd
}

func newAlertsSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary KEY",
		Short: "Show active alerts for a site or customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			summary, err := client.Alerts().GetSummary(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting alert summary: %w", err)
			}

			if summary == nil {
				fmt.Println("No active alerts")

				return nil
			}

			return renderOutput(summary, func() error {
				table := newTable("Hardware", "Severity", "Message", "Since")

				for _, alert := range summary.Alerts {
					_ = table.Append(alert.HardwareKey, fmt.Sprintf("%d", alert.Severity), alert.Message, alert.Since)
				}

				return renderTable(table)
			})
		},
	}
}

func newAlertsTriggersCommand() *cobra.Command {
	var (
		lastChanged string
		activeOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "triggers KEY",
		Short: "List alert triggers for a site, customer, or device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			triggers, err := client.Alerts().GetTriggers(cmd.Context(), args[0], lastChanged)
			if err != nil {
				return fmt.Errorf("getting alert triggers: %w", err)
			}

			if activeOnly {
				triggers = powertrack.ActiveTriggers(triggers)
			}

			return renderOutput(triggers, func() error {
				table := newTable("Key", "Name", "Type", "Priority", "Enabled")

				for _, trigger := range triggers {
					enabled := "no"
					if trigger.Enabled {
						enabled = "yes"
					}

					_ = table.Append(trigger.Key, trigger.Name, trigger.AlertType, fmt.Sprintf("%d", trigger.Priority), enabled)
				}

				return renderTable(table)
			})
		},
	}

	cmd.Flags().StringVar(&lastChanged, "last-changed", "", "only triggers changed since this timestamp")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only enabled triggers")

	return cmd
}
