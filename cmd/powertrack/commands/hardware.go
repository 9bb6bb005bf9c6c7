package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHardwareCommand creates the hardware command group.
func NewHardwareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Work with site hardware",
	}

	cmd.AddCommand(newHardwareListCommand())
	cmd.AddCommand(newHardwareDetailsCommand())
	cmd.AddCommand(newHardwareDiagnosticsCommand())

	return cmd
}

func newHardwareListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list SITE_KEY",
		Short: "List hardware on a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			devices, err := client.Hardware().List(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("listing hardware: %w", err)
			}

			return renderOutput(devices, func() error {
				table := newTable("Key", "Name", "Type", "Serial", "Enabled")

				for _, device := range devices {
					enabled := "no"
					if device.Enabled {
						enabled = "yes"
					}

					_ = table.Append(device.Key, device.Name, device.TypeName(), device.SerialNumber, enabled)
				}

				return renderTable(table)
			})
		},
	}
}

func newHardwareDetailsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "details HARDWARE_KEY",
		Short: "Show a device's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			details, err := client.Hardware().GetDetails(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting hardware details: %w", err)
			}

			return renderOutput(details, func() error {
				table := newTable("Setting", "Value")

				for key, value := range details {
					_ = table.Append(key, fmt.Sprintf("%v", value))
				}

				return renderTable(table)
			})
		},
	}
}

func newHardwareDiagnosticsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics HARDWARE_KEY",
		Short: "Show a device's communication status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			diagnostics, err := client.Hardware().GetDiagnostics(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting diagnostics: %w", err)
			}

			if diagnostics == nil {
				fmt.Println("No diagnostic data available")

				return nil
			}

			return renderOutput(diagnostics, func() error {
				table := newTable("Property", "Value")
				_ = table.Append("Key", diagnostics.Key)
				_ = table.Append("Comm status", diagnostics.CommStatus)
				_ = table.Append("Last reported", diagnostics.LastReported)
				_ = table.Append("Errors", fmt.Sprintf("%d", diagnostics.ErrorCount))
				_ = table.Append("Firmware", diagnostics.FirmwareLevel)

				return renderTable(table)
			})
		},
	}
}
