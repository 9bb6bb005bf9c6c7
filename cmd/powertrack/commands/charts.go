package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// NewChartsCommand creates the charts command group.
func NewChartsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Work with chart data and definitions",
	}

	cmd.AddCommand(newChartsDefinitionsCommand())
	cmd.AddCommand(newChartsDataCommand())

	return cmd
}

func newChartsDefinitionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "definitions",
		Short: "List the builtin chart definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			definitions, err := client.Charts().GetDefinitions(cmd.Context())
			if err != nil {
				return fmt.Errorf("getting chart definitions: %w", err)
			}

			return renderOutput(definitions, func() error {
				table := newTable("ID", "Name", "Section")

				for _, definition := range definitions {
					_ = table.Append(definition.ID, definition.Name, definition.Section)
				}

				return renderTable(table)
			})
		},
	}
}

func newChartsDataCommand() *cobra.Command {
	var (
		spanFrom string
		spanTo   string
		types    []int
	)

	cmd := &cobra.Command{
		Use:   "data SITE_KEY",
		Short: "Fetch chart data for a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if spanFrom == "" || spanTo == "" {
				return ErrSpanRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			data, err := client.Charts().GetData(cmd.Context(), &powertrack.ChartQuery{
				SiteID:         args[0],
				HardwareByType: types,
				SpanFrom:       spanFrom,
				SpanTo:         spanTo,
			})
			if err != nil {
				return fmt.Errorf("getting chart data: %w", err)
			}

			if data == nil {
				fmt.Println("No chart data for the requested span")

				return nil
			}

			return renderOutput(data, func() error {
				table := newTable("Series", "Hardware", "Unit", "Points")

				for _, series := range data.Series {
					_ = table.Append(series.Name, series.HardwareKey, series.Unit, fmt.Sprintf("%d", len(series.Points)))
				}

				return renderTable(table)
			})
		},
	}

	cmd.Flags().StringVar(&spanFrom, "from", "", "span start (e.g. 2026-08-01T00:00:00)")
	cmd.Flags().StringVar(&spanTo, "to", "", "span end")
	cmd.Flags().IntSliceVar(&types, "type", nil, "hardware function codes to include")

	return cmd
}
