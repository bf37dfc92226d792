package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/wire"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "View and edit hub metrics",
	Long:  `View a hub's core metrics and edit its facilities, locations and certifications.`,
}

var metricsHubsCmd = &cobra.Command{
	Use:   "hubs",
	Short: "List the hubs you can access",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := NewContext(cmd)
		if err != nil {
			return err
		}
		_, err = wire.MetricsAdapter().Hubs(ctx)
		return err
	},
}

var metricsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a hub's metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		_, err = wire.MetricsAdapter().Show(ctx, hub)
		return err
	},
}

var metricsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update seats, campus, SEZ, coverage hours and transport",
	Long: `Update the core facilities of a hub. Flags that are not given keep
their current value.

Examples:
  hubledger metrics set --hub AKQA --seats 120 --coverage 24x7
  hubledger metrics set --campus In-Campus --sez Yes --transport No`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		adapter := wire.MetricsAdapter()

		current, err := wire.HubMetricsService().GetHubMetrics(ctx, hub)
		if err != nil {
			return err
		}
		req := primary.UpdateFacilitiesRequest{
			HubName:             hub,
			TotalSeats:          current.TotalSeats,
			CampusType:          current.CampusType,
			SEZStatus:           current.SEZStatus,
			CoverageHours:       current.CoverageHours,
			TransportFacilities: current.TransportFacilities,
		}
		flags := cmd.Flags()
		if flags.Changed("seats") {
			req.TotalSeats, _ = flags.GetInt("seats")
		}
		if flags.Changed("campus") {
			req.CampusType, _ = flags.GetString("campus")
		}
		if flags.Changed("sez") {
			req.SEZStatus, _ = flags.GetString("sez")
		}
		if flags.Changed("coverage") {
			req.CoverageHours, _ = flags.GetString("coverage")
		}
		if flags.Changed("transport") {
			req.TransportFacilities, _ = flags.GetString("transport")
		}

		return adapter.SetFacilities(ctx, req)
	},
}

var metricsLocationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Set location text and per-location headcounts",
	Long: `Set the location description and headcount per location. A total that
differs from the hub headcount is reported as a warning and still saved.

Example:
  hubledger metrics locations --hub AKQA --location "Gurugram, Pune" --count Gurugram=60 --count Pune=40`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		location, _ := cmd.Flags().GetString("location")
		counts, _ := cmd.Flags().GetStringToInt("count")

		_, err = wire.MetricsAdapter().SetLocations(ctx, primary.UpdateLocationsRequest{
			HubName:            hub,
			Location:           location,
			LocationHeadcounts: counts,
		})
		return err
	},
}

var metricsCertsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Set certification counts",
	Long: `Replace a hub's certification counts.

Example:
  hubledger metrics certs --hub AKQA --cert AWS=12 --cert "Google Ads"=4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		certs, _ := cmd.Flags().GetStringToInt("cert")

		return wire.MetricsAdapter().SetCertifications(ctx, primary.UpdateCertificationsRequest{
			HubName:        hub,
			Certifications: certs,
		})
	},
}

var metricsReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare stored aggregates with values derived from child data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		write, _ := cmd.Flags().GetBool("write")

		_, err = wire.MetricsAdapter().Reconcile(ctx, hub, write)
		return err
	},
}

// MetricsCmd returns the metrics command
func MetricsCmd() *cobra.Command {
	for _, c := range []*cobra.Command{metricsShowCmd, metricsSetCmd, metricsLocationsCmd, metricsCertsCmd, metricsReconcileCmd} {
		addHubFlag(c)
	}

	metricsSetCmd.Flags().Int("seats", 0, "Total seats")
	metricsSetCmd.Flags().String("campus", "", "Campus type (In-Campus, Outside-Campus)")
	metricsSetCmd.Flags().String("sez", "", "SEZ status (Yes, No)")
	metricsSetCmd.Flags().String("coverage", "", "Coverage hours as HOURSxDAYS, e.g. 24x5")
	metricsSetCmd.Flags().String("transport", "", "Transport facilities (Yes, No)")
	metricsLocationsCmd.Flags().String("location", "", "Location description")
	metricsLocationsCmd.Flags().StringToInt("count", nil, "Headcount per location as NAME=COUNT (repeatable)")
	metricsCertsCmd.Flags().StringToInt("cert", nil, "Certification count as NAME=COUNT (repeatable)")
	metricsReconcileCmd.Flags().BoolP("write", "w", false, "Write derived aggregates back to the hub")

	metricsCmd.AddCommand(metricsHubsCmd)
	metricsCmd.AddCommand(metricsShowCmd)
	metricsCmd.AddCommand(metricsSetCmd)
	metricsCmd.AddCommand(metricsLocationsCmd)
	metricsCmd.AddCommand(metricsCertsCmd)
	metricsCmd.AddCommand(metricsReconcileCmd)

	return metricsCmd
}
