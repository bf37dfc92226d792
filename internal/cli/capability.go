package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/wire"
)

var capabilityCmd = &cobra.Command{
	Use:     "capability",
	Aliases: []string{"cap"},
	Short:   "Manage the services a hub offers",
}

var capabilityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a hub's capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		_, err = wire.CapabilityAdapter().List(ctx, hub)
		return err
	},
}

var capabilityAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a capability to a hub",
	Long: `Add a capability to a hub under one of the MEDIA+, CONTENT+ or CX+ categories.

Examples:
  hubledger capability add SEO --hub AKQA --category MEDIA+
  hubledger capability add "Retail Media" --category MEDIA+ --headcount 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		headcount, _ := cmd.Flags().GetInt("headcount")

		_, err = wire.CapabilityAdapter().Add(ctx, primary.AddCapabilityRequest{
			HubName:   hub,
			Name:      args[0],
			Category:  category,
			Headcount: headcount,
		})
		return err
	},
}

var capabilitySetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Set a capability's headcount or percentage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("headcount") && !flags.Changed("percentage") {
			return fmt.Errorf("nothing to set: pass --headcount and/or --percentage")
		}

		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		adapter := wire.CapabilityAdapter()

		if flags.Changed("headcount") {
			headcount, _ := flags.GetInt("headcount")
			if err := adapter.SetHeadcount(ctx, hub, args[0], headcount); err != nil {
				return err
			}
		}
		if flags.Changed("percentage") {
			percentage, _ := flags.GetFloat64("percentage")
			if err := adapter.SetPercentage(ctx, hub, args[0], percentage); err != nil {
				return err
			}
		}
		return nil
	},
}

var capabilityRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a capability from a hub",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		return wire.CapabilityAdapter().Remove(ctx, hub, args[0])
	},
}

// CapabilityCmd returns the capability command
func CapabilityCmd() *cobra.Command {
	for _, c := range []*cobra.Command{capabilityListCmd, capabilityAddCmd, capabilitySetCmd, capabilityRemoveCmd} {
		addHubFlag(c)
	}

	capabilityAddCmd.Flags().StringP("category", "c", "", "Capability category (MEDIA+, CONTENT+, CX+)")
	capabilityAddCmd.Flags().Int("headcount", 0, "Initial headcount")
	capabilityAddCmd.MarkFlagRequired("category")
	capabilitySetCmd.Flags().Int("headcount", 0, "Headcount")
	capabilitySetCmd.Flags().Float64("percentage", 0, "Share of the hub, 0-100")

	capabilityCmd.AddCommand(capabilityListCmd)
	capabilityCmd.AddCommand(capabilityAddCmd)
	capabilityCmd.AddCommand(capabilitySetCmd)
	capabilityCmd.AddCommand(capabilityRemoveCmd)

	return capabilityCmd
}
