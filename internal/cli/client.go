package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/wire"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage a hub's client relationships",
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a hub's clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		_, err = wire.ClientAdapter().List(ctx, hub)
		return err
	},
}

var clientAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a client to a hub",
	Long: `Add a client. The first --capability is the primary one.

Example:
  hubledger client add Acme --hub AKQA --status Active --model FTE \
    --category MEDIA+ --capability SEO --capability Analytics --employees 12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		req := primary.ClientRequest{HubName: hub, Name: args[0]}
		req.EngagementStatus, _ = flags.GetString("status")
		req.CommercialModel, _ = flags.GetString("model")
		applyClientFlags(flags, &req)

		_, err = wire.ClientAdapter().Add(ctx, req)
		return err
	},
}

var clientUpdateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Update a client",
	Long: `Update a client. Flags that are not given keep their current value;
--name renames the client.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}

		clients, err := wire.ClientService().ListClients(ctx, hub)
		if err != nil {
			return err
		}
		current := findClient(clients, args[0])
		if current == nil {
			return fmt.Errorf("client %q not found in %s", args[0], hub)
		}

		req := clientToRequest(hub, current)
		if cmd.Flags().Changed("name") {
			req.Name, _ = cmd.Flags().GetString("name")
		}
		applyClientFlags(cmd.Flags(), &req)

		_, err = wire.ClientAdapter().Update(ctx, current.Name, req)
		return err
	},
}

var clientRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a client from a hub",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		return wire.ClientAdapter().Remove(ctx, hub, args[0])
	},
}

// applyClientFlags copies the client flags that were set onto req.
func applyClientFlags(flags *pflag.FlagSet, req *primary.ClientRequest) {
	if flags.Changed("status") {
		req.EngagementStatus, _ = flags.GetString("status")
	}
	if flags.Changed("model") {
		req.CommercialModel, _ = flags.GetString("model")
	}
	if flags.Changed("category") {
		req.CapabilityCategory, _ = flags.GetString("category")
	}
	if flags.Changed("capability") {
		req.Capabilities, _ = flags.GetStringArray("capability")
	}
	if flags.Changed("years") {
		req.RelationshipDuration, _ = flags.GetFloat64("years")
	}
	if flags.Changed("scope") {
		req.ScopeSummary, _ = flags.GetString("scope")
	}
	if flags.Changed("employees") {
		req.EmployeeCount, _ = flags.GetInt("employees")
	}
}

func findClient(clients []*primary.Client, name string) *primary.Client {
	for _, c := range clients {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func clientToRequest(hub string, c *primary.Client) primary.ClientRequest {
	return primary.ClientRequest{
		HubName:              hub,
		Name:                 c.Name,
		EngagementStatus:     c.EngagementStatus,
		CommercialModel:      c.CommercialModel,
		CapabilityCategory:   c.CapabilityCategory,
		Capabilities:         append([]string(nil), c.Capabilities...),
		RelationshipDuration: c.RelationshipDuration,
		ScopeSummary:         c.ScopeSummary,
		EmployeeCount:        c.EmployeeCount,
	}
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "Active", "Engagement status (Active, Inactive, Pending, Completed)")
	cmd.Flags().String("model", "FTE", "Commercial model (FTE, Project-based, Retainer)")
	cmd.Flags().String("category", "", "Capability category (MEDIA+, CONTENT+, CX+)")
	cmd.Flags().StringArray("capability", nil, "Capability name; repeat for several, the first is primary")
	cmd.Flags().Float64("years", 0, "Relationship duration in years, e.g. 2.5")
	cmd.Flags().String("scope", "", "Scope summary")
	cmd.Flags().Int("employees", 0, "Employees assigned")
}

// ClientCmd returns the client command
func ClientCmd() *cobra.Command {
	for _, c := range []*cobra.Command{clientListCmd, clientAddCmd, clientUpdateCmd, clientRemoveCmd} {
		addHubFlag(c)
	}
	addClientFlags(clientAddCmd)
	addClientFlags(clientUpdateCmd)
	clientUpdateCmd.Flags().String("name", "", "New client name")

	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientUpdateCmd)
	clientCmd.AddCommand(clientRemoveCmd)

	return clientCmd
}
