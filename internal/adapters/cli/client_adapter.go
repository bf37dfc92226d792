package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/hubledger/internal/ports/primary"
)

// ClientAdapter translates CLI operations to ClientService calls.
type ClientAdapter struct {
	service primary.ClientService
	out     io.Writer
}

// NewClientAdapter creates a new ClientAdapter.
func NewClientAdapter(service primary.ClientService, out io.Writer) *ClientAdapter {
	return &ClientAdapter{
		service: service,
		out:     out,
	}
}

// List lists the clients of a hub.
func (a *ClientAdapter) List(ctx context.Context, hubName string) ([]*primary.Client, error) {
	clients, err := a.service.ListClients(ctx, hubName)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	if len(clients) == 0 {
		fmt.Fprintf(a.out, "No clients found for %s.\n", hubName)
		return clients, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CLIENT\tSTATUS\tMODEL\tPRIMARY\tCAPABILITIES\tEMPLOYEES\tYEARS\tUPDATED")
	fmt.Fprintln(w, "------\t------\t-----\t-------\t------------\t---------\t-----\t-------")
	for _, c := range clients {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.1f\t%s\n",
			c.Name,
			c.EngagementStatus,
			c.CommercialModel,
			orDash(c.PrimaryCapability),
			orDash(strings.Join(c.Capabilities, ", ")),
			c.EmployeeCount,
			c.RelationshipDuration,
			freshnessLabel(c.Freshness),
		)
	}
	w.Flush()
	return clients, nil
}

// Add adds a client to a hub.
func (a *ClientAdapter) Add(ctx context.Context, req primary.ClientRequest) (*primary.Client, error) {
	c, err := a.service.AddClient(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Added client %s to %s\n", c.Name, req.HubName)
	return c, nil
}

// Update rewrites a client.
func (a *ClientAdapter) Update(ctx context.Context, currentName string, req primary.ClientRequest) (*primary.Client, error) {
	c, err := a.service.UpdateClient(ctx, currentName, req)
	if err != nil {
		return nil, err
	}
	if c.Name != currentName {
		fmt.Fprintf(a.out, "✓ Updated client %s → %s\n", currentName, c.Name)
	} else {
		fmt.Fprintf(a.out, "✓ Updated client %s\n", c.Name)
	}
	return c, nil
}

// Remove removes a client from a hub.
func (a *ClientAdapter) Remove(ctx context.Context, hubName, name string) error {
	if err := a.service.RemoveClient(ctx, hubName, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Removed client %s from %s\n", name, hubName)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
