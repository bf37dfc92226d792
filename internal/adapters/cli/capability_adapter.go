package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/hubledger/internal/ports/primary"
)

// CapabilityAdapter translates CLI operations to CapabilityService calls.
type CapabilityAdapter struct {
	service primary.CapabilityService
	out     io.Writer
}

// NewCapabilityAdapter creates a new CapabilityAdapter.
func NewCapabilityAdapter(service primary.CapabilityService, out io.Writer) *CapabilityAdapter {
	return &CapabilityAdapter{
		service: service,
		out:     out,
	}
}

// List lists the capabilities of a hub.
func (a *CapabilityAdapter) List(ctx context.Context, hubName string) ([]*primary.Capability, error) {
	caps, err := a.service.ListCapabilities(ctx, hubName)
	if err != nil {
		return nil, fmt.Errorf("failed to list capabilities: %w", err)
	}

	if len(caps) == 0 {
		fmt.Fprintf(a.out, "No capabilities found for %s.\n", hubName)
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Add one:")
		fmt.Fprintf(a.out, "  hubledger capability add %q SEO --category MEDIA+\n", hubName)
		return caps, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tCAPABILITY\tHEADCOUNT\tPERCENT\tUPDATED")
	fmt.Fprintln(w, "--------\t----------\t---------\t-------\t-------")
	for _, c := range caps {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			c.Category,
			c.Name,
			c.Headcount,
			formatPercent(c.Percentage),
			freshnessLabel(c.Freshness),
		)
	}
	w.Flush()
	return caps, nil
}

// Add adds a capability to a hub.
func (a *CapabilityAdapter) Add(ctx context.Context, req primary.AddCapabilityRequest) (*primary.Capability, error) {
	c, err := a.service.AddCapability(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Added %s (%s) to %s\n", c.Name, c.Category, req.HubName)
	return c, nil
}

// SetHeadcount updates the headcount of a capability.
func (a *CapabilityAdapter) SetHeadcount(ctx context.Context, hubName, name string, headcount int) error {
	if err := a.service.SetHeadcount(ctx, hubName, name, headcount); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s headcount set to %d\n", name, headcount)
	return nil
}

// SetPercentage updates the percentage of a capability.
func (a *CapabilityAdapter) SetPercentage(ctx context.Context, hubName, name string, percentage float64) error {
	if err := a.service.SetPercentage(ctx, hubName, name, percentage); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s percentage set to %s\n", name, formatPercent(percentage))
	return nil
}

// Remove removes a capability from a hub.
func (a *CapabilityAdapter) Remove(ctx context.Context, hubName, name string) error {
	if err := a.service.RemoveCapability(ctx, hubName, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Removed %s from %s\n", name, hubName)
	return nil
}
