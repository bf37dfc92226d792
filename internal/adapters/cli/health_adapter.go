package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/hubledger/internal/ports/primary"
)

// HealthAdapter translates CLI operations to HealthService calls.
type HealthAdapter struct {
	service primary.HealthService
	out     io.Writer
}

// NewHealthAdapter creates a new HealthAdapter.
func NewHealthAdapter(service primary.HealthService, out io.Writer) *HealthAdapter {
	return &HealthAdapter{
		service: service,
		out:     out,
	}
}

// Check prints the data-health table.
func (a *HealthAdapter) Check(ctx context.Context) ([]*primary.HubHealth, error) {
	report, err := a.service.CheckHealth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check data health: %w", err)
	}

	if len(report) == 0 {
		fmt.Fprintln(a.out, "No hubs to check.")
		return report, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "HUB\tSCORE\tMETRICS\tCAPABILITIES\tCLIENTS\tPEOPLE")
	fmt.Fprintln(w, "---\t-----\t-------\t------------\t-------\t------")
	for _, h := range report {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			h.HubName,
			scoreLabel(h.Score),
			statusLabel(h.Metrics),
			statusLabel(h.Capabilities),
			statusLabel(h.Clients),
			statusLabel(h.People),
		)
	}
	w.Flush()
	return report, nil
}

func scoreLabel(score int) string {
	c := color.New(color.FgGreen)
	switch {
	case score < 50:
		c = color.New(color.FgRed)
	case score < 100:
		c = color.New(color.FgYellow)
	}
	return c.Sprintf("%d%%", score)
}
