package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/hubledger/internal/ports/primary"
)

// MetricsAdapter translates CLI operations to HubMetricsService and
// ReconcileService calls.
type MetricsAdapter struct {
	service    primary.HubMetricsService
	reconciler primary.ReconcileService
	out        io.Writer
}

// NewMetricsAdapter creates a new MetricsAdapter.
func NewMetricsAdapter(service primary.HubMetricsService, reconciler primary.ReconcileService, out io.Writer) *MetricsAdapter {
	return &MetricsAdapter{
		service:    service,
		reconciler: reconciler,
		out:        out,
	}
}

// Hubs lists the hubs visible to the session.
func (a *MetricsAdapter) Hubs(ctx context.Context) ([]*primary.Hub, error) {
	hubs, err := a.service.ListHubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hubs: %w", err)
	}

	if len(hubs) == 0 {
		fmt.Fprintln(a.out, "No hubs found.")
		return hubs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tHUB\tCREATED")
	fmt.Fprintln(w, "--\t---\t-------")
	for _, hub := range hubs {
		fmt.Fprintf(w, "%d\t%s\t%s\n", hub.ID, hub.Name, hub.CreatedAt)
	}
	w.Flush()
	return hubs, nil
}

// Show displays the metrics of a hub.
func (a *MetricsAdapter) Show(ctx context.Context, hubName string) (*primary.HubMetrics, error) {
	m, err := a.service.GetHubMetrics(ctx, hubName)
	if err != nil {
		return nil, fmt.Errorf("failed to get hub metrics: %w", err)
	}

	headcount := fmt.Sprintf("%d", m.TotalHeadcount)
	if m.HeadcountPeriod != "" {
		headcount += fmt.Sprintf(" (%s)", m.HeadcountPeriod)
	}

	fmt.Fprintf(a.out, "\nHub: %s\n", m.HubName)
	fmt.Fprintf(a.out, "Headcount:      %s\n", headcount)
	fmt.Fprintf(a.out, "Seats:          %d\n", m.TotalSeats)
	fmt.Fprintf(a.out, "Clients:        %d\n", m.TotalClients)
	fmt.Fprintf(a.out, "Services:       %d\n", m.ServicesOffered)
	fmt.Fprintf(a.out, "Bench:          %d\n", m.BenchCount)
	fmt.Fprintf(a.out, "Gender:         F %s / M %s / O %s\n",
		formatPercent(m.FemalePercent), formatPercent(m.MalePercent), formatPercent(m.OtherGenderPercent))
	fmt.Fprintf(a.out, "Campus:         %s\n", m.CampusType)
	fmt.Fprintf(a.out, "SEZ:            %s\n", m.SEZStatus)
	fmt.Fprintf(a.out, "Coverage:       %s\n", m.CoverageHours)
	fmt.Fprintf(a.out, "Transport:      %s\n", m.TransportFacilities)
	fmt.Fprintf(a.out, "Location:       %s\n", m.Location)
	fmt.Fprintf(a.out, "Locations:      %s\n", formatCounts(m.LocationHeadcounts))
	fmt.Fprintf(a.out, "Certifications: %s\n", formatCounts(m.Certifications))
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Metrics updated:        %s\n", freshnessLabel(m.Metrics))
	fmt.Fprintf(a.out, "Locations updated:      %s\n", freshnessLabel(m.Locations))
	fmt.Fprintf(a.out, "Certifications updated: %s\n", freshnessLabel(m.CertificationsAge))
	if m.UpdatedBy != "" {
		fmt.Fprintf(a.out, "Last edited by:         %s\n", m.UpdatedBy)
	}
	if m.LocationWarning != "" {
		fmt.Fprintln(a.out, warningText(m.LocationWarning))
	}
	fmt.Fprintln(a.out)

	return m, nil
}

// SetFacilities saves the core metrics group.
func (a *MetricsAdapter) SetFacilities(ctx context.Context, req primary.UpdateFacilitiesRequest) error {
	if err := a.service.UpdateFacilities(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Metrics updated for %s\n", req.HubName)
	return nil
}

// SetLocations saves location data and prints the soft headcount check.
func (a *MetricsAdapter) SetLocations(ctx context.Context, req primary.UpdateLocationsRequest) (*primary.UpdateLocationsResponse, error) {
	resp, err := a.service.UpdateLocations(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Locations updated for %s\n", req.HubName)
	fmt.Fprintf(a.out, "  Location total: %d / headcount %d\n", resp.LocationSum, resp.TotalHeadcount)
	if resp.Warning != "" {
		fmt.Fprintln(a.out, warningText(resp.Warning))
	}
	return resp, nil
}

// SetCertifications saves certification counts.
func (a *MetricsAdapter) SetCertifications(ctx context.Context, req primary.UpdateCertificationsRequest) error {
	if err := a.service.UpdateCertifications(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Certifications updated for %s\n", req.HubName)
	return nil
}

// Reconcile shows derived aggregates next to stored ones. With persist the
// derived values are written back.
func (a *MetricsAdapter) Reconcile(ctx context.Context, hubName string, persist bool) (*primary.Aggregates, error) {
	var (
		agg *primary.Aggregates
		err error
	)
	if persist {
		agg, err = a.reconciler.Persist(ctx, hubName)
	} else {
		agg, err = a.reconciler.Reconcile(ctx, hubName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "AGGREGATE\tDERIVED\tSTORED")
	fmt.Fprintln(w, "---------\t-------\t------")
	fmt.Fprintf(w, "headcount\t%d\t%d\n", agg.TotalHeadcount, agg.StoredHeadcount)
	fmt.Fprintf(w, "clients\t%d\t%d\n", agg.TotalClients, agg.StoredClients)
	fmt.Fprintf(w, "services\t%d\t%d\n", agg.ServicesOffered, agg.StoredServices)
	w.Flush()

	if agg.HeadcountPeriod != "" {
		fmt.Fprintf(a.out, "Headcount period: %s (permanent %.0f, contract %.0f)\n",
			agg.HeadcountPeriod, agg.Permanent, agg.Contract)
	}
	if agg.Warning != "" {
		fmt.Fprintln(a.out, warningText(agg.Warning))
	}

	switch {
	case persist:
		fmt.Fprintf(a.out, "✓ Aggregates written for %s\n", agg.HubName)
	case agg.Drifted():
		fmt.Fprintln(a.out, "Stored aggregates are out of date. Run with --write to persist.")
	}
	return agg, nil
}
