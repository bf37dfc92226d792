package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/hubledger/internal/ports/primary"
)

// PeopleAdapter translates CLI operations to PeopleService calls.
type PeopleAdapter struct {
	service primary.PeopleService
	out     io.Writer
}

// NewPeopleAdapter creates a new PeopleAdapter.
func NewPeopleAdapter(service primary.PeopleService, out io.Writer) *PeopleAdapter {
	return &PeopleAdapter{
		service: service,
		out:     out,
	}
}

// List lists people metrics, optionally for one category.
func (a *PeopleAdapter) List(ctx context.Context, hubName, category string) ([]*primary.PeopleMetric, error) {
	metrics, err := a.service.ListMetrics(ctx, hubName, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list people metrics: %w", err)
	}

	if len(metrics) == 0 {
		fmt.Fprintf(a.out, "No people metrics found for %s.\n", hubName)
		return metrics, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tPERIOD\tMETRIC\tREASON\tVALUE\tUPDATED")
	fmt.Fprintln(w, "--\t--------\t------\t------\t------\t-----\t-------")
	for _, m := range metrics {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%g\t%s\n",
			m.ID,
			m.DisplayCategory,
			m.Period,
			m.Name,
			orDash(m.HiringReason),
			m.Value,
			freshnessLabel(m.Freshness),
		)
	}
	w.Flush()
	return metrics, nil
}

// Save upserts a set of values for one category and period.
func (a *PeopleAdapter) Save(ctx context.Context, req primary.SaveMetricsRequest) (*primary.SaveMetricsResponse, error) {
	resp, err := a.service.SaveMetrics(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Saved %d %s values for %s\n", resp.Saved, req.Category, req.Period)
	a.printReconciled(resp)
	return resp, nil
}

// Gender saves gender counts.
func (a *PeopleAdapter) Gender(ctx context.Context, req primary.SaveGenderRequest) (*primary.SaveMetricsResponse, error) {
	resp, err := a.service.SaveGender(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Saved gender counts for %s\n", req.Period)
	a.printReconciled(resp)
	return resp, nil
}

// Bench saves the bench count.
func (a *PeopleAdapter) Bench(ctx context.Context, req primary.SaveStaffingRequest) (*primary.SaveMetricsResponse, error) {
	resp, err := a.service.SaveStaffing(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Saved bench count for %s\n", req.Period)
	a.printReconciled(resp)
	return resp, nil
}

// AddPeriod creates placeholder rows for a new period.
func (a *PeopleAdapter) AddPeriod(ctx context.Context, req primary.AddPeriodRequest) (*primary.AddPeriodResponse, error) {
	resp, err := a.service.AddPeriod(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Added %s period %s: %d created, %d already present\n",
		req.Category, req.Period, resp.Created, resp.Skipped)
	return resp, nil
}

// Edit sets the value of one stored row.
func (a *PeopleAdapter) Edit(ctx context.Context, hubName string, id int64, value float64) error {
	if err := a.service.UpdateMetric(ctx, hubName, id, value); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Metric %d set to %g\n", id, value)
	return nil
}

// Remove deletes one stored row.
func (a *PeopleAdapter) Remove(ctx context.Context, hubName string, id int64) error {
	if err := a.service.DeleteMetric(ctx, hubName, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Metric %d removed\n", id)
	return nil
}

func (a *PeopleAdapter) printReconciled(resp *primary.SaveMetricsResponse) {
	if g := resp.Gender; g != nil {
		fmt.Fprintf(a.out, "  Gender (%s): F %s / M %s / O %s\n",
			g.Period, formatPercent(g.Female), formatPercent(g.Male), formatPercent(g.Other))
	}
	if resp.BenchCount != nil {
		fmt.Fprintf(a.out, "  Bench count: %d\n", *resp.BenchCount)
	}
	if agg := resp.Aggregates; agg != nil {
		fmt.Fprintf(a.out, "  Headcount: %d\n", agg.TotalHeadcount)
		if agg.Warning != "" {
			fmt.Fprintln(a.out, "  "+warningText(agg.Warning))
		}
	}
}
