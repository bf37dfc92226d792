package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fatih/color"

	"github.com/example/hubledger/internal/core/freshness"
	"github.com/example/hubledger/internal/ports/primary"
)

// freshnessLabel colors a freshness label by tier.
func freshnessLabel(f primary.Freshness) string {
	return tierColor(f.Tier).Sprint(f.Label)
}

// statusLabel colors a Current/Outdated status by tier.
func statusLabel(f primary.Freshness) string {
	return tierColor(f.Tier).Sprint(f.Status)
}

func tierColor(tier string) *color.Color {
	switch freshness.Tier(tier) {
	case freshness.TierFresh:
		return color.New(color.FgGreen)
	case freshness.TierWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func warningText(msg string) string {
	return color.New(color.FgYellow).Sprint("⚠ " + msg)
}

// formatCounts renders a count map as "a=1, b=2" in key order.
func formatCounts(m map[string]int) string {
	if len(m) == 0 {
		return "(none)"
	}
	out := ""
	for i, k := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", k, m[k])
	}
	return out
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
