// Package people contains the pure business rules for people metrics.
package people

import (
	"fmt"
	"strings"

	"github.com/example/hubledger/internal/core/period"
)

// DefaultMetrics are the metric names a category starts with when a hub has
// no rows for it yet.
var DefaultMetrics = map[string][]string{
	period.CategoryEmploymentType: {"Permanent Employees", "Contract Employees"},
	period.CategoryGender:         {"Female", "Male", "Other Gender"},
	period.CategoryStaffing:       {"Bench Count"},
	period.CategoryMaritalStatus:  {"Single", "Married", "Other Marital Status"},
	period.CategoryTenure: {
		"Tenure <1 year", "Tenure 1-2 years", "Tenure 2-3 years", "Tenure 3-5 years",
		"Tenure 5-7 years", "Tenure 7-10 years", "Tenure 10+ years",
	},
	period.CategoryTurnover: {"Overall Turnover Rate", "Voluntary Turnover", "Involuntary Turnover"},
}

// DisplayName maps a category to the label shown to users.
func DisplayName(category string) string {
	if category == period.CategoryTurnover {
		return "Attrition"
	}
	return category
}

// FromDisplayName is the inverse of DisplayName.
func FromDisplayName(name string) string {
	if strings.EqualFold(name, "Attrition") {
		return period.CategoryTurnover
	}
	for _, c := range period.Categories {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	return name
}

// Listed reports whether a category appears in default listings.
func Listed(category string) bool {
	return category != period.CategoryHiring
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// WriteMetricContext carries one people-metric value to be written.
type WriteMetricContext struct {
	MetricName   string
	Category     string
	Period       string
	Value        float64
	HiringReason string
}

// CanWriteMetric evaluates whether a people-metric value may be written.
// Rules:
// - Metric name must not be empty
// - Category must be known
// - Period must match the category's format
// - Value must not be negative; Turnover values are percentages (<= 100)
// - Hiring reason is only meaningful for the Hiring category
func CanWriteMetric(ctx WriteMetricContext) GuardResult {
	if strings.TrimSpace(ctx.MetricName) == "" {
		return GuardResult{Allowed: false, Reason: "metric name cannot be empty"}
	}
	if !period.IsCategory(ctx.Category) {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown metric category %q", ctx.Category)}
	}
	if err := period.Validate(ctx.Category, ctx.Period); err != nil {
		return GuardResult{Allowed: false, Reason: err.Error()}
	}
	if ctx.Value < 0 {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("value for %s cannot be negative", ctx.MetricName)}
	}
	if ctx.Category == period.CategoryTurnover && ctx.Value > 100 {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("%s is a percentage and cannot exceed 100", ctx.MetricName)}
	}
	if ctx.HiringReason != "" && ctx.Category != period.CategoryHiring {
		return GuardResult{Allowed: false, Reason: "hiring reason is only allowed for Hiring metrics"}
	}
	return GuardResult{Allowed: true}
}
