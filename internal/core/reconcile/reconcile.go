// Package reconcile derives hub aggregates from the authoritative child rows.
// Stored aggregates are treated as caches; these functions decide their
// correct values. All functions are pure.
package reconcile

import (
	"fmt"

	"github.com/example/hubledger/internal/core/period"
)

// Metric names the reconciler reads.
const (
	MetricPermanent   = "Permanent Employees"
	MetricContract    = "Contract Employees"
	MetricFemale      = "Female"
	MetricMale        = "Male"
	MetricOtherGender = "Other Gender"
	MetricBenchCount  = "Bench Count"
)

// Point is one people-metric value.
type Point struct {
	Name     string
	Category string
	Period   string
	Value    float64
}

// Headcount is the reconciled total headcount and where it came from.
type Headcount struct {
	Total     int
	Period    string
	Permanent float64
	Contract  float64
}

// Percentages is a gender distribution in percent.
type Percentages struct {
	Female float64
	Male   float64
	Other  float64
}

// Warning is a soft inconsistency that is reported, never enforced.
type Warning struct {
	Message string
}

// TotalHeadcount sums permanent and contract employees for the latest
// Employment Type period. Without Employment Type data the total is 0.
func TotalHeadcount(points []Point) Headcount {
	latest, ok := latestPeriod(points, period.CategoryEmploymentType)
	if !ok {
		return Headcount{}
	}

	hc := Headcount{Period: latest}
	for _, p := range points {
		if p.Category != period.CategoryEmploymentType || p.Period != latest {
			continue
		}
		switch p.Name {
		case MetricPermanent:
			hc.Permanent = p.Value
		case MetricContract:
			hc.Contract = p.Value
		}
	}
	hc.Total = int(hc.Permanent + hc.Contract)
	return hc
}

// GenderSplit converts raw counts to percentages. A zero total yields 0% for
// every bucket.
func GenderSplit(female, male, other float64) Percentages {
	total := female + male + other
	if total <= 0 {
		return Percentages{}
	}
	return Percentages{
		Female: female / total * 100,
		Male:   male / total * 100,
		Other:  other / total * 100,
	}
}

// LatestGender returns the percentages for the newest Gender period.
// ok is false when no Gender data exists.
func LatestGender(points []Point) (Percentages, string, bool) {
	latest, ok := latestPeriod(points, period.CategoryGender)
	if !ok {
		return Percentages{}, "", false
	}

	var female, male, other float64
	for _, p := range points {
		if p.Category != period.CategoryGender || p.Period != latest {
			continue
		}
		switch p.Name {
		case MetricFemale:
			female = p.Value
		case MetricMale:
			male = p.Value
		case MetricOtherGender:
			other = p.Value
		}
	}
	return GenderSplit(female, male, other), latest, true
}

// LatestBench returns the Bench Count for the newest Staffing period.
func LatestBench(points []Point) (int, string, bool) {
	latest, ok := latestPeriod(points, period.CategoryStaffing)
	if !ok {
		return 0, "", false
	}
	for _, p := range points {
		if p.Category == period.CategoryStaffing && p.Period == latest && p.Name == MetricBenchCount {
			return int(p.Value), latest, true
		}
	}
	return 0, latest, true
}

// CheckLocations compares the per-location headcounts with the reconciled
// total. The two may diverge; a mismatch is only a warning, and only when
// a total is known.
func CheckLocations(locationSum, total int) *Warning {
	if total <= 0 || locationSum == total {
		return nil
	}
	return &Warning{
		Message: fmt.Sprintf("sum of location headcounts (%d) does not match total headcount (%d)", locationSum, total),
	}
}

func latestPeriod(points []Point, category string) (string, bool) {
	seen := map[string]bool{}
	var periods []string
	for _, p := range points {
		if p.Category != category || seen[p.Period] {
			continue
		}
		seen[p.Period] = true
		periods = append(periods, p.Period)
	}
	return period.Latest(periods)
}
