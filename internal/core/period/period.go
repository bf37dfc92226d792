// Package period owns the people-metric categories and the time-period
// string formats each of them uses.
package period

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// People-metric categories.
const (
	CategoryGender         = "Gender"
	CategoryStaffing       = "Staffing"
	CategoryEmploymentType = "Employment Type"
	CategoryTenure         = "Tenure"
	CategoryMaritalStatus  = "Marital Status"
	CategoryTurnover       = "Turnover"
	CategoryHiring         = "Hiring"
)

// Categories lists every known category in display order.
var Categories = []string{
	CategoryEmploymentType,
	CategoryGender,
	CategoryStaffing,
	CategoryTenure,
	CategoryMaritalStatus,
	CategoryTurnover,
	CategoryHiring,
}

const (
	monthYearLayout = "Jan 2006"
	yearLayout      = "2006"
)

// IsCategory reports whether c is a known category.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// YearOnly reports whether a category keys its metrics by year alone.
func YearOnly(category string) bool {
	return category == CategoryMaritalStatus || category == CategoryTenure
}

// Validate checks that p has the format required by category:
// "YYYY" for Marital Status and Tenure, "Mon YYYY" for everything else.
func Validate(category, p string) error {
	if YearOnly(category) {
		if len(p) != 4 {
			return fmt.Errorf("period %q for %s must be a four-digit year", p, category)
		}
		if _, err := strconv.Atoi(p); err != nil {
			return fmt.Errorf("period %q for %s must be a four-digit year", p, category)
		}
		return nil
	}
	if _, ok := ParseMonthYear(p); !ok {
		return fmt.Errorf("period %q for %s must look like \"Jan 2025\"", p, category)
	}
	return nil
}

// ParseMonthYear parses a "Mon YYYY" period.
func ParseMonthYear(p string) (time.Time, bool) {
	t, err := time.Parse(monthYearLayout, p)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Current returns the period containing now in the format category expects.
func Current(category string, now time.Time) string {
	if YearOnly(category) {
		return now.Format(yearLayout)
	}
	return now.Format(monthYearLayout)
}

// Latest returns the most recent period. Month-year periods rank above any
// period that does not parse as one; when none parse, the greatest string wins.
func Latest(periods []string) (string, bool) {
	if len(periods) == 0 {
		return "", false
	}

	var (
		best      string
		bestTime  time.Time
		haveParse bool
	)
	for _, p := range periods {
		t, ok := ParseMonthYear(p)
		if !ok {
			continue
		}
		if !haveParse || t.After(bestTime) {
			best, bestTime, haveParse = p, t, true
		}
	}
	if haveParse {
		return best, true
	}

	sorted := append([]string(nil), periods...)
	sort.Strings(sorted)
	return sorted[len(sorted)-1], true
}

// SortNewestFirst orders periods newest first using the same ranking as Latest.
func SortNewestFirst(periods []string) []string {
	out := append([]string(nil), periods...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, oki := ParseMonthYear(out[i])
		tj, okj := ParseMonthYear(out[j])
		switch {
		case oki && okj:
			return ti.After(tj)
		case oki != okj:
			return oki
		default:
			return out[i] > out[j]
		}
	})
	return out
}
