// Package hubmetrics contains the pure business rules for a hub's core metrics row.
package hubmetrics

import (
	"fmt"
	"regexp"
	"strconv"
)

// Campus types.
const (
	CampusIn      = "In-Campus"
	CampusOutside = "Outside-Campus"
)

// Yes/No values used by SEZ status and transport facilities.
const (
	Yes = "Yes"
	No  = "No"
)

var coveragePattern = regexp.MustCompile(`^(\d{1,2})x(\d)$`)

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

// FacilitiesContext carries the user-editable core metrics.
type FacilitiesContext struct {
	TotalSeats          int
	CampusType          string
	SEZStatus           string
	CoverageHours       string
	TransportFacilities string
}

// CanUpdateFacilities evaluates an edit of the core metrics group.
// Rules:
// - Seats must not be negative
// - Campus type must be In-Campus or Outside-Campus
// - SEZ status and transport must be Yes or No
// - Coverage must look like HxD with 1-24 hours and 1-7 days
func CanUpdateFacilities(ctx FacilitiesContext) GuardResult {
	if ctx.TotalSeats < 0 {
		return GuardResult{Allowed: false, Reason: "total seats cannot be negative"}
	}
	if ctx.CampusType != CampusIn && ctx.CampusType != CampusOutside {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("campus type must be %s or %s, got %q", CampusIn, CampusOutside, ctx.CampusType),
		}
	}
	if !isYesNo(ctx.SEZStatus) {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("SEZ status must be Yes or No, got %q", ctx.SEZStatus)}
	}
	if !isYesNo(ctx.TransportFacilities) {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("transport facilities must be Yes or No, got %q", ctx.TransportFacilities)}
	}
	if err := ValidateCoverage(ctx.CoverageHours); err != nil {
		return GuardResult{Allowed: false, Reason: err.Error()}
	}
	return GuardResult{Allowed: true}
}

// ValidateCoverage checks an "HxD" coverage string such as "24x5".
func ValidateCoverage(s string) error {
	m := coveragePattern.FindStringSubmatch(s)
	if m == nil {
		return fmt.Errorf("coverage hours %q must look like 24x5", s)
	}
	hours, _ := strconv.Atoi(m[1])
	days, _ := strconv.Atoi(m[2])
	if hours < 1 || hours > 24 {
		return fmt.Errorf("coverage hours %q must have between 1 and 24 hours", s)
	}
	if days < 1 || days > 7 {
		return fmt.Errorf("coverage hours %q must have between 1 and 7 days", s)
	}
	return nil
}

// FormatCoverage renders hours and days as "HxD".
func FormatCoverage(hours, days int) string {
	return fmt.Sprintf("%dx%d", hours, days)
}

func isYesNo(s string) bool {
	return s == Yes || s == No
}
