// Package capability contains the pure business rules for hub capabilities.
// Guards are pure functions that evaluate preconditions without side effects.
package capability

import (
	"fmt"
	"strings"
)

// Capability categories.
const (
	CategoryMedia   = "MEDIA+"
	CategoryContent = "CONTENT+"
	CategoryCX      = "CX+"
)

// Categories lists the fixed category enumeration.
var Categories = []string{CategoryMedia, CategoryContent, CategoryCX}

// Entry is one row of the default capability taxonomy.
type Entry struct {
	Name     string
	Category string
}

// Taxonomy is the default capability catalogue.
var Taxonomy = []Entry{
	{"Ad Operations", CategoryMedia},
	{"Media Reporting", CategoryMedia},
	{"SEO", CategoryMedia},
	{"Media Activation", CategoryMedia},
	{"Retail Media", CategoryMedia},
	{"Paid Search", CategoryMedia},
	{"Commerce", CategoryMedia},
	{"Programmatic", CategoryMedia},
	{"Analytics & Insights", CategoryMedia},

	{"Language Services", CategoryContent},
	{"Post-production", CategoryContent},
	{"Transcreation", CategoryContent},
	{"Adaptation", CategoryContent},
	{"Content for Commerce", CategoryContent},

	{"Experience Platforms", CategoryCX},
	{"Commerce Platforms", CategoryCX},
	{"Marketing Automation", CategoryCX},
	{"Engineering Services", CategoryCX},
	{"Creative Technology", CategoryCX},
	{"CRM", CategoryCX},
	{"DevOps", CategoryCX},
	{"Quality Engineering", CategoryCX},
}

// InCategory returns the taxonomy entries of one category, in catalogue order.
func InCategory(category string) []Entry {
	var out []Entry
	for _, e := range Taxonomy {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// PrimaryCategory picks the category a hub is seeded with, based on its name.
func PrimaryCategory(hubName string) string {
	switch {
	case strings.Contains(hubName, "GroupM"):
		return CategoryMedia
	case strings.Contains(hubName, "Hogarth"):
		return CategoryContent
	default:
		return CategoryCX
	}
}

// IsCategory reports whether c is one of the fixed categories.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
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

// CreateCapabilityContext provides context for capability creation guards.
type CreateCapabilityContext struct {
	HubName    string
	Name       string
	Category   string
	Headcount  int
	NameExists bool // true if the hub already offers a capability with this name
}

// CanCreateCapability evaluates whether a capability can be added to a hub.
// Rules:
// - Name must not be empty
// - Category must be one of the fixed categories
// - Headcount must not be negative
// - (hub, name) must be unique
func CanCreateCapability(ctx CreateCapabilityContext) GuardResult {
	if strings.TrimSpace(ctx.Name) == "" {
		return GuardResult{Allowed: false, Reason: "service name cannot be empty"}
	}
	if !IsCategory(ctx.Category) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown capability category %q (expected one of %s)", ctx.Category, strings.Join(Categories, ", ")),
		}
	}
	if ctx.Headcount < 0 {
		return GuardResult{Allowed: false, Reason: "headcount cannot be negative"}
	}
	if ctx.NameExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("service '%s' already exists for %s", ctx.Name, ctx.HubName),
		}
	}
	return GuardResult{Allowed: true}
}

// CanSetHeadcount evaluates a headcount update.
func CanSetHeadcount(headcount int) GuardResult {
	if headcount < 0 {
		return GuardResult{Allowed: false, Reason: "headcount cannot be negative"}
	}
	return GuardResult{Allowed: true}
}

// CanSetPercentage evaluates a percentage update.
func CanSetPercentage(pct float64) GuardResult {
	if pct < 0 || pct > 100 {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("percentage %.2f must be between 0 and 100", pct)}
	}
	return GuardResult{Allowed: true}
}
