// Package client contains the pure business rules for client relationships.
package client

import (
	"fmt"
	"strings"
)

// Engagement statuses.
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Commercial models.
const (
	ModelFTE          = "FTE"
	ModelProjectBased = "Project-based"
	ModelRetainer     = "Retainer"
)

// EngagementStatuses lists the allowed engagement statuses.
var EngagementStatuses = []string{StatusActive, StatusInactive, StatusPending, StatusCompleted}

// CommercialModels lists the allowed commercial models.
var CommercialModels = []string{ModelFTE, ModelProjectBased, ModelRetainer}

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

// WriteClientContext carries the fields a client create or update would write.
type WriteClientContext struct {
	HubName              string
	ClientName           string
	EngagementStatus     string
	CommercialModel      string
	CapabilityCategory   string
	KnownCategory        func(string) bool
	RelationshipDuration float64
	EmployeeCount        int
	NameExists           bool // only meaningful on create
}

// CanWriteClient evaluates whether a client row may be written.
// Rules:
// - Client name must not be empty
// - Engagement status and commercial model must be known values
// - Capability category, when set, must be known
// - Duration and employee count must not be negative
// - (hub, client name) must be unique
func CanWriteClient(ctx WriteClientContext) GuardResult {
	if strings.TrimSpace(ctx.ClientName) == "" {
		return GuardResult{Allowed: false, Reason: "client name cannot be empty"}
	}
	if !contains(EngagementStatuses, ctx.EngagementStatus) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown engagement status %q (expected one of %s)", ctx.EngagementStatus, strings.Join(EngagementStatuses, ", ")),
		}
	}
	if !contains(CommercialModels, ctx.CommercialModel) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown commercial model %q (expected one of %s)", ctx.CommercialModel, strings.Join(CommercialModels, ", ")),
		}
	}
	if ctx.CapabilityCategory != "" && ctx.KnownCategory != nil && !ctx.KnownCategory(ctx.CapabilityCategory) {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown capability category %q", ctx.CapabilityCategory)}
	}
	if ctx.RelationshipDuration < 0 {
		return GuardResult{Allowed: false, Reason: "relationship duration cannot be negative"}
	}
	if ctx.EmployeeCount < 0 {
		return GuardResult{Allowed: false, Reason: "employee count cannot be negative"}
	}
	if ctx.NameExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client '%s' already exists for %s", ctx.ClientName, ctx.HubName),
		}
	}
	return GuardResult{Allowed: true}
}

func contains(values []string, v string) bool {
	for _, known := range values {
		if known == v {
			return true
		}
	}
	return false
}
