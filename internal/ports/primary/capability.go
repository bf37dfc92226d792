package primary

import "context"

// CapabilityService defines the primary port for hub capabilities.
type CapabilityService interface {
	// ListCapabilities retrieves a hub's capabilities.
	ListCapabilities(ctx context.Context, hubName string) ([]*Capability, error)

	// AddCapability adds a service to a hub.
	AddCapability(ctx context.Context, req AddCapabilityRequest) (*Capability, error)

	// SetHeadcount updates the headcount of a capability.
	SetHeadcount(ctx context.Context, hubName, name string, headcount int) error

	// SetPercentage updates the percentage of a capability.
	SetPercentage(ctx context.Context, hubName, name string, percentage float64) error

	// RemoveCapability removes a service from a hub.
	RemoveCapability(ctx context.Context, hubName, name string) error
}

// AddCapabilityRequest contains parameters for adding a capability.
type AddCapabilityRequest struct {
	HubName   string
	Name      string
	Category  string
	Headcount int
}

// Capability represents a hub capability at the port boundary.
type Capability struct {
	ID         int64
	HubName    string
	Name       string
	Category   string
	Headcount  int
	Percentage float64
	UpdatedBy  string
	Freshness  Freshness
}
