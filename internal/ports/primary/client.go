package primary

import "context"

// ClientService defines the primary port for client relationships.
type ClientService interface {
	// ListClients retrieves a hub's clients.
	ListClients(ctx context.Context, hubName string) ([]*Client, error)

	// AddClient adds a client to a hub.
	AddClient(ctx context.Context, req ClientRequest) (*Client, error)

	// UpdateClient rewrites the client currently named currentName.
	UpdateClient(ctx context.Context, currentName string, req ClientRequest) (*Client, error)

	// RemoveClient removes a client from a hub.
	RemoveClient(ctx context.Context, hubName, name string) error
}

// ClientRequest contains the editable fields of a client.
type ClientRequest struct {
	HubName              string
	Name                 string
	EngagementStatus     string
	CommercialModel      string
	CapabilityCategory   string
	Capabilities         []string
	RelationshipDuration float64
	ScopeSummary         string
	EmployeeCount        int
}

// Client represents a client at the port boundary.
type Client struct {
	ID                   int64
	HubName              string
	Name                 string
	EngagementStatus     string
	CommercialModel      string
	CapabilityCategory   string
	Capabilities         []string
	PrimaryCapability    string
	RelationshipDuration float64
	ScopeSummary         string
	EmployeeCount        int
	UpdatedBy            string
	Freshness            Freshness
}
