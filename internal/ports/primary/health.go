package primary

import "context"

// HealthService defines the primary port for data-health monitoring.
type HealthService interface {
	// CheckHealth scores how current each visible hub's data is,
	// healthiest first.
	CheckHealth(ctx context.Context) ([]*HubHealth, error)
}

// HubHealth is the freshness of each data category of one hub.
type HubHealth struct {
	HubName      string
	Metrics      Freshness
	Capabilities Freshness
	Clients      Freshness
	People       Freshness
	Outdated     int
	Score        int
}
