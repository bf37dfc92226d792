package primary

import "context"

// HubMetricsService defines the primary port for a hub's core metrics.
type HubMetricsService interface {
	// ListHubs returns the hubs visible to the session.
	ListHubs(ctx context.Context) ([]*Hub, error)

	// GetHubMetrics returns the stored metrics, reconciled aggregates and
	// per-group freshness of a hub.
	GetHubMetrics(ctx context.Context, hubName string) (*HubMetrics, error)

	// UpdateFacilities saves the core metrics group.
	UpdateFacilities(ctx context.Context, req UpdateFacilitiesRequest) error

	// UpdateLocations saves location text and per-location headcounts.
	// A headcount mismatch is returned as a warning, never as an error.
	UpdateLocations(ctx context.Context, req UpdateLocationsRequest) (*UpdateLocationsResponse, error)

	// UpdateCertifications saves certification counts.
	UpdateCertifications(ctx context.Context, req UpdateCertificationsRequest) error
}

// Hub represents a hub at the port boundary.
type Hub struct {
	ID        int64
	Name      string
	CreatedAt string
}

// HubMetrics is the full view of a hub's metrics.
// TotalHeadcount, TotalClients and ServicesOffered are reconciled values;
// the Stored* fields are the persisted copies, which may lag.
type HubMetrics struct {
	HubName             string
	TotalHeadcount      int
	HeadcountPeriod     string
	TotalSeats          int
	TotalClients        int
	ServicesOffered     int
	StoredHeadcount     int
	StoredClients       int
	StoredServices      int
	FemalePercent       float64
	MalePercent         float64
	OtherGenderPercent  float64
	CampusType          string
	SEZStatus           string
	Location            string
	CoverageHours       string
	TransportFacilities string
	BenchCount          int
	LocationHeadcounts  map[string]int
	Certifications      map[string]int
	LocationWarning     string
	UpdatedAt           string
	UpdatedBy           string
	Metrics             Freshness
	Locations           Freshness
	CertificationsAge   Freshness
}

// UpdateFacilitiesRequest contains the core metrics group.
type UpdateFacilitiesRequest struct {
	HubName             string
	TotalSeats          int
	CampusType          string
	SEZStatus           string
	CoverageHours       string
	TransportFacilities string
}

// UpdateLocationsRequest contains location data for a hub.
type UpdateLocationsRequest struct {
	HubName            string
	Location           string
	LocationHeadcounts map[string]int
}

// UpdateLocationsResponse carries the soft location check.
type UpdateLocationsResponse struct {
	LocationSum    int
	TotalHeadcount int
	Warning        string
}

// UpdateCertificationsRequest contains certification counts for a hub.
type UpdateCertificationsRequest struct {
	HubName        string
	Certifications map[string]int
}
