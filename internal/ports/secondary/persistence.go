// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/hubledger/internal/core/codec"
)

// HubRecord represents a hub as stored in persistence.
type HubRecord struct {
	ID        int64
	Name      string
	CreatedAt string
	UpdatedAt string
}

// HubRepository defines the secondary port for hub persistence.
type HubRepository interface {
	// List retrieves all hubs ordered by name.
	List(ctx context.Context) ([]*HubRecord, error)

	// GetByName retrieves a hub by name. Missing hubs are errs.ErrNotFound.
	GetByName(ctx context.Context, name string) (*HubRecord, error)

	// Create persists a new hub together with an empty metrics row.
	Create(ctx context.Context, name string) (*HubRecord, error)
}

// HubMetricsRecord represents a hub's core metrics row.
// Aggregate fields (TotalHeadcount, TotalClients, ServicesOffered) are
// caches and may lag the child tables.
type HubMetricsRecord struct {
	ID                      int64
	HubID                   int64
	HubName                 string
	TotalHeadcount          int
	TotalSeats              int
	TotalClients            int
	ServicesOffered         int
	FemalePercent           float64
	MalePercent             float64
	OtherGenderPercent      float64
	CampusType              string
	SEZStatus               string
	Location                string
	CoverageHours           string
	TransportFacilities     string
	BenchCount              int
	LocationHeadcounts      codec.CountMap
	Certifications          codec.CountMap
	UpdatedAt               string
	UpdatedBy               string
	MetricsUpdatedAt        string
	LocationUpdatedAt       string
	CertificationsUpdatedAt string
}

// CoreMetricsUpdate carries the user-editable core metrics group.
type CoreMetricsUpdate struct {
	TotalSeats          int
	CampusType          string
	SEZStatus           string
	CoverageHours       string
	TransportFacilities string
}

// AggregateValues are the reconciled aggregates written back to hub_metrics.
type AggregateValues struct {
	TotalHeadcount  int
	TotalClients    int
	ServicesOffered int
}

// HubMetricsRepository defines the secondary port for hub metrics persistence.
// Every write stamps updated_at and updated_by; only the group-specific
// methods touch their category timestamp.
type HubMetricsRepository interface {
	// GetByHub retrieves the metrics row of a hub.
	GetByHub(ctx context.Context, hubID int64) (*HubMetricsRecord, error)

	// ListAll retrieves every hub's metrics row ordered by hub name.
	ListAll(ctx context.Context) ([]*HubMetricsRecord, error)

	// UpdateCore writes the core group and aggregates, stamping metrics_updated_at.
	UpdateCore(ctx context.Context, hubID int64, core CoreMetricsUpdate, agg AggregateValues) error

	// UpdateLocations writes the location text and per-location headcounts,
	// stamping location_updated_at.
	UpdateLocations(ctx context.Context, hubID int64, location string, counts codec.CountMap) error

	// UpdateCertifications writes certification counts, stamping certifications_updated_at.
	UpdateCertifications(ctx context.Context, hubID int64, certs codec.CountMap) error

	// UpdateAggregates writes reconciled aggregates without touching any category timestamp.
	UpdateAggregates(ctx context.Context, hubID int64, agg AggregateValues) error

	// UpdateGender overwrites the stored gender percentages.
	UpdateGender(ctx context.Context, hubID int64, female, male, other float64) error

	// UpdateBench overwrites the stored bench count.
	UpdateBench(ctx context.Context, hubID int64, bench int) error
}

// CapabilityRecord represents one service a hub offers.
type CapabilityRecord struct {
	ID                  int64
	HubID               int64
	Name                string
	Category            string
	Headcount           int
	Percentage          float64
	UpdatedAt           string
	UpdatedBy           string
	CapabilityUpdatedAt string
}

// CapabilityRepository defines the secondary port for capability persistence.
type CapabilityRepository interface {
	// List retrieves a hub's capabilities ordered by category then name.
	List(ctx context.Context, hubID int64) ([]*CapabilityRecord, error)

	// GetByName retrieves one capability of a hub.
	GetByName(ctx context.Context, hubID int64, name string) (*CapabilityRecord, error)

	// Create persists a new capability. A duplicate (hub, name) is errs.ErrConflict.
	Create(ctx context.Context, capability *CapabilityRecord) error

	// UpdateHeadcount sets the headcount of one capability.
	UpdateHeadcount(ctx context.Context, hubID int64, name string, headcount int) error

	// UpdatePercentage sets the percentage of one capability.
	UpdatePercentage(ctx context.Context, hubID int64, name string, percentage float64) error

	// Delete removes one capability.
	Delete(ctx context.Context, hubID int64, name string) error

	// Count returns the number of capabilities of a hub.
	Count(ctx context.Context, hubID int64) (int, error)
}

// ClientRecord represents a client relationship of a hub.
// Capabilities is decoded from its stored JSON list; index 0 is primary.
type ClientRecord struct {
	ID                   int64
	HubID                int64
	Name                 string
	EngagementStatus     string
	CommercialModel      string
	CapabilityCategory   string
	Capabilities         []string
	RelationshipDuration float64
	ScopeSummary         string
	EmployeeCount        int
	UpdatedAt            string
	UpdatedBy            string
	ClientUpdatedAt      string
}

// ClientRepository defines the secondary port for client persistence.
type ClientRepository interface {
	// List retrieves a hub's clients ordered by name.
	List(ctx context.Context, hubID int64) ([]*ClientRecord, error)

	// GetByName retrieves one client of a hub.
	GetByName(ctx context.Context, hubID int64, name string) (*ClientRecord, error)

	// Create persists a new client. A duplicate (hub, name) is errs.ErrConflict.
	Create(ctx context.Context, client *ClientRecord) error

	// Update rewrites an existing client identified by ID.
	Update(ctx context.Context, client *ClientRecord) error

	// Delete removes one client.
	Delete(ctx context.Context, hubID int64, name string) error

	// Count returns the number of clients of a hub.
	Count(ctx context.Context, hubID int64) (int, error)
}

// PeopleMetricRecord represents one people-analytics value.
type PeopleMetricRecord struct {
	ID                    int64
	HubID                 int64
	Name                  string
	Value                 float64
	Category              string
	Period                string
	HiringReason          string
	UpdatedAt             string
	UpdatedBy             string
	PeopleMetricUpdatedAt string
	DateCreated           string
}

// PeopleMetricRepository defines the secondary port for people metric persistence.
type PeopleMetricRepository interface {
	// List retrieves a hub's metrics; an empty category returns all of them.
	List(ctx context.Context, hubID int64, category string) ([]*PeopleMetricRecord, error)

	// Upsert inserts each metric or updates the value of the existing row
	// with the same (hub, name, period, hiring reason). The metrics are
	// written in one transaction: either all of them are saved or none.
	Upsert(ctx context.Context, metrics ...*PeopleMetricRecord) error

	// InsertIfAbsent inserts a metric unless its key already exists.
	// Returns true when a row was inserted.
	InsertIfAbsent(ctx context.Context, metric *PeopleMetricRecord) (bool, error)

	// UpdateValue sets the value of one metric row.
	UpdateValue(ctx context.Context, id int64, value float64) error

	// Delete removes one metric row.
	Delete(ctx context.Context, id int64) error
}

// UserRecord represents a login account.
type UserRecord struct {
	ID           int64
	Username     string
	PasswordHash string
	HubName      string
	IsAdmin      bool
	CreatedAt    string
}

// UserRepository defines the secondary port for user persistence.
type UserRepository interface {
	// GetByUsername retrieves a user. Missing users are errs.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)

	// List retrieves all users ordered by username.
	List(ctx context.Context) ([]*UserRecord, error)

	// Create persists a new user. A duplicate username is errs.ErrConflict.
	Create(ctx context.Context, user *UserRecord) error
}

// HealthRecord holds the latest update time of each data category of a hub.
// Empty strings mean the category has no rows.
type HealthRecord struct {
	HubName               string
	MetricsUpdatedAt      string
	CapabilitiesUpdatedAt string
	ClientsUpdatedAt      string
	PeopleUpdatedAt       string
}

// HealthRepository defines the secondary port for data-health queries.
type HealthRepository interface {
	// LastUpdates returns one record per hub that has a metrics row.
	LastUpdates(ctx context.Context) ([]*HealthRecord, error)
}

// PasswordHasher produces and checks one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
