package primary

import "context"

// PeopleService defines the primary port for people analytics.
type PeopleService interface {
	// ListMetrics retrieves a hub's people metrics. An empty category lists
	// every listed category; Hiring is only returned when asked for by name.
	ListMetrics(ctx context.Context, hubName, category string) ([]*PeopleMetric, error)

	// SaveMetrics upserts a set of values for one category and period and
	// reconciles any hub aggregate the category feeds.
	SaveMetrics(ctx context.Context, req SaveMetricsRequest) (*SaveMetricsResponse, error)

	// SaveGender saves gender counts and recomputes the stored percentages.
	SaveGender(ctx context.Context, req SaveGenderRequest) (*SaveMetricsResponse, error)

	// SaveStaffing saves the bench count and mirrors it into the hub's metrics.
	SaveStaffing(ctx context.Context, req SaveStaffingRequest) (*SaveMetricsResponse, error)

	// AddPeriod creates zero-valued rows for a new period, skipping rows that exist.
	AddPeriod(ctx context.Context, req AddPeriodRequest) (*AddPeriodResponse, error)

	// UpdateMetric sets the value of one stored row.
	UpdateMetric(ctx context.Context, hubName string, id int64, value float64) error

	// DeleteMetric removes one stored row.
	DeleteMetric(ctx context.Context, hubName string, id int64) error
}

// MetricValue is one named value within a save request.
type MetricValue struct {
	Name         string
	Value        float64
	HiringReason string
}

// SaveMetricsRequest contains a set of values for one category and period.
type SaveMetricsRequest struct {
	HubName  string
	Category string
	Period   string
	Values   []MetricValue
}

// SaveGenderRequest contains gender counts for one period.
type SaveGenderRequest struct {
	HubName string
	Period  string
	Female  float64
	Male    float64
	Other   float64
}

// SaveStaffingRequest contains the bench count for one period.
type SaveStaffingRequest struct {
	HubName    string
	Period     string
	BenchCount int
}

// SaveMetricsResponse reports what a save wrote and reconciled.
type SaveMetricsResponse struct {
	Saved int

	// Set when the save changed the gender split.
	Gender *GenderSplit
	// Set when the save changed the mirrored bench count.
	BenchCount *int
	// Set when the save changed the headcount aggregates.
	Aggregates *Aggregates
}

// GenderSplit is the recomputed gender distribution.
type GenderSplit struct {
	Period string
	Female float64
	Male   float64
	Other  float64
}

// AddPeriodRequest contains parameters for adding a period.
type AddPeriodRequest struct {
	HubName  string
	Category string
	Period   string
}

// AddPeriodResponse reports how many placeholder rows were created.
type AddPeriodResponse struct {
	Created int
	Skipped int
}

// PeopleMetric represents a people metric at the port boundary.
type PeopleMetric struct {
	ID              int64
	HubName         string
	Name            string
	Value           float64
	Category        string
	DisplayCategory string
	Period          string
	HiringReason    string
	UpdatedBy       string
	DateCreated     string
	Freshness       Freshness
}
