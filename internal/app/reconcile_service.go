package app

import (
	"context"
	"fmt"

	"github.com/example/hubledger/internal/core/period"
	"github.com/example/hubledger/internal/core/reconcile"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// ReconcileServiceImpl derives hub aggregates from the child tables.
type ReconcileServiceImpl struct {
	access         hubAccess
	metricsRepo    secondary.HubMetricsRepository
	capabilityRepo secondary.CapabilityRepository
	clientRepo     secondary.ClientRepository
	peopleRepo     secondary.PeopleMetricRepository
}

// NewReconcileService creates a new ReconcileService with injected dependencies.
func NewReconcileService(
	hubRepo secondary.HubRepository,
	metricsRepo secondary.HubMetricsRepository,
	capabilityRepo secondary.CapabilityRepository,
	clientRepo secondary.ClientRepository,
	peopleRepo secondary.PeopleMetricRepository,
) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		access:         hubAccess{hubRepo: hubRepo},
		metricsRepo:    metricsRepo,
		capabilityRepo: capabilityRepo,
		clientRepo:     clientRepo,
		peopleRepo:     peopleRepo,
	}
}

// Reconcile derives a hub's aggregates from its child rows.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, hubName string) (*primary.Aggregates, error) {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return nil, err
	}
	return s.reconcileHub(ctx, hub)
}

// Persist reconciles and writes the aggregates back. Only updated_at moves;
// the core group's own timestamp is reserved for user edits.
func (s *ReconcileServiceImpl) Persist(ctx context.Context, hubName string) (*primary.Aggregates, error) {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return nil, err
	}
	agg, err := s.reconcileHub(ctx, hub)
	if err != nil {
		return nil, err
	}

	if err := s.metricsRepo.UpdateAggregates(ctx, hub.ID, secondary.AggregateValues{
		TotalHeadcount:  agg.TotalHeadcount,
		TotalClients:    agg.TotalClients,
		ServicesOffered: agg.ServicesOffered,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist aggregates: %w", err)
	}

	agg.StoredHeadcount = agg.TotalHeadcount
	agg.StoredClients = agg.TotalClients
	agg.StoredServices = agg.ServicesOffered
	return agg, nil
}

func (s *ReconcileServiceImpl) reconcileHub(ctx context.Context, hub *secondary.HubRecord) (*primary.Aggregates, error) {
	metrics, err := s.metricsRepo.GetByHub(ctx, hub.ID)
	if err != nil {
		return nil, err
	}

	rows, err := s.peopleRepo.List(ctx, hub.ID, period.CategoryEmploymentType)
	if err != nil {
		return nil, fmt.Errorf("failed to load employment data: %w", err)
	}
	headcount := reconcile.TotalHeadcount(toPoints(rows))

	clients, err := s.clientRepo.Count(ctx, hub.ID)
	if err != nil {
		return nil, err
	}
	services, err := s.capabilityRepo.Count(ctx, hub.ID)
	if err != nil {
		return nil, err
	}

	agg := &primary.Aggregates{
		HubName:         hub.Name,
		TotalHeadcount:  headcount.Total,
		HeadcountPeriod: headcount.Period,
		Permanent:       headcount.Permanent,
		Contract:        headcount.Contract,
		TotalClients:    clients,
		ServicesOffered: services,
		LocationSum:     metrics.LocationHeadcounts.Sum(),
		StoredHeadcount: metrics.TotalHeadcount,
		StoredClients:   metrics.TotalClients,
		StoredServices:  metrics.ServicesOffered,
	}
	if w := reconcile.CheckLocations(agg.LocationSum, agg.TotalHeadcount); w != nil {
		agg.Warning = w.Message
	}
	return agg, nil
}

func toPoints(rows []*secondary.PeopleMetricRecord) []reconcile.Point {
	points := make([]reconcile.Point, len(rows))
	for i, r := range rows {
		points[i] = reconcile.Point{Name: r.Name, Category: r.Category, Period: r.Period, Value: r.Value}
	}
	return points
}

// Ensure ReconcileServiceImpl implements the interface.
var _ primary.ReconcileService = (*ReconcileServiceImpl)(nil)
