package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/hubledger/internal/core/codec"
	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/core/hubmetrics"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// HubMetricsServiceImpl implements the HubMetricsService interface.
type HubMetricsServiceImpl struct {
	access      hubAccess
	hubRepo     secondary.HubRepository
	metricsRepo secondary.HubMetricsRepository
	reconciler  primary.ReconcileService
	now         func() time.Time
}

// NewHubMetricsService creates a new HubMetricsService with injected dependencies.
func NewHubMetricsService(
	hubRepo secondary.HubRepository,
	metricsRepo secondary.HubMetricsRepository,
	reconciler primary.ReconcileService,
	now func() time.Time,
) *HubMetricsServiceImpl {
	return &HubMetricsServiceImpl{
		access:      hubAccess{hubRepo: hubRepo},
		hubRepo:     hubRepo,
		metricsRepo: metricsRepo,
		reconciler:  reconciler,
		now:         clockOrDefault(now),
	}
}

// ListHubs returns the hubs visible to the session.
func (s *HubMetricsServiceImpl) ListHubs(ctx context.Context) ([]*primary.Hub, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.hubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hubs: %w", err)
	}

	var hubs []*primary.Hub
	for _, r := range records {
		if !session.CanAccessHub(r.Name) {
			continue
		}
		hubs = append(hubs, &primary.Hub{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt})
	}
	return hubs, nil
}

// GetHubMetrics returns the stored metrics, reconciled aggregates and
// per-group freshness of a hub.
func (s *HubMetricsServiceImpl) GetHubMetrics(ctx context.Context, hubName string) (*primary.HubMetrics, error) {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return nil, err
	}

	record, err := s.metricsRepo.GetByHub(ctx, hub.ID)
	if err != nil {
		return nil, err
	}

	agg, err := s.reconciler.Reconcile(ctx, hub.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile aggregates: %w", err)
	}

	return s.recordToHubMetrics(record, agg), nil
}

// UpdateFacilities saves the core metrics group together with freshly
// reconciled aggregates.
func (s *HubMetricsServiceImpl) UpdateFacilities(ctx context.Context, req primary.UpdateFacilitiesRequest) error {
	hub, err := s.access.resolve(ctx, req.HubName)
	if err != nil {
		return err
	}

	guard := hubmetrics.CanUpdateFacilities(hubmetrics.FacilitiesContext{
		TotalSeats:          req.TotalSeats,
		CampusType:          req.CampusType,
		SEZStatus:           req.SEZStatus,
		CoverageHours:       req.CoverageHours,
		TransportFacilities: req.TransportFacilities,
	})
	if err := rejected(guard.Error(), errs.ErrInvalid); err != nil {
		return err
	}

	agg, err := s.reconciler.Reconcile(ctx, hub.Name)
	if err != nil {
		return fmt.Errorf("failed to reconcile aggregates: %w", err)
	}

	core := secondary.CoreMetricsUpdate{
		TotalSeats:          req.TotalSeats,
		CampusType:          req.CampusType,
		SEZStatus:           req.SEZStatus,
		CoverageHours:       req.CoverageHours,
		TransportFacilities: req.TransportFacilities,
	}
	values := secondary.AggregateValues{
		TotalHeadcount:  agg.TotalHeadcount,
		TotalClients:    agg.TotalClients,
		ServicesOffered: agg.ServicesOffered,
	}
	if err := s.metricsRepo.UpdateCore(ctx, hub.ID, core, values); err != nil {
		return fmt.Errorf("failed to update facilities: %w", err)
	}
	return nil
}

// UpdateLocations saves location text and per-location headcounts.
func (s *HubMetricsServiceImpl) UpdateLocations(ctx context.Context, req primary.UpdateLocationsRequest) (*primary.UpdateLocationsResponse, error) {
	hub, err := s.access.resolve(ctx, req.HubName)
	if err != nil {
		return nil, err
	}

	counts, err := codec.Normalize(codec.CountMap(req.LocationHeadcounts))
	if err != nil {
		return nil, rejected(err, errs.ErrInvalid)
	}

	if err := s.metricsRepo.UpdateLocations(ctx, hub.ID, req.Location, counts); err != nil {
		return nil, fmt.Errorf("failed to update locations: %w", err)
	}

	agg, err := s.reconciler.Reconcile(ctx, hub.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile aggregates: %w", err)
	}

	return &primary.UpdateLocationsResponse{
		LocationSum:    counts.Sum(),
		TotalHeadcount: agg.TotalHeadcount,
		Warning:        agg.Warning,
	}, nil
}

// UpdateCertifications saves certification counts.
func (s *HubMetricsServiceImpl) UpdateCertifications(ctx context.Context, req primary.UpdateCertificationsRequest) error {
	hub, err := s.access.resolve(ctx, req.HubName)
	if err != nil {
		return err
	}

	certs, err := codec.Normalize(codec.CountMap(req.Certifications))
	if err != nil {
		return rejected(err, errs.ErrInvalid)
	}

	if err := s.metricsRepo.UpdateCertifications(ctx, hub.ID, certs); err != nil {
		return fmt.Errorf("failed to update certifications: %w", err)
	}
	return nil
}

// Helper methods

func (s *HubMetricsServiceImpl) recordToHubMetrics(r *secondary.HubMetricsRecord, agg *primary.Aggregates) *primary.HubMetrics {
	now := s.now()
	return &primary.HubMetrics{
		HubName:             r.HubName,
		TotalHeadcount:      agg.TotalHeadcount,
		HeadcountPeriod:     agg.HeadcountPeriod,
		TotalSeats:          r.TotalSeats,
		TotalClients:        agg.TotalClients,
		ServicesOffered:     agg.ServicesOffered,
		StoredHeadcount:     r.TotalHeadcount,
		StoredClients:       r.TotalClients,
		StoredServices:      r.ServicesOffered,
		FemalePercent:       r.FemalePercent,
		MalePercent:         r.MalePercent,
		OtherGenderPercent:  r.OtherGenderPercent,
		CampusType:          r.CampusType,
		SEZStatus:           r.SEZStatus,
		Location:            r.Location,
		CoverageHours:       r.CoverageHours,
		TransportFacilities: r.TransportFacilities,
		BenchCount:          r.BenchCount,
		LocationHeadcounts:  r.LocationHeadcounts,
		Certifications:      r.Certifications,
		LocationWarning:     agg.Warning,
		UpdatedAt:           r.UpdatedAt,
		UpdatedBy:           r.UpdatedBy,
		Metrics:             toFreshness(r.MetricsUpdatedAt, now),
		Locations:           toFreshness(r.LocationUpdatedAt, now),
		CertificationsAge:   toFreshness(r.CertificationsUpdatedAt, now),
	}
}

// Ensure HubMetricsServiceImpl implements the interface.
var _ primary.HubMetricsService = (*HubMetricsServiceImpl)(nil)
