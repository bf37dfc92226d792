package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/hubledger/internal/core/capability"
	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// CapabilityServiceImpl implements the CapabilityService interface.
type CapabilityServiceImpl struct {
	access         hubAccess
	capabilityRepo secondary.CapabilityRepository
	reconciler     primary.ReconcileService
	now            func() time.Time
}

// NewCapabilityService creates a new CapabilityService with injected dependencies.
func NewCapabilityService(
	hubRepo secondary.HubRepository,
	capabilityRepo secondary.CapabilityRepository,
	reconciler primary.ReconcileService,
	now func() time.Time,
) *CapabilityServiceImpl {
	return &CapabilityServiceImpl{
		access:         hubAccess{hubRepo: hubRepo},
		capabilityRepo: capabilityRepo,
		reconciler:     reconciler,
		now:            clockOrDefault(now),
	}
}

// ListCapabilities retrieves a hub's capabilities.
func (s *CapabilityServiceImpl) ListCapabilities(ctx context.Context, hubName string) ([]*primary.Capability, error) {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return nil, err
	}

	records, err := s.capabilityRepo.List(ctx, hub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list capabilities: %w", err)
	}

	now := s.now()
	capabilities := make([]*primary.Capability, len(records))
	for i, r := range records {
		capabilities[i] = recordToCapability(hub.Name, r, now)
	}
	return capabilities, nil
}

// AddCapability adds a service to a hub and refreshes the services count.
func (s *CapabilityServiceImpl) AddCapability(ctx context.Context, req primary.AddCapabilityRequest) (*primary.Capability, error) {
	hub, err := s.access.resolve(ctx, req.HubName)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	_, lookupErr := s.capabilityRepo.GetByName(ctx, hub.ID, name)
	nameExists, err := exists(lookupErr)
	if err != nil {
		return nil, fmt.Errorf("failed to check capability: %w", err)
	}

	cc := capability.CreateCapabilityContext{
		HubName:   hub.Name,
		Name:      name,
		Category:  req.Category,
		Headcount: req.Headcount,
	}
	if err := rejected(capability.CanCreateCapability(cc).Error(), errs.ErrInvalid); err != nil {
		return nil, err
	}
	cc.NameExists = nameExists
	if err := rejected(capability.CanCreateCapability(cc).Error(), errs.ErrConflict); err != nil {
		return nil, err
	}

	record := &secondary.CapabilityRecord{
		HubID:     hub.ID,
		Name:      name,
		Category:  req.Category,
		Headcount: req.Headcount,
	}
	if err := s.capabilityRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add capability: %w", err)
	}

	if _, err := s.reconciler.Persist(ctx, hub.Name); err != nil {
		return nil, fmt.Errorf("failed to refresh aggregates: %w", err)
	}

	created, err := s.capabilityRepo.GetByName(ctx, hub.ID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created capability: %w", err)
	}
	return recordToCapability(hub.Name, created, s.now()), nil
}

// SetHeadcount updates the headcount of a capability.
func (s *CapabilityServiceImpl) SetHeadcount(ctx context.Context, hubName, name string, headcount int) error {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return err
	}
	if err := rejected(capability.CanSetHeadcount(headcount).Error(), errs.ErrInvalid); err != nil {
		return err
	}
	return s.capabilityRepo.UpdateHeadcount(ctx, hub.ID, name, headcount)
}

// SetPercentage updates the percentage of a capability. Headcount is untouched.
func (s *CapabilityServiceImpl) SetPercentage(ctx context.Context, hubName, name string, percentage float64) error {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return err
	}
	if err := rejected(capability.CanSetPercentage(percentage).Error(), errs.ErrInvalid); err != nil {
		return err
	}
	return s.capabilityRepo.UpdatePercentage(ctx, hub.ID, name, percentage)
}

// RemoveCapability removes a service from a hub and refreshes the services count.
func (s *CapabilityServiceImpl) RemoveCapability(ctx context.Context, hubName, name string) error {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return err
	}
	if err := s.capabilityRepo.Delete(ctx, hub.ID, name); err != nil {
		return err
	}
	if _, err := s.reconciler.Persist(ctx, hub.Name); err != nil {
		return fmt.Errorf("failed to refresh aggregates: %w", err)
	}
	return nil
}

func recordToCapability(hubName string, r *secondary.CapabilityRecord, now time.Time) *primary.Capability {
	return &primary.Capability{
		ID:         r.ID,
		HubName:    hubName,
		Name:       r.Name,
		Category:   r.Category,
		Headcount:  r.Headcount,
		Percentage: r.Percentage,
		UpdatedBy:  r.UpdatedBy,
		Freshness:  toFreshness(firstNonEmpty(r.CapabilityUpdatedAt, r.UpdatedAt), now),
	}
}

// Ensure CapabilityServiceImpl implements the interface.
var _ primary.CapabilityService = (*CapabilityServiceImpl)(nil)
