package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/hubledger/internal/core/capability"
	"github.com/example/hubledger/internal/core/client"
	"github.com/example/hubledger/internal/core/codec"
	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// ClientServiceImpl implements the ClientService interface.
type ClientServiceImpl struct {
	access     hubAccess
	clientRepo secondary.ClientRepository
	reconciler primary.ReconcileService
	now        func() time.Time
}

// NewClientService creates a new ClientService with injected dependencies.
func NewClientService(
	hubRepo secondary.HubRepository,
	clientRepo secondary.ClientRepository,
	reconciler primary.ReconcileService,
	now func() time.Time,
) *ClientServiceImpl {
	return &ClientServiceImpl{
		access:     hubAccess{hubRepo: hubRepo},
		clientRepo: clientRepo,
		reconciler: reconciler,
		now:        clockOrDefault(now),
	}
}

// ListClients retrieves a hub's clients.
func (s *ClientServiceImpl) ListClients(ctx context.Context, hubName string) ([]*primary.Client, error) {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return nil, err
	}

	records, err := s.clientRepo.List(ctx, hub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	now := s.now()
	clients := make([]*primary.Client, len(records))
	for i, r := range records {
		clients[i] = recordToClient(hub.Name, r, now)
	}
	return clients, nil
}

// AddClient adds a client to a hub and refreshes the client count.
func (s *ClientServiceImpl) AddClient(ctx context.Context, req primary.ClientRequest) (*primary.Client, error) {
	hub, err := s.access.resolve(ctx, req.HubName)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	_, lookupErr := s.clientRepo.GetByName(ctx, hub.ID, req.Name)
	nameExists, err := exists(lookupErr)
	if err != nil {
		return nil, fmt.Errorf("failed to check client: %w", err)
	}
	if err := s.checkWrite(hub.Name, req, nameExists); err != nil {
		return nil, err
	}

	record := requestToClientRecord(hub.ID, req)
	if err := s.clientRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add client: %w", err)
	}

	if _, err := s.reconciler.Persist(ctx, hub.Name); err != nil {
		return nil, fmt.Errorf("failed to refresh aggregates: %w", err)
	}

	return s.fetch(ctx, hub, req.Name)
}

// UpdateClient rewrites the client currently named currentName. Renaming
// onto another existing client is rejected.
func (s *ClientServiceImpl) UpdateClient(ctx context.Context, currentName string, req primary.ClientRequest) (*primary.Client, error) {
	hub, err := s.access.resolve(ctx, req.HubName)
	if err != nil {
		return nil, err
	}

	existing, err := s.clientRepo.GetByName(ctx, hub.ID, currentName)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = existing.Name
	}
	nameExists := false
	if req.Name != existing.Name {
		_, lookupErr := s.clientRepo.GetByName(ctx, hub.ID, req.Name)
		if nameExists, err = exists(lookupErr); err != nil {
			return nil, fmt.Errorf("failed to check client: %w", err)
		}
	}
	if err := s.checkWrite(hub.Name, req, nameExists); err != nil {
		return nil, err
	}

	record := requestToClientRecord(hub.ID, req)
	record.ID = existing.ID
	if err := s.clientRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return s.fetch(ctx, hub, req.Name)
}

// RemoveClient removes a client from a hub and refreshes the client count.
func (s *ClientServiceImpl) RemoveClient(ctx context.Context, hubName, name string) error {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return err
	}
	if err := s.clientRepo.Delete(ctx, hub.ID, name); err != nil {
		return err
	}
	if _, err := s.reconciler.Persist(ctx, hub.Name); err != nil {
		return fmt.Errorf("failed to refresh aggregates: %w", err)
	}
	return nil
}

// Helper methods

// checkWrite validates the fields first so a bad request is never reported
// as a name conflict.
func (s *ClientServiceImpl) checkWrite(hubName string, req primary.ClientRequest, nameExists bool) error {
	wc := client.WriteClientContext{
		HubName:              hubName,
		ClientName:           req.Name,
		EngagementStatus:     req.EngagementStatus,
		CommercialModel:      req.CommercialModel,
		CapabilityCategory:   req.CapabilityCategory,
		KnownCategory:        capability.IsCategory,
		RelationshipDuration: req.RelationshipDuration,
		EmployeeCount:        req.EmployeeCount,
	}
	if err := client.CanWriteClient(wc).Error(); err != nil {
		return rejected(err, errs.ErrInvalid)
	}
	wc.NameExists = nameExists
	return rejected(client.CanWriteClient(wc).Error(), errs.ErrConflict)
}

func (s *ClientServiceImpl) fetch(ctx context.Context, hub *secondary.HubRecord, name string) (*primary.Client, error) {
	record, err := s.clientRepo.GetByName(ctx, hub.ID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	return recordToClient(hub.Name, record, s.now()), nil
}

func requestToClientRecord(hubID int64, req primary.ClientRequest) *secondary.ClientRecord {
	var capabilities []string
	for _, c := range req.Capabilities {
		if c = strings.TrimSpace(c); c != "" {
			capabilities = append(capabilities, c)
		}
	}
	return &secondary.ClientRecord{
		HubID:                hubID,
		Name:                 req.Name,
		EngagementStatus:     req.EngagementStatus,
		CommercialModel:      req.CommercialModel,
		CapabilityCategory:   req.CapabilityCategory,
		Capabilities:         capabilities,
		RelationshipDuration: req.RelationshipDuration,
		ScopeSummary:         req.ScopeSummary,
		EmployeeCount:        req.EmployeeCount,
	}
}

func recordToClient(hubName string, r *secondary.ClientRecord, now time.Time) *primary.Client {
	return &primary.Client{
		ID:                   r.ID,
		HubName:              hubName,
		Name:                 r.Name,
		EngagementStatus:     r.EngagementStatus,
		CommercialModel:      r.CommercialModel,
		CapabilityCategory:   r.CapabilityCategory,
		Capabilities:         r.Capabilities,
		PrimaryCapability:    codec.Primary(r.Capabilities),
		RelationshipDuration: r.RelationshipDuration,
		ScopeSummary:         r.ScopeSummary,
		EmployeeCount:        r.EmployeeCount,
		UpdatedBy:            r.UpdatedBy,
		Freshness:            toFreshness(firstNonEmpty(r.ClientUpdatedAt, r.UpdatedAt), now),
	}
}

// Ensure ClientServiceImpl implements the interface.
var _ primary.ClientService = (*ClientServiceImpl)(nil)
