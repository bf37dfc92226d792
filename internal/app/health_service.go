package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// healthCategories is the number of data categories scored per hub.
const healthCategories = 4

// HealthServiceImpl implements the HealthService interface.
type HealthServiceImpl struct {
	healthRepo secondary.HealthRepository
	now        func() time.Time
}

// NewHealthService creates a new HealthService with injected dependencies.
func NewHealthService(healthRepo secondary.HealthRepository, now func() time.Time) *HealthServiceImpl {
	return &HealthServiceImpl{
		healthRepo: healthRepo,
		now:        clockOrDefault(now),
	}
}

// CheckHealth scores each visible hub by how many of its data categories
// are current. Ties keep hub name order.
func (s *HealthServiceImpl) CheckHealth(ctx context.Context) ([]*primary.HubHealth, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.healthRepo.LastUpdates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check data health: %w", err)
	}

	now := s.now()
	var report []*primary.HubHealth
	for _, r := range records {
		if !session.CanAccessHub(r.HubName) {
			continue
		}
		h := &primary.HubHealth{
			HubName:      r.HubName,
			Metrics:      toFreshness(r.MetricsUpdatedAt, now),
			Capabilities: toFreshness(r.CapabilitiesUpdatedAt, now),
			Clients:      toFreshness(r.ClientsUpdatedAt, now),
			People:       toFreshness(r.PeopleUpdatedAt, now),
		}
		for _, f := range []primary.Freshness{h.Metrics, h.Capabilities, h.Clients, h.People} {
			if f.Stale {
				h.Outdated++
			}
		}
		h.Score = 100 * (healthCategories - h.Outdated) / healthCategories
		report = append(report, h)
	}

	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Score > report[j].Score
	})
	return report, nil
}

// Ensure HealthServiceImpl implements the interface.
var _ primary.HealthService = (*HealthServiceImpl)(nil)
