package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/core/people"
	"github.com/example/hubledger/internal/core/period"
	"github.com/example/hubledger/internal/core/reconcile"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// PeopleServiceImpl implements the PeopleService interface.
type PeopleServiceImpl struct {
	access      hubAccess
	peopleRepo  secondary.PeopleMetricRepository
	metricsRepo secondary.HubMetricsRepository
	reconciler  primary.ReconcileService
	now         func() time.Time
}

// NewPeopleService creates a new PeopleService with injected dependencies.
func NewPeopleService(
	hubRepo secondary.HubRepository,
	peopleRepo secondary.PeopleMetricRepository,
	metricsRepo secondary.HubMetricsRepository,
	reconciler primary.ReconcileService,
	now func() time.Time,
) *PeopleServiceImpl {
	return &PeopleServiceImpl{
		access:      hubAccess{hubRepo: hubRepo},
		peopleRepo:  peopleRepo,
		metricsRepo: metricsRepo,
		reconciler:  reconciler,
		now:         clockOrDefault(now),
	}
}

// ListMetrics retrieves a hub's people metrics ordered by category, newest
// period first.
func (s *PeopleServiceImpl) ListMetrics(ctx context.Context, hubName, category string) ([]*primary.PeopleMetric, error) {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return nil, err
	}

	filter := ""
	if category != "" {
		if filter, err = parseCategory(category); err != nil {
			return nil, err
		}
	}

	records, err := s.peopleRepo.List(ctx, hub.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list people metrics: %w", err)
	}

	var kept []*secondary.PeopleMetricRecord
	for _, r := range records {
		if filter == "" && !people.Listed(r.Category) {
			continue
		}
		kept = append(kept, r)
	}
	sortMetrics(kept)

	now := s.now()
	metrics := make([]*primary.PeopleMetric, len(kept))
	for i, r := range kept {
		metrics[i] = recordToPeopleMetric(hub.Name, r, now)
	}
	return metrics, nil
}

// SaveMetrics validates every value before writing any of them.
func (s *PeopleServiceImpl) SaveMetrics(ctx context.Context, req primary.SaveMetricsRequest) (*primary.SaveMetricsResponse, error) {
	hub, err := s.access.resolve(ctx, req.HubName)
	if err != nil {
		return nil, err
	}

	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if len(req.Values) == 0 {
		return nil, fmt.Errorf("no values to save for %s: %w", category, errs.ErrInvalid)
	}

	records := make([]*secondary.PeopleMetricRecord, 0, len(req.Values))
	for _, v := range req.Values {
		name := strings.TrimSpace(v.Name)
		reason := strings.TrimSpace(v.HiringReason)
		guard := people.CanWriteMetric(people.WriteMetricContext{
			MetricName:   name,
			Category:     category,
			Period:       req.Period,
			Value:        v.Value,
			HiringReason: reason,
		})
		if err := rejected(guard.Error(), errs.ErrInvalid); err != nil {
			return nil, err
		}
		records = append(records, &secondary.PeopleMetricRecord{
			HubID:        hub.ID,
			Name:         name,
			Value:        v.Value,
			Category:     category,
			Period:       req.Period,
			HiringReason: reason,
		})
	}

	if err := s.peopleRepo.Upsert(ctx, records...); err != nil {
		return nil, err
	}

	resp := &primary.SaveMetricsResponse{Saved: len(records)}
	if err := s.reconcileCategory(ctx, hub, category, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SaveGender saves gender counts and recomputes the stored percentages
// from the newest Gender period.
func (s *PeopleServiceImpl) SaveGender(ctx context.Context, req primary.SaveGenderRequest) (*primary.SaveMetricsResponse, error) {
	return s.SaveMetrics(ctx, primary.SaveMetricsRequest{
		HubName:  req.HubName,
		Category: period.CategoryGender,
		Period:   req.Period,
		Values: []primary.MetricValue{
			{Name: reconcile.MetricFemale, Value: req.Female},
			{Name: reconcile.MetricMale, Value: req.Male},
			{Name: reconcile.MetricOtherGender, Value: req.Other},
		},
	})
}

// SaveStaffing saves the bench count and mirrors the newest one into the
// hub's metrics.
func (s *PeopleServiceImpl) SaveStaffing(ctx context.Context, req primary.SaveStaffingRequest) (*primary.SaveMetricsResponse, error) {
	return s.SaveMetrics(ctx, primary.SaveMetricsRequest{
		HubName:  req.HubName,
		Category: period.CategoryStaffing,
		Period:   req.Period,
		Values: []primary.MetricValue{
			{Name: reconcile.MetricBenchCount, Value: float64(req.BenchCount)},
		},
	})
}

// AddPeriod creates zero-valued rows for a new period. The metric names come
// from the hub's existing rows in the category, or the category defaults
// when it has none. Placeholders are not reconciled.
func (s *PeopleServiceImpl) AddPeriod(ctx context.Context, req primary.AddPeriodRequest) (*primary.AddPeriodResponse, error) {
	hub, err := s.access.resolve(ctx, req.HubName)
	if err != nil {
		return nil, err
	}

	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if err := period.Validate(category, req.Period); err != nil {
		return nil, rejected(err, errs.ErrInvalid)
	}

	existing, err := s.peopleRepo.List(ctx, hub.ID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list people metrics: %w", err)
	}

	type key struct{ name, reason string }
	var keys []key
	seen := map[key]bool{}
	for _, r := range existing {
		k := key{r.Name, r.HiringReason}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		for _, name := range people.DefaultMetrics[category] {
			keys = append(keys, key{name: name})
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no metric names known for %s, save values first: %w", category, errs.ErrInvalid)
	}

	resp := &primary.AddPeriodResponse{}
	for _, k := range keys {
		inserted, err := s.peopleRepo.InsertIfAbsent(ctx, &secondary.PeopleMetricRecord{
			HubID:        hub.ID,
			Name:         k.name,
			Category:     category,
			Period:       req.Period,
			HiringReason: k.reason,
		})
		if err != nil {
			return nil, err
		}
		if inserted {
			resp.Created++
		} else {
			resp.Skipped++
		}
	}
	return resp, nil
}

// UpdateMetric sets the value of one stored row.
func (s *PeopleServiceImpl) UpdateMetric(ctx context.Context, hubName string, id int64, value float64) error {
	hub, record, err := s.findMetric(ctx, hubName, id)
	if err != nil {
		return err
	}

	guard := people.CanWriteMetric(people.WriteMetricContext{
		MetricName:   record.Name,
		Category:     record.Category,
		Period:       record.Period,
		Value:        value,
		HiringReason: record.HiringReason,
	})
	if err := rejected(guard.Error(), errs.ErrInvalid); err != nil {
		return err
	}

	if err := s.peopleRepo.UpdateValue(ctx, id, value); err != nil {
		return err
	}
	return s.reconcileCategory(ctx, hub, record.Category, &primary.SaveMetricsResponse{})
}

// DeleteMetric removes one stored row.
func (s *PeopleServiceImpl) DeleteMetric(ctx context.Context, hubName string, id int64) error {
	hub, record, err := s.findMetric(ctx, hubName, id)
	if err != nil {
		return err
	}
	if err := s.peopleRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.reconcileCategory(ctx, hub, record.Category, &primary.SaveMetricsResponse{})
}

// Helper methods

func (s *PeopleServiceImpl) findMetric(ctx context.Context, hubName string, id int64) (*secondary.HubRecord, *secondary.PeopleMetricRecord, error) {
	hub, err := s.access.resolve(ctx, hubName)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.peopleRepo.List(ctx, hub.ID, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list people metrics: %w", err)
	}
	for _, r := range records {
		if r.ID == id {
			return hub, r, nil
		}
	}
	return nil, nil, fmt.Errorf("people metric %d in %s: %w", id, hub.Name, errs.ErrNotFound)
}

// reconcileCategory refreshes the hub aggregate a category feeds.
func (s *PeopleServiceImpl) reconcileCategory(ctx context.Context, hub *secondary.HubRecord, category string, resp *primary.SaveMetricsResponse) error {
	switch category {
	case period.CategoryGender:
		rows, err := s.peopleRepo.List(ctx, hub.ID, period.CategoryGender)
		if err != nil {
			return fmt.Errorf("failed to load gender data: %w", err)
		}
		pct, latest, ok := reconcile.LatestGender(toPoints(rows))
		if !ok {
			return nil
		}
		if err := s.metricsRepo.UpdateGender(ctx, hub.ID, pct.Female, pct.Male, pct.Other); err != nil {
			return fmt.Errorf("failed to update gender split: %w", err)
		}
		resp.Gender = &primary.GenderSplit{Period: latest, Female: pct.Female, Male: pct.Male, Other: pct.Other}

	case period.CategoryStaffing:
		rows, err := s.peopleRepo.List(ctx, hub.ID, period.CategoryStaffing)
		if err != nil {
			return fmt.Errorf("failed to load staffing data: %w", err)
		}
		bench, _, ok := reconcile.LatestBench(toPoints(rows))
		if !ok {
			return nil
		}
		if err := s.metricsRepo.UpdateBench(ctx, hub.ID, bench); err != nil {
			return fmt.Errorf("failed to update bench count: %w", err)
		}
		resp.BenchCount = &bench

	case period.CategoryEmploymentType:
		agg, err := s.reconciler.Persist(ctx, hub.Name)
		if err != nil {
			return fmt.Errorf("failed to refresh aggregates: %w", err)
		}
		resp.Aggregates = agg
	}
	return nil
}

func parseCategory(name string) (string, error) {
	category := people.FromDisplayName(strings.TrimSpace(name))
	if !period.IsCategory(category) {
		return "", fmt.Errorf("unknown metric category %q: %w", name, errs.ErrInvalid)
	}
	return category, nil
}

// sortMetrics orders rows by category display order, then newest period,
// then insertion order.
func sortMetrics(records []*secondary.PeopleMetricRecord) {
	categoryRank := map[string]int{}
	for i, c := range period.Categories {
		categoryRank[c] = i
	}

	var periods []string
	seen := map[string]bool{}
	for _, r := range records {
		if !seen[r.Period] {
			seen[r.Period] = true
			periods = append(periods, r.Period)
		}
	}
	periodRank := map[string]int{}
	for i, p := range period.SortNewestFirst(periods) {
		periodRank[p] = i
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if categoryRank[a.Category] != categoryRank[b.Category] {
			return categoryRank[a.Category] < categoryRank[b.Category]
		}
		if periodRank[a.Period] != periodRank[b.Period] {
			return periodRank[a.Period] < periodRank[b.Period]
		}
		return a.ID < b.ID
	})
}

func recordToPeopleMetric(hubName string, r *secondary.PeopleMetricRecord, now time.Time) *primary.PeopleMetric {
	return &primary.PeopleMetric{
		ID:              r.ID,
		HubName:         hubName,
		Name:            r.Name,
		Value:           r.Value,
		Category:        r.Category,
		DisplayCategory: people.DisplayName(r.Category),
		Period:          r.Period,
		HiringReason:    r.HiringReason,
		UpdatedBy:       r.UpdatedBy,
		DateCreated:     r.DateCreated,
		Freshness:       toFreshness(firstNonEmpty(r.PeopleMetricUpdatedAt, r.UpdatedAt), now),
	}
}

// Ensure PeopleServiceImpl implements the interface.
var _ primary.PeopleService = (*PeopleServiceImpl)(nil)
