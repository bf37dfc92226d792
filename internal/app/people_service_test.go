package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

func newTestPeopleService() (*PeopleServiceImpl, *repoFixture, *mockReconcileService) {
	f := newRepoFixture()
	reconciler := &mockReconcileService{}
	service := NewPeopleService(f.hubs, f.people, f.metrics, reconciler, testClock)
	return service, f, reconciler
}

// ============================================================================
// SaveMetrics Tests
// ============================================================================

func TestSaveMetrics_EmploymentRefreshesHeadcount(t *testing.T) {
	service, f, reconciler := newTestPeopleService()
	reconciler.aggregates = &primary.Aggregates{TotalHeadcount: 105}

	resp, err := service.SaveMetrics(hubCtx("akqa", "AKQA"), primary.SaveMetricsRequest{
		HubName:  "AKQA",
		Category: "Employment Type",
		Period:   "Feb 2025",
		Values: []primary.MetricValue{
			{Name: "Permanent Employees", Value: 85},
			{Name: "Contract Employees", Value: 20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Saved)
	require.NotNil(t, resp.Aggregates)
	assert.Equal(t, 105, resp.Aggregates.TotalHeadcount)
	assert.Equal(t, []string{"AKQA"}, reconciler.persisted)
	assert.Len(t, f.people.rows, 2)
}

func TestSaveMetrics_UpsertKeepsRowCount(t *testing.T) {
	service, f, _ := newTestPeopleService()
	req := primary.SaveMetricsRequest{
		HubName:  "AKQA",
		Category: "Tenure",
		Period:   "2025",
		Values:   []primary.MetricValue{{Name: "Tenure <1 year", Value: 10}},
	}

	_, err := service.SaveMetrics(adminCtx(), req)
	require.NoError(t, err)
	req.Values[0].Value = 12
	_, err = service.SaveMetrics(adminCtx(), req)
	require.NoError(t, err)

	require.Len(t, f.people.rows, 1)
	assert.Equal(t, 12.0, f.people.rows[0].Value)
}

func TestSaveMetrics_ValidatesEverythingFirst(t *testing.T) {
	service, f, _ := newTestPeopleService()

	_, err := service.SaveMetrics(adminCtx(), primary.SaveMetricsRequest{
		HubName:  "AKQA",
		Category: "Turnover",
		Period:   "Jan 2025",
		Values: []primary.MetricValue{
			{Name: "Voluntary Turnover", Value: 5},
			{Name: "Overall Turnover Rate", Value: 120},
		},
	})
	assert.ErrorIs(t, err, errs.ErrInvalid)
	assert.Zero(t, f.people.upserts, "no value may be written when one is invalid")
}

func TestSaveMetrics_WriteFailureSkipsReconcile(t *testing.T) {
	service, f, reconciler := newTestPeopleService()
	f.people.upsertErr = errors.New("disk I/O error")

	_, err := service.SaveMetrics(adminCtx(), primary.SaveMetricsRequest{
		HubName:  "AKQA",
		Category: "Employment Type",
		Period:   "Feb 2025",
		Values: []primary.MetricValue{
			{Name: "Permanent Employees", Value: 85},
			{Name: "Contract Employees", Value: 20},
		},
	})
	require.Error(t, err)
	assert.Empty(t, f.people.rows)
	assert.Empty(t, reconciler.persisted)
}

func TestSaveMetrics_WritesTheSetInOneCall(t *testing.T) {
	service, f, _ := newTestPeopleService()

	_, err := service.SaveMetrics(adminCtx(), primary.SaveMetricsRequest{
		HubName:  "AKQA",
		Category: "Marital Status",
		Period:   "2025",
		Values: []primary.MetricValue{
			{Name: "Single", Value: 55},
			{Name: "Married", Value: 40},
			{Name: "Other Marital Status", Value: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.people.upserts)
	assert.Len(t, f.people.rows, 3)
}

func TestSaveMetrics_Rejections(t *testing.T) {
	service, _, _ := newTestPeopleService()

	tests := []struct {
		name string
		req  primary.SaveMetricsRequest
	}{
		{"unknown category", primary.SaveMetricsRequest{HubName: "AKQA", Category: "Pets", Period: "2025", Values: []primary.MetricValue{{Name: "Cats", Value: 1}}}},
		{"year for monthly category", primary.SaveMetricsRequest{HubName: "AKQA", Category: "Gender", Period: "2025", Values: []primary.MetricValue{{Name: "Female", Value: 1}}}},
		{"month for yearly category", primary.SaveMetricsRequest{HubName: "AKQA", Category: "Marital Status", Period: "Jan 2025", Values: []primary.MetricValue{{Name: "Single", Value: 1}}}},
		{"no values", primary.SaveMetricsRequest{HubName: "AKQA", Category: "Tenure", Period: "2025"}},
		{"hiring reason outside hiring", primary.SaveMetricsRequest{HubName: "AKQA", Category: "Tenure", Period: "2025", Values: []primary.MetricValue{{Name: "Tenure <1 year", Value: 1, HiringReason: "Growth"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SaveMetrics(adminCtx(), tt.req)
			assert.ErrorIs(t, err, errs.ErrInvalid)
		})
	}
}

func TestSaveMetrics_AttritionAlias(t *testing.T) {
	service, f, _ := newTestPeopleService()

	_, err := service.SaveMetrics(adminCtx(), primary.SaveMetricsRequest{
		HubName:  "AKQA",
		Category: "attrition",
		Period:   "Jan 2025",
		Values:   []primary.MetricValue{{Name: "Voluntary Turnover", Value: 4.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Turnover", f.people.rows[0].Category)
}

// ============================================================================
// SaveGender / SaveStaffing Tests
// ============================================================================

func TestSaveGender_RecomputesFromLatestPeriod(t *testing.T) {
	service, f, _ := newTestPeopleService()
	ctx := adminCtx()

	resp, err := service.SaveGender(ctx, primary.SaveGenderRequest{HubName: "AKQA", Period: "Feb 2025", Female: 30, Male: 60, Other: 10})
	require.NoError(t, err)
	require.NotNil(t, resp.Gender)
	assert.Equal(t, "Feb 2025", resp.Gender.Period)
	assert.InDelta(t, 30.0, f.metrics.record(1).FemalePercent, 0.001)
	assert.InDelta(t, 60.0, f.metrics.record(1).MalePercent, 0.001)

	// An older period does not move the stored split.
	resp, err = service.SaveGender(ctx, primary.SaveGenderRequest{HubName: "AKQA", Period: "Jan 2025", Female: 50, Male: 50})
	require.NoError(t, err)
	assert.Equal(t, "Feb 2025", resp.Gender.Period)
	assert.InDelta(t, 30.0, f.metrics.record(1).FemalePercent, 0.001)
	assert.Equal(t, 2, f.metrics.genderCalls)
}

func TestSaveGender_ZeroCounts(t *testing.T) {
	service, f, _ := newTestPeopleService()

	_, err := service.SaveGender(adminCtx(), primary.SaveGenderRequest{HubName: "AKQA", Period: "Mar 2025"})
	require.NoError(t, err)
	r := f.metrics.record(1)
	assert.Zero(t, r.FemalePercent)
	assert.Zero(t, r.MalePercent)
	assert.Zero(t, r.OtherGenderPercent)
}

func TestSaveStaffing_MirrorsBench(t *testing.T) {
	service, f, reconciler := newTestPeopleService()

	resp, err := service.SaveStaffing(adminCtx(), primary.SaveStaffingRequest{HubName: "AKQA", Period: "Mar 2025", BenchCount: 7})
	require.NoError(t, err)
	require.NotNil(t, resp.BenchCount)
	assert.Equal(t, 7, *resp.BenchCount)
	assert.Equal(t, 7, f.metrics.record(1).BenchCount)
	assert.Empty(t, reconciler.persisted, "staffing does not feed headcount")
}

// ============================================================================
// AddPeriod Tests
// ============================================================================

func TestAddPeriod_UsesDefaultsThenSkipsExisting(t *testing.T) {
	service, f, _ := newTestPeopleService()
	ctx := adminCtx()

	resp, err := service.AddPeriod(ctx, primary.AddPeriodRequest{HubName: "AKQA", Category: "Gender", Period: "Apr 2025"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Created)
	assert.Equal(t, 0, resp.Skipped)

	f.people.rows[0].Value = 42
	resp, err = service.AddPeriod(ctx, primary.AddPeriodRequest{HubName: "AKQA", Category: "Gender", Period: "Apr 2025"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Created)
	assert.Equal(t, 3, resp.Skipped)
	assert.Equal(t, 42.0, f.people.rows[0].Value, "existing rows are never overwritten")
	assert.Zero(t, f.metrics.genderCalls, "placeholders are not reconciled")
}

func TestAddPeriod_UsesExistingNames(t *testing.T) {
	service, f, _ := newTestPeopleService()
	f.people.add(&secondary.PeopleMetricRecord{HubID: 1, Name: "New Hires", Category: "Hiring", Period: "Jan 2025", HiringReason: "Growth", Value: 3})
	f.people.add(&secondary.PeopleMetricRecord{HubID: 1, Name: "New Hires", Category: "Hiring", Period: "Jan 2025", HiringReason: "Backfill", Value: 1})

	resp, err := service.AddPeriod(adminCtx(), primary.AddPeriodRequest{HubName: "AKQA", Category: "Hiring", Period: "Feb 2025"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Len(t, f.people.rows, 4)
}

func TestAddPeriod_Rejections(t *testing.T) {
	service, _, _ := newTestPeopleService()

	_, err := service.AddPeriod(adminCtx(), primary.AddPeriodRequest{HubName: "AKQA", Category: "Tenure", Period: "Apr 2025"})
	assert.ErrorIs(t, err, errs.ErrInvalid)

	_, err = service.AddPeriod(adminCtx(), primary.AddPeriodRequest{HubName: "AKQA", Category: "Hiring", Period: "Apr 2025"})
	assert.ErrorIs(t, err, errs.ErrInvalid, "hiring has no default names")
}

// ============================================================================
// ListMetrics Tests
// ============================================================================

func TestListMetrics_HidesHiringAndOrders(t *testing.T) {
	service, f, _ := newTestPeopleService()
	f.people.add(&secondary.PeopleMetricRecord{HubID: 1, Name: "New Hires", Category: "Hiring", Period: "Jan 2025"})
	f.people.add(&secondary.PeopleMetricRecord{HubID: 1, Name: "Voluntary Turnover", Category: "Turnover", Period: "Jan 2025"})
	f.people.add(&secondary.PeopleMetricRecord{HubID: 1, Name: "Female", Category: "Gender", Period: "Jan 2025"})
	f.people.add(&secondary.PeopleMetricRecord{HubID: 1, Name: "Female", Category: "Gender", Period: "Feb 2025"})
	f.people.add(&secondary.PeopleMetricRecord{HubID: 2, Name: "Female", Category: "Gender", Period: "Feb 2025"})

	all, err := service.ListMetrics(adminCtx(), "AKQA", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Feb 2025", all[0].Period, "newest period first within Gender")
	assert.Equal(t, "Jan 2025", all[1].Period)
	assert.Equal(t, "Attrition", all[2].DisplayCategory)

	hiring, err := service.ListMetrics(adminCtx(), "AKQA", "Hiring")
	require.NoError(t, err)
	assert.Len(t, hiring, 1)

	_, err = service.ListMetrics(adminCtx(), "AKQA", "Pets")
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

// ============================================================================
// UpdateMetric / DeleteMetric Tests
// ============================================================================

func TestUpdateMetric_ReconcilesCategory(t *testing.T) {
	service, f, _ := newTestPeopleService()
	f.people.add(&secondary.PeopleMetricRecord{HubID: 1, Name: "Bench Count", Category: "Staffing", Period: "Jan 2025", Value: 2})

	require.NoError(t, service.UpdateMetric(adminCtx(), "AKQA", 1, 5))
	assert.Equal(t, 5, f.metrics.record(1).BenchCount)

	err := service.UpdateMetric(adminCtx(), "AKQA", 1, -1)
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestUpdateMetric_OtherHubRowNotFound(t *testing.T) {
	service, f, _ := newTestPeopleService()
	f.people.add(&secondary.PeopleMetricRecord{HubID: 2, Name: "Bench Count", Category: "Staffing", Period: "Jan 2025", Value: 2})

	err := service.UpdateMetric(adminCtx(), "AKQA", 1, 5)
	assert.True(t, errors.Is(err, errs.ErrNotFound), "got %v", err)
}

func TestDeleteMetric(t *testing.T) {
	service, f, reconciler := newTestPeopleService()
	f.addEmployment(1, "Jan 2025", 80, 20)

	require.NoError(t, service.DeleteMetric(adminCtx(), "AKQA", 2))
	assert.Len(t, f.people.rows, 1)
	assert.Equal(t, []string{"AKQA"}, reconciler.persisted)
}
