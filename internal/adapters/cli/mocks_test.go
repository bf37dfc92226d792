package cli

import (
	"context"

	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/ports/primary"
)

// mockHubMetricsService implements primary.HubMetricsService for testing
type mockHubMetricsService struct {
	listHubsFn             func(ctx context.Context) ([]*primary.Hub, error)
	getHubMetricsFn        func(ctx context.Context, hubName string) (*primary.HubMetrics, error)
	updateFacilitiesFn     func(ctx context.Context, req primary.UpdateFacilitiesRequest) error
	updateLocationsFn      func(ctx context.Context, req primary.UpdateLocationsRequest) (*primary.UpdateLocationsResponse, error)
	updateCertificationsFn func(ctx context.Context, req primary.UpdateCertificationsRequest) error
}

func (m *mockHubMetricsService) ListHubs(ctx context.Context) ([]*primary.Hub, error) {
	if m.listHubsFn != nil {
		return m.listHubsFn(ctx)
	}
	return []*primary.Hub{}, nil
}

func (m *mockHubMetricsService) GetHubMetrics(ctx context.Context, hubName string) (*primary.HubMetrics, error) {
	if m.getHubMetricsFn != nil {
		return m.getHubMetricsFn(ctx, hubName)
	}
	return &primary.HubMetrics{HubName: hubName}, nil
}

func (m *mockHubMetricsService) UpdateFacilities(ctx context.Context, req primary.UpdateFacilitiesRequest) error {
	if m.updateFacilitiesFn != nil {
		return m.updateFacilitiesFn(ctx, req)
	}
	return nil
}

func (m *mockHubMetricsService) UpdateLocations(ctx context.Context, req primary.UpdateLocationsRequest) (*primary.UpdateLocationsResponse, error) {
	if m.updateLocationsFn != nil {
		return m.updateLocationsFn(ctx, req)
	}
	return &primary.UpdateLocationsResponse{}, nil
}

func (m *mockHubMetricsService) UpdateCertifications(ctx context.Context, req primary.UpdateCertificationsRequest) error {
	if m.updateCertificationsFn != nil {
		return m.updateCertificationsFn(ctx, req)
	}
	return nil
}

// mockReconcileService implements primary.ReconcileService for testing
type mockReconcileService struct {
	aggregates *primary.Aggregates
	err        error

	persisted bool
}

func (m *mockReconcileService) Reconcile(ctx context.Context, hubName string) (*primary.Aggregates, error) {
	return m.aggregates, m.err
}

func (m *mockReconcileService) Persist(ctx context.Context, hubName string) (*primary.Aggregates, error) {
	m.persisted = true
	return m.aggregates, m.err
}

// mockCapabilityService implements primary.CapabilityService for testing
type mockCapabilityService struct {
	listFn   func(ctx context.Context, hubName string) ([]*primary.Capability, error)
	addFn    func(ctx context.Context, req primary.AddCapabilityRequest) (*primary.Capability, error)
	removeFn func(ctx context.Context, hubName, name string) error

	lastHeadcount  int
	lastPercentage float64
}

func (m *mockCapabilityService) ListCapabilities(ctx context.Context, hubName string) ([]*primary.Capability, error) {
	if m.listFn != nil {
		return m.listFn(ctx, hubName)
	}
	return []*primary.Capability{}, nil
}

func (m *mockCapabilityService) AddCapability(ctx context.Context, req primary.AddCapabilityRequest) (*primary.Capability, error) {
	if m.addFn != nil {
		return m.addFn(ctx, req)
	}
	return &primary.Capability{Name: req.Name, Category: req.Category, Headcount: req.Headcount}, nil
}

func (m *mockCapabilityService) SetHeadcount(ctx context.Context, hubName, name string, headcount int) error {
	m.lastHeadcount = headcount
	return nil
}

func (m *mockCapabilityService) SetPercentage(ctx context.Context, hubName, name string, percentage float64) error {
	m.lastPercentage = percentage
	return nil
}

func (m *mockCapabilityService) RemoveCapability(ctx context.Context, hubName, name string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, hubName, name)
	}
	return nil
}

// mockClientService implements primary.ClientService for testing
type mockClientService struct {
	listFn   func(ctx context.Context, hubName string) ([]*primary.Client, error)
	addFn    func(ctx context.Context, req primary.ClientRequest) (*primary.Client, error)
	updateFn func(ctx context.Context, currentName string, req primary.ClientRequest) (*primary.Client, error)
	removeFn func(ctx context.Context, hubName, name string) error
}

func (m *mockClientService) ListClients(ctx context.Context, hubName string) ([]*primary.Client, error) {
	if m.listFn != nil {
		return m.listFn(ctx, hubName)
	}
	return []*primary.Client{}, nil
}

func (m *mockClientService) AddClient(ctx context.Context, req primary.ClientRequest) (*primary.Client, error) {
	if m.addFn != nil {
		return m.addFn(ctx, req)
	}
	return &primary.Client{Name: req.Name}, nil
}

func (m *mockClientService) UpdateClient(ctx context.Context, currentName string, req primary.ClientRequest) (*primary.Client, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, currentName, req)
	}
	return &primary.Client{Name: req.Name}, nil
}

func (m *mockClientService) RemoveClient(ctx context.Context, hubName, name string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, hubName, name)
	}
	return nil
}

// mockPeopleService implements primary.PeopleService for testing
type mockPeopleService struct {
	listFn      func(ctx context.Context, hubName, category string) ([]*primary.PeopleMetric, error)
	saveFn      func(ctx context.Context, req primary.SaveMetricsRequest) (*primary.SaveMetricsResponse, error)
	genderFn    func(ctx context.Context, req primary.SaveGenderRequest) (*primary.SaveMetricsResponse, error)
	staffingFn  func(ctx context.Context, req primary.SaveStaffingRequest) (*primary.SaveMetricsResponse, error)
	addPeriodFn func(ctx context.Context, req primary.AddPeriodRequest) (*primary.AddPeriodResponse, error)
	updateErr   error
	deleteErr   error
}

func (m *mockPeopleService) ListMetrics(ctx context.Context, hubName, category string) ([]*primary.PeopleMetric, error) {
	if m.listFn != nil {
		return m.listFn(ctx, hubName, category)
	}
	return []*primary.PeopleMetric{}, nil
}

func (m *mockPeopleService) SaveMetrics(ctx context.Context, req primary.SaveMetricsRequest) (*primary.SaveMetricsResponse, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, req)
	}
	return &primary.SaveMetricsResponse{Saved: len(req.Values)}, nil
}

func (m *mockPeopleService) SaveGender(ctx context.Context, req primary.SaveGenderRequest) (*primary.SaveMetricsResponse, error) {
	if m.genderFn != nil {
		return m.genderFn(ctx, req)
	}
	return &primary.SaveMetricsResponse{Saved: 3}, nil
}

func (m *mockPeopleService) SaveStaffing(ctx context.Context, req primary.SaveStaffingRequest) (*primary.SaveMetricsResponse, error) {
	if m.staffingFn != nil {
		return m.staffingFn(ctx, req)
	}
	return &primary.SaveMetricsResponse{Saved: 1}, nil
}

func (m *mockPeopleService) AddPeriod(ctx context.Context, req primary.AddPeriodRequest) (*primary.AddPeriodResponse, error) {
	if m.addPeriodFn != nil {
		return m.addPeriodFn(ctx, req)
	}
	return &primary.AddPeriodResponse{}, nil
}

func (m *mockPeopleService) UpdateMetric(ctx context.Context, hubName string, id int64, value float64) error {
	return m.updateErr
}

func (m *mockPeopleService) DeleteMetric(ctx context.Context, hubName string, id int64) error {
	return m.deleteErr
}

// mockAuthService implements primary.AuthService for testing
type mockAuthService struct {
	users     []*primary.User
	listErr   error
	createErr error

	lastCreate primary.CreateUserRequest
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (ctxutil.Session, error) {
	return ctxutil.NewSession(username, "ALL", true), nil
}

func (m *mockAuthService) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	m.lastCreate = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &primary.User{Username: req.Username, HubName: req.HubName, IsAdmin: req.IsAdmin}, nil
}

func (m *mockAuthService) ListUsers(ctx context.Context) ([]*primary.User, error) {
	return m.users, m.listErr
}

// mockHealthService implements primary.HealthService for testing
type mockHealthService struct {
	report []*primary.HubHealth
	err    error
}

func (m *mockHealthService) CheckHealth(ctx context.Context) ([]*primary.HubHealth, error) {
	return m.report, m.err
}

var (
	_ primary.HubMetricsService = (*mockHubMetricsService)(nil)
	_ primary.ReconcileService  = (*mockReconcileService)(nil)
	_ primary.CapabilityService = (*mockCapabilityService)(nil)
	_ primary.ClientService     = (*mockClientService)(nil)
	_ primary.PeopleService     = (*mockPeopleService)(nil)
	_ primary.AuthService       = (*mockAuthService)(nil)
	_ primary.HealthService     = (*mockHealthService)(nil)
)

func fresh(label string) primary.Freshness {
	return primary.Freshness{Label: label, Tier: "fresh", Status: "Current"}
}

func outdated(label string) primary.Freshness {
	return primary.Freshness{Label: label, Tier: "outdated", Status: "Outdated", Stale: true}
}
