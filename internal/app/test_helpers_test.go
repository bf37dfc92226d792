package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/hubledger/internal/core/codec"
	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// ============================================================================
// Sessions and Clock
// ============================================================================

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// daysAgo formats a stored timestamp n days before testNow.
func daysAgo(n int) string {
	return testNow.AddDate(0, 0, -n).Format("2006-01-02 15:04:05")
}

func adminCtx() context.Context {
	return ctxutil.WithSession(context.Background(), ctxutil.NewSession("admin", "ALL", true))
}

func hubCtx(username, hub string) context.Context {
	return ctxutil.WithSession(context.Background(), ctxutil.NewSession(username, hub, false))
}

// ============================================================================
// Mock Implementations
// ============================================================================

// mockHubRepository implements secondary.HubRepository for testing.
type mockHubRepository struct {
	hubs    []*secondary.HubRecord
	listErr error
}

func newMockHubRepository(names ...string) *mockHubRepository {
	m := &mockHubRepository{}
	for i, name := range names {
		m.hubs = append(m.hubs, &secondary.HubRecord{ID: int64(i + 1), Name: name})
	}
	return m
}

func (m *mockHubRepository) List(ctx context.Context) ([]*secondary.HubRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.hubs, nil
}

func (m *mockHubRepository) GetByName(ctx context.Context, name string) (*secondary.HubRecord, error) {
	for _, h := range m.hubs {
		if h.Name == name {
			return h, nil
		}
	}
	return nil, fmt.Errorf("hub '%s': %w", name, errs.ErrNotFound)
}

func (m *mockHubRepository) Create(ctx context.Context, name string) (*secondary.HubRecord, error) {
	h := &secondary.HubRecord{ID: int64(len(m.hubs) + 1), Name: name}
	m.hubs = append(m.hubs, h)
	return h, nil
}

// mockHubMetricsRepository implements secondary.HubMetricsRepository for testing.
type mockHubMetricsRepository struct {
	records        map[int64]*secondary.HubMetricsRecord
	coreCalls      int
	lastCore       secondary.CoreMetricsUpdate
	lastAggregates *secondary.AggregateValues
	genderCalls    int
	benchCalls     int
	updateErr      error
}

func newMockHubMetricsRepository() *mockHubMetricsRepository {
	return &mockHubMetricsRepository{records: make(map[int64]*secondary.HubMetricsRecord)}
}

func (m *mockHubMetricsRepository) record(hubID int64) *secondary.HubMetricsRecord {
	r, ok := m.records[hubID]
	if !ok {
		r = &secondary.HubMetricsRecord{HubID: hubID, LocationHeadcounts: codec.CountMap{}, Certifications: codec.CountMap{}}
		m.records[hubID] = r
	}
	return r
}

func (m *mockHubMetricsRepository) GetByHub(ctx context.Context, hubID int64) (*secondary.HubMetricsRecord, error) {
	r, ok := m.records[hubID]
	if !ok {
		return nil, fmt.Errorf("metrics for hub %d: %w", hubID, errs.ErrNotFound)
	}
	return r, nil
}

func (m *mockHubMetricsRepository) ListAll(ctx context.Context) ([]*secondary.HubMetricsRecord, error) {
	var out []*secondary.HubMetricsRecord
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockHubMetricsRepository) UpdateCore(ctx context.Context, hubID int64, core secondary.CoreMetricsUpdate, agg secondary.AggregateValues) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.coreCalls++
	m.lastCore = core
	m.lastAggregates = &agg
	r := m.record(hubID)
	r.TotalSeats = core.TotalSeats
	r.CampusType = core.CampusType
	r.TotalHeadcount = agg.TotalHeadcount
	r.TotalClients = agg.TotalClients
	r.ServicesOffered = agg.ServicesOffered
	return nil
}

func (m *mockHubMetricsRepository) UpdateLocations(ctx context.Context, hubID int64, location string, counts codec.CountMap) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	r := m.record(hubID)
	r.Location = location
	r.LocationHeadcounts = counts
	return nil
}

func (m *mockHubMetricsRepository) UpdateCertifications(ctx context.Context, hubID int64, certs codec.CountMap) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.record(hubID).Certifications = certs
	return nil
}

func (m *mockHubMetricsRepository) UpdateAggregates(ctx context.Context, hubID int64, agg secondary.AggregateValues) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastAggregates = &agg
	r := m.record(hubID)
	r.TotalHeadcount = agg.TotalHeadcount
	r.TotalClients = agg.TotalClients
	r.ServicesOffered = agg.ServicesOffered
	return nil
}

func (m *mockHubMetricsRepository) UpdateGender(ctx context.Context, hubID int64, female, male, other float64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.genderCalls++
	r := m.record(hubID)
	r.FemalePercent, r.MalePercent, r.OtherGenderPercent = female, male, other
	return nil
}

func (m *mockHubMetricsRepository) UpdateBench(ctx context.Context, hubID int64, bench int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.benchCalls++
	m.record(hubID).BenchCount = bench
	return nil
}

// mockCapabilityRepository implements secondary.CapabilityRepository for testing.
type mockCapabilityRepository struct {
	capabilities []*secondary.CapabilityRecord
	nextID       int64
	createErr    error
}

func newMockCapabilityRepository() *mockCapabilityRepository {
	return &mockCapabilityRepository{nextID: 1}
}

func (m *mockCapabilityRepository) List(ctx context.Context, hubID int64) ([]*secondary.CapabilityRecord, error) {
	var out []*secondary.CapabilityRecord
	for _, c := range m.capabilities {
		if c.HubID == hubID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCapabilityRepository) GetByName(ctx context.Context, hubID int64, name string) (*secondary.CapabilityRecord, error) {
	for _, c := range m.capabilities {
		if c.HubID == hubID && c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("capability '%s': %w", name, errs.ErrNotFound)
}

func (m *mockCapabilityRepository) Create(ctx context.Context, capability *secondary.CapabilityRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, err := m.GetByName(ctx, capability.HubID, capability.Name); err == nil {
		return fmt.Errorf("capability '%s' already exists: %w", capability.Name, errs.ErrConflict)
	}
	capability.ID = m.nextID
	m.nextID++
	m.capabilities = append(m.capabilities, capability)
	return nil
}

func (m *mockCapabilityRepository) UpdateHeadcount(ctx context.Context, hubID int64, name string, headcount int) error {
	c, err := m.GetByName(ctx, hubID, name)
	if err != nil {
		return err
	}
	c.Headcount = headcount
	return nil
}

func (m *mockCapabilityRepository) UpdatePercentage(ctx context.Context, hubID int64, name string, percentage float64) error {
	c, err := m.GetByName(ctx, hubID, name)
	if err != nil {
		return err
	}
	c.Percentage = percentage
	return nil
}

func (m *mockCapabilityRepository) Delete(ctx context.Context, hubID int64, name string) error {
	for i, c := range m.capabilities {
		if c.HubID == hubID && c.Name == name {
			m.capabilities = append(m.capabilities[:i], m.capabilities[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("capability '%s': %w", name, errs.ErrNotFound)
}

func (m *mockCapabilityRepository) Count(ctx context.Context, hubID int64) (int, error) {
	list, _ := m.List(ctx, hubID)
	return len(list), nil
}

// mockClientRepository implements secondary.ClientRepository for testing.
type mockClientRepository struct {
	clients   []*secondary.ClientRecord
	nextID    int64
	updateErr error
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{nextID: 1}
}

func (m *mockClientRepository) List(ctx context.Context, hubID int64) ([]*secondary.ClientRecord, error) {
	var out []*secondary.ClientRecord
	for _, c := range m.clients {
		if c.HubID == hubID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClientRepository) GetByName(ctx context.Context, hubID int64, name string) (*secondary.ClientRecord, error) {
	for _, c := range m.clients {
		if c.HubID == hubID && c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("client '%s': %w", name, errs.ErrNotFound)
}

func (m *mockClientRepository) Create(ctx context.Context, client *secondary.ClientRecord) error {
	if _, err := m.GetByName(ctx, client.HubID, client.Name); err == nil {
		return fmt.Errorf("client '%s' already exists: %w", client.Name, errs.ErrConflict)
	}
	client.ID = m.nextID
	m.nextID++
	m.clients = append(m.clients, client)
	return nil
}

func (m *mockClientRepository) Update(ctx context.Context, client *secondary.ClientRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i, c := range m.clients {
		if c.ID == client.ID {
			m.clients[i] = client
			return nil
		}
	}
	return fmt.Errorf("client %d: %w", client.ID, errs.ErrNotFound)
}

func (m *mockClientRepository) Delete(ctx context.Context, hubID int64, name string) error {
	for i, c := range m.clients {
		if c.HubID == hubID && c.Name == name {
			m.clients = append(m.clients[:i], m.clients[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("client '%s': %w", name, errs.ErrNotFound)
}

func (m *mockClientRepository) Count(ctx context.Context, hubID int64) (int, error) {
	list, _ := m.List(ctx, hubID)
	return len(list), nil
}

// mockPeopleMetricRepository implements secondary.PeopleMetricRepository for testing.
// Rows keep insertion order, like the SQLite list ordered by id.
type mockPeopleMetricRepository struct {
	rows      []*secondary.PeopleMetricRecord
	nextID    int64
	upsertErr error
	upserts   int
}

func newMockPeopleMetricRepository() *mockPeopleMetricRepository {
	return &mockPeopleMetricRepository{nextID: 1}
}

func (m *mockPeopleMetricRepository) find(metric *secondary.PeopleMetricRecord) *secondary.PeopleMetricRecord {
	for _, r := range m.rows {
		if r.HubID == metric.HubID && r.Name == metric.Name && r.Period == metric.Period && r.HiringReason == metric.HiringReason {
			return r
		}
	}
	return nil
}

func (m *mockPeopleMetricRepository) add(metric *secondary.PeopleMetricRecord) {
	copied := *metric
	copied.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, &copied)
}

func (m *mockPeopleMetricRepository) List(ctx context.Context, hubID int64, category string) ([]*secondary.PeopleMetricRecord, error) {
	var out []*secondary.PeopleMetricRecord
	for _, r := range m.rows {
		if r.HubID == hubID && (category == "" || r.Category == category) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockPeopleMetricRepository) Upsert(ctx context.Context, metrics ...*secondary.PeopleMetricRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	for _, metric := range metrics {
		if existing := m.find(metric); existing != nil {
			existing.Value = metric.Value
			existing.Category = metric.Category
			continue
		}
		m.add(metric)
	}
	return nil
}

func (m *mockPeopleMetricRepository) InsertIfAbsent(ctx context.Context, metric *secondary.PeopleMetricRecord) (bool, error) {
	if m.find(metric) != nil {
		return false, nil
	}
	m.add(metric)
	return true, nil
}

func (m *mockPeopleMetricRepository) UpdateValue(ctx context.Context, id int64, value float64) error {
	for _, r := range m.rows {
		if r.ID == id {
			r.Value = value
			return nil
		}
	}
	return fmt.Errorf("people metric %d: %w", id, errs.ErrNotFound)
}

func (m *mockPeopleMetricRepository) Delete(ctx context.Context, id int64) error {
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("people metric %d: %w", id, errs.ErrNotFound)
}

// mockUserRepository implements secondary.UserRepository for testing.
type mockUserRepository struct {
	users     []*secondary.UserRecord
	createErr error
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*secondary.UserRecord, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user '%s': %w", username, errs.ErrNotFound)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	return m.users, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return nil
}

// mockHealthRepository implements secondary.HealthRepository for testing.
type mockHealthRepository struct {
	records []*secondary.HealthRecord
	err     error
}

func (m *mockHealthRepository) LastUpdates(ctx context.Context) ([]*secondary.HealthRecord, error) {
	return m.records, m.err
}

// mockReconcileService implements primary.ReconcileService for testing.
type mockReconcileService struct {
	aggregates *primary.Aggregates
	err        error
	reconciled []string
	persisted  []string
}

func (m *mockReconcileService) result(hubName string) (*primary.Aggregates, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.aggregates == nil {
		return &primary.Aggregates{HubName: hubName}, nil
	}
	agg := *m.aggregates
	return &agg, nil
}

func (m *mockReconcileService) Reconcile(ctx context.Context, hubName string) (*primary.Aggregates, error) {
	m.reconciled = append(m.reconciled, hubName)
	return m.result(hubName)
}

func (m *mockReconcileService) Persist(ctx context.Context, hubName string) (*primary.Aggregates, error) {
	m.persisted = append(m.persisted, hubName)
	return m.result(hubName)
}

// fakeHasher implements secondary.PasswordHasher without bcrypt's cost.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Verify(hash, password string) bool { return hash == "hashed:"+password }

var (
	_ secondary.HubRepository          = (*mockHubRepository)(nil)
	_ secondary.HubMetricsRepository   = (*mockHubMetricsRepository)(nil)
	_ secondary.CapabilityRepository   = (*mockCapabilityRepository)(nil)
	_ secondary.ClientRepository       = (*mockClientRepository)(nil)
	_ secondary.PeopleMetricRepository = (*mockPeopleMetricRepository)(nil)
	_ secondary.UserRepository         = (*mockUserRepository)(nil)
	_ secondary.HealthRepository       = (*mockHealthRepository)(nil)
	_ primary.ReconcileService         = (*mockReconcileService)(nil)
	_ secondary.PasswordHasher         = fakeHasher{}
)
