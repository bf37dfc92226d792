package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// withoutColumns returns a copy of r whose table lacks cols, along with any
// constraint that mentions them. It stands in for an older store layout.
func withoutColumns(r *Registry, table string, cols ...string) *Registry {
	drop := map[string]bool{}
	for _, c := range cols {
		drop[c] = true
	}

	tables := r.Tables()
	for i, tbl := range tables {
		if tbl.Name != table {
			continue
		}
		var kept []Column
		for _, c := range tbl.Columns {
			if !drop[c.Name] {
				kept = append(kept, c)
			}
		}
		var constraints []string
		for _, con := range tbl.Constraints {
			mentions := false
			for c := range drop {
				if strings.Contains(con, c) {
					mentions = true
				}
			}
			if !mentions {
				constraints = append(constraints, con)
			}
		}
		tables[i].Columns = kept
		tables[i].Constraints = constraints
	}
	return NewRegistry(tables...)
}

func hasRef(refs []ColumnRef, table, column string) bool {
	for _, r := range refs {
		if r.Table == table && r.Column == column {
			return true
		}
	}
	return false
}

func TestMigrate_FreshStoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	report, err := Migrate(ctx, database, DefaultRegistry(), zap.NewNop(), clock)
	require.NoError(t, err)
	assert.Len(t, report.Created, len(DefaultRegistry().Tables()))
	assert.Empty(t, report.Added)
	assert.True(t, report.Changed())

	report, err = Migrate(ctx, database, DefaultRegistry(), zap.NewNop(), clock)
	require.NoError(t, err)
	assert.Empty(t, report.Created)
	assert.Empty(t, report.Added)
	assert.Empty(t, report.Skipped)
	assert.False(t, report.Changed())
}

func TestMigrate_AddsMissingColumnsAndBackfills(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	legacy := withoutColumns(DefaultRegistry(), "hub_metrics", "bench_count", "location_updated_at", "certifications_updated_at")
	legacy = withoutColumns(legacy, "people_metrics", "date_created", "hiring_reason")
	_, err := database.Exec(legacy.SchemaSQL())
	require.NoError(t, err)

	_, err = database.Exec("INSERT INTO hubs (id, hub_name) VALUES (1, 'AKQA')")
	require.NoError(t, err)
	_, err = database.Exec("INSERT INTO hub_metrics (hub_id, total_seats, updated_at) VALUES (1, 40, '2024-06-01 09:00:00')")
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO people_metrics (hub_id, metric_name, metric_value, metric_category, time_period, updated_at)
		VALUES (1, 'Single', 55, 'Marital Status', '2025', '2024-01-01 00:00:00')`)
	require.NoError(t, err)

	report, err := Migrate(ctx, database, DefaultRegistry(), zap.NewNop(), clock)
	require.NoError(t, err)

	assert.Empty(t, report.Skipped)
	assert.True(t, hasRef(report.Added, "hub_metrics", "bench_count"))
	assert.True(t, hasRef(report.Added, "hub_metrics", "location_updated_at"))
	assert.True(t, hasRef(report.Added, "people_metrics", "date_created"))
	assert.True(t, hasRef(report.Added, "people_metrics", "hiring_reason"))
	assert.Equal(t, int64(1), report.Backfilled[ColumnRef{Table: "hub_metrics", Column: "location_updated_at"}])

	var (
		bench        int
		locationAt   string
		certsAt      string
		seats        int
		dateCreated  string
		hiringReason string
	)
	require.NoError(t, database.QueryRow(
		"SELECT bench_count, location_updated_at, certifications_updated_at, total_seats FROM hub_metrics WHERE hub_id = 1",
	).Scan(&bench, &locationAt, &certsAt, &seats))
	assert.Equal(t, 0, bench)
	assert.Equal(t, "2025-03-01 10:00:00", locationAt)
	assert.Equal(t, "2025-03-01 10:00:00", certsAt)
	assert.Equal(t, 40, seats, "existing data must be preserved")

	require.NoError(t, database.QueryRow(
		"SELECT date_created, hiring_reason FROM people_metrics WHERE hub_id = 1",
	).Scan(&dateCreated, &hiringReason))
	assert.Equal(t, "2024-01-01 00:00:00", dateCreated)
	assert.Equal(t, "", hiringReason)

	report, err = Migrate(ctx, database, DefaultRegistry(), zap.NewNop(), clock)
	require.NoError(t, err)
	assert.Empty(t, report.Added)
}

// openLegacyStore loads the nullable layout of the first console release
// with one row per table.
func openLegacyStore(t *testing.T) *sql.DB {
	t.Helper()
	ddl, err := os.ReadFile("testdata/legacy_schema.sql")
	require.NoError(t, err)
	database := openTestDB(t)
	_, err = database.Exec(string(ddl))
	require.NoError(t, err)
	return database
}

func TestMigrate_LegacyStore(t *testing.T) {
	ctx := context.Background()
	database := openLegacyStore(t)

	report, err := Migrate(ctx, database, DefaultRegistry(), zap.NewNop(), clock)
	require.NoError(t, err)

	assert.Empty(t, report.Created)
	assert.Empty(t, report.Skipped)
	for _, ref := range []ColumnRef{
		{Table: "hub_metrics", Column: "metrics_updated_at"},
		{Table: "hub_capabilities", Column: "percentage"},
		{Table: "client_metrics", Column: "employee_count"},
		{Table: "client_metrics", Column: "client_updated_at"},
		{Table: "people_metrics", Column: "date_created"},
	} {
		assert.True(t, hasRef(report.Added, ref.Table, ref.Column), "expected %s to be added", ref)
	}

	assert.Equal(t, int64(2), report.Normalized[ColumnRef{Table: "people_metrics", Column: "hiring_reason"}])
	assert.Equal(t, int64(1), report.Normalized[ColumnRef{Table: "hub_metrics", Column: "location_headcounts"}])
	assert.Equal(t, int64(1), report.Normalized[ColumnRef{Table: "client_metrics", Column: "engagement_status"}])
	assert.Equal(t, int64(1), report.Normalized[ColumnRef{Table: "users", Column: "is_admin"}])
	assert.Equal(t, int64(1), report.Backfilled[ColumnRef{Table: "users", Column: "created_at"}])

	var nulls int
	require.NoError(t, database.QueryRow(
		"SELECT COUNT(*) FROM people_metrics WHERE hiring_reason IS NULL",
	).Scan(&nulls))
	assert.Zero(t, nulls)

	var (
		campus   string
		seats    int
		certs    string
		duration float64
		status   string
	)
	require.NoError(t, database.QueryRow(
		"SELECT campus_type, total_seats, certifications FROM hub_metrics WHERE hub_id = 1",
	).Scan(&campus, &seats, &certs))
	assert.Equal(t, "Outside-Campus", campus)
	assert.Equal(t, 40, seats, "existing data must be preserved")
	assert.Equal(t, `{"ISO 27001": 2.5, "SOC 2": 1}`, certs)

	require.NoError(t, database.QueryRow(
		"SELECT relationship_duration, engagement_status FROM client_metrics WHERE client_name = 'Legacy Client'",
	).Scan(&duration, &status))
	assert.Equal(t, 2.5, duration)
	assert.Equal(t, "Active", status)

	report, err = Migrate(ctx, database, DefaultRegistry(), zap.NewNop(), clock)
	require.NoError(t, err)
	assert.False(t, report.Changed())
}

func TestMigrate_LegacyHiringReasonKeepsUpsertKey(t *testing.T) {
	ctx := context.Background()
	database := openLegacyStore(t)

	_, err := Migrate(ctx, database, DefaultRegistry(), zap.NewNop(), clock)
	require.NoError(t, err)

	_, err = database.Exec(`
		INSERT INTO people_metrics (hub_id, metric_name, metric_value, metric_category, time_period, hiring_reason)
		VALUES (1, 'Permanent Employees', 85, 'Employment Type', 'Jan 2025', '')
		ON CONFLICT(hub_id, metric_name, time_period, hiring_reason) DO UPDATE SET metric_value = excluded.metric_value`)
	require.NoError(t, err)

	var (
		rows  int
		value float64
	)
	require.NoError(t, database.QueryRow(
		"SELECT COUNT(*), MAX(metric_value) FROM people_metrics WHERE metric_name = 'Permanent Employees'",
	).Scan(&rows, &value))
	assert.Equal(t, 1, rows)
	assert.Equal(t, 85.0, value)
}

func TestMigrate_FailedColumnDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	legacy := NewRegistry(Table{Name: "widgets", Columns: []Column{idColumn()}})
	_, err := database.Exec(legacy.SchemaSQL())
	require.NoError(t, err)

	target := NewRegistry(Table{Name: "widgets", Columns: []Column{
		idColumn(),
		requiredText("label"), // NOT NULL without a default cannot be added
		{Name: "note", Type: "TEXT"},
	}})

	report, err := Migrate(ctx, database, target, zap.NewNop(), clock)
	require.NoError(t, err)
	assert.Equal(t, []ColumnRef{{Table: "widgets", Column: "label"}}, report.Skipped)
	assert.Equal(t, []ColumnRef{{Table: "widgets", Column: "note"}}, report.Added)
}

func TestMigrator_Run_WithMock(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	target := NewRegistry(Table{Name: "widgets", Columns: []Column{
		idColumn(),
		{Name: "label", Type: "TEXT"},
		timestampColumn("seen_at"),
	}})

	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(widgets)")).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "id", "INTEGER", 0, nil, 1))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE widgets ADD COLUMN label TEXT")).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE widgets ADD COLUMN seen_at TEXT")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE widgets SET seen_at = ? WHERE seen_at IS NULL")).
		WithArgs("2025-03-01 10:00:00").
		WillReturnResult(sqlmock.NewResult(0, 3))

	report, err := NewMigrator(database, target, zap.NewNop(), clock).Run(context.Background())
	require.NoError(t, err)

	seen := ColumnRef{Table: "widgets", Column: "seen_at"}
	assert.Equal(t, []ColumnRef{{Table: "widgets", Column: "label"}}, report.Skipped)
	assert.Equal(t, []ColumnRef{seen}, report.Added)
	assert.Equal(t, int64(3), report.Backfilled[seen])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_Run_InspectFailure(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(widgets)")).
		WillReturnError(errors.New("disk I/O error"))

	target := NewRegistry(Table{Name: "widgets", Columns: []Column{idColumn()}})
	_, err = NewMigrator(database, target, nil, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to inspect table widgets")
}

func TestMigrator_Run_NormalizesNullableColumns(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	target := NewRegistry(Table{Name: "widgets", Columns: []Column{
		idColumn(),
		textColumn("status", "Active"),
		intColumn("size"),
	}})

	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(widgets)")).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "id", "INTEGER", 0, nil, 1).
			AddRow(1, "status", "TEXT", 0, nil, 0).
			AddRow(2, "size", "INTEGER", 1, "0", 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE widgets SET status = 'Active' WHERE status IS NULL")).
		WillReturnResult(sqlmock.NewResult(0, 4))

	report, err := NewMigrator(database, target, zap.NewNop(), clock).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), report.Normalized[ColumnRef{Table: "widgets", Column: "status"}])
	assert.Empty(t, report.Added)
	assert.True(t, report.Changed())
	assert.NoError(t, mock.ExpectationsWereMet())
}
