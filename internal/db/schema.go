package db

import (
	"fmt"
	"strings"
)

// Column describes one column the store must have.
//
// Default is a SQL literal ("0", "'No'", "CURRENT_TIMESTAMP"). When the
// migrator adds a column to an existing table, non-constant defaults are
// left out (SQLite rejects them on ADD COLUMN) and Backfill fills the gap.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	NotNull    bool
	Default    string
	References string

	// Backfill stamps existing rows when the column is added to a live table.
	// BackfillFrom names a column to copy from; the current time is used
	// when it is empty or NULL.
	Backfill     bool
	BackfillFrom string
}

// Table describes one table: its columns in order and any table-level
// constraints such as composite UNIQUE keys.
type Table struct {
	Name        string
	Columns     []Column
	Constraints []string
}

// ColumnRef identifies a column in the report of a migration run.
type ColumnRef struct {
	Table  string
	Column string
}

func (r ColumnRef) String() string {
	return r.Table + "." + r.Column
}

// Registry is the declarative schema. It is the SINGLE SOURCE OF TRUTH for
// the store: fresh installs render their DDL from it and the migrator
// compares live tables against it. Registries are never mutated after
// construction; accessors return copies.
type Registry struct {
	tables []Table
}

// NewRegistry builds a registry from tables, in creation order
// (parents before children).
func NewRegistry(tables ...Table) *Registry {
	return &Registry{tables: copyTables(tables)}
}

// Tables returns the tables in creation order.
func (r *Registry) Tables() []Table {
	return copyTables(r.tables)
}

// Table returns a single table by name.
func (r *Registry) Table(name string) (Table, bool) {
	for _, t := range r.tables {
		if t.Name == name {
			return copyTables([]Table{t})[0], true
		}
	}
	return Table{}, false
}

// Columns returns the required columns of a table.
func (r *Registry) Columns(table string) ([]Column, error) {
	t, ok := r.Table(table)
	if !ok {
		return nil, fmt.Errorf("table %s is not in the schema registry", table)
	}
	return t.Columns, nil
}

// SchemaSQL renders CREATE TABLE IF NOT EXISTS statements for every table.
func (r *Registry) SchemaSQL() string {
	var b strings.Builder
	for i, t := range r.tables {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t.CreateSQL())
		b.WriteString(";\n")
	}
	return b.String()
}

// CreateSQL renders the CREATE TABLE IF NOT EXISTS statement of a table.
func (t Table) CreateSQL() string {
	lines := make([]string, 0, len(t.Columns)+len(t.Constraints))
	for _, c := range t.Columns {
		lines = append(lines, "\t"+c.Definition())
	}
	for _, c := range t.Constraints {
		lines = append(lines, "\t"+c)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", t.Name, strings.Join(lines, ",\n"))
}

// Definition renders the column as it appears in CREATE TABLE.
func (c Column) Definition() string {
	return c.render(true)
}

// AddDefinition renders the column for ALTER TABLE ADD COLUMN.
func (c Column) AddDefinition() string {
	return c.render(c.constantDefault())
}

func (c Column) render(withDefault bool) string {
	parts := []string{c.Name, c.Type}
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY AUTOINCREMENT")
	}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if withDefault && c.Default != "" {
		parts = append(parts, "DEFAULT "+c.Default)
	}
	if c.References != "" {
		parts = append(parts, "REFERENCES "+c.References)
	}
	return strings.Join(parts, " ")
}

func (c Column) constantDefault() bool {
	switch strings.ToUpper(c.Default) {
	case "CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME":
		return false
	}
	return !strings.HasPrefix(c.Default, "(")
}

func copyTables(in []Table) []Table {
	out := make([]Table, len(in))
	for i, t := range in {
		out[i] = Table{
			Name:        t.Name,
			Columns:     append([]Column(nil), t.Columns...),
			Constraints: append([]string(nil), t.Constraints...),
		}
	}
	return out
}

// Column helpers keep the table declarations below readable.

func idColumn() Column {
	return Column{Name: "id", Type: "INTEGER", PrimaryKey: true}
}

func hubRef() Column {
	return Column{Name: "hub_id", Type: "INTEGER", NotNull: true, References: "hubs(id) ON DELETE CASCADE"}
}

func intColumn(name string) Column {
	return Column{Name: name, Type: "INTEGER", NotNull: true, Default: "0"}
}

func realColumn(name string) Column {
	return Column{Name: name, Type: "REAL", NotNull: true, Default: "0"}
}

func textColumn(name, def string) Column {
	return Column{Name: name, Type: "TEXT", NotNull: true, Default: "'" + strings.ReplaceAll(def, "'", "''") + "'"}
}

func requiredText(name string) Column {
	return Column{Name: name, Type: "TEXT", NotNull: true}
}

// timestampColumn is stored as TEXT in the CURRENT_TIMESTAMP format so values
// reach Go as strings rather than being converted by the driver.
func timestampColumn(name string) Column {
	return Column{Name: name, Type: "TEXT", Default: "CURRENT_TIMESTAMP", Backfill: true}
}

// registry is the hub ledger schema.
var registry = NewRegistry(
	Table{
		Name: "hubs",
		Columns: []Column{
			idColumn(),
			requiredText("hub_name"),
			timestampColumn("created_at"),
			timestampColumn("updated_at"),
		},
		Constraints: []string{"UNIQUE(hub_name)"},
	},
	Table{
		Name: "users",
		Columns: []Column{
			idColumn(),
			requiredText("username"),
			requiredText("password_hash"),
			requiredText("hub_name"),
			intColumn("is_admin"),
			timestampColumn("created_at"),
		},
		Constraints: []string{"UNIQUE(username)"},
	},
	Table{
		Name: "hub_metrics",
		Columns: []Column{
			idColumn(),
			hubRef(),
			intColumn("total_headcount"),
			intColumn("total_seats"),
			intColumn("total_clients"),
			intColumn("services_offered"),
			realColumn("female_percent"),
			realColumn("male_percent"),
			realColumn("other_gender_percent"),
			textColumn("campus_type", "Outside-Campus"),
			textColumn("sez_status", "No"),
			textColumn("location", ""),
			textColumn("coverage_hours", "24x5"),
			textColumn("transport_facilities", "No"),
			intColumn("bench_count"),
			textColumn("location_headcounts", "{}"),
			textColumn("certifications", "{}"),
			timestampColumn("updated_at"),
			textColumn("updated_by", ""),
			timestampColumn("metrics_updated_at"),
			timestampColumn("location_updated_at"),
			timestampColumn("certifications_updated_at"),
		},
		Constraints: []string{"UNIQUE(hub_id)"},
	},
	Table{
		Name: "hub_capabilities",
		Columns: []Column{
			idColumn(),
			hubRef(),
			requiredText("capability_name"),
			requiredText("capability_category"),
			intColumn("headcount"),
			realColumn("percentage"),
			timestampColumn("updated_at"),
			textColumn("updated_by", ""),
			timestampColumn("capability_updated_at"),
		},
		Constraints: []string{"UNIQUE(hub_id, capability_name)"},
	},
	Table{
		Name: "client_metrics",
		Columns: []Column{
			idColumn(),
			hubRef(),
			requiredText("client_name"),
			textColumn("engagement_status", "Active"),
			textColumn("commercial_model", "FTE"),
			textColumn("capability_category", ""),
			textColumn("capability_name", "[]"),
			realColumn("relationship_duration"),
			textColumn("scope_summary", ""),
			intColumn("employee_count"),
			timestampColumn("updated_at"),
			textColumn("updated_by", ""),
			timestampColumn("client_updated_at"),
		},
		Constraints: []string{"UNIQUE(hub_id, client_name)"},
	},
	Table{
		Name: "people_metrics",
		Columns: []Column{
			idColumn(),
			hubRef(),
			requiredText("metric_name"),
			realColumn("metric_value"),
			requiredText("metric_category"),
			requiredText("time_period"),
			textColumn("hiring_reason", ""),
			timestampColumn("updated_at"),
			textColumn("updated_by", ""),
			timestampColumn("people_metric_updated_at"),
			{Name: "date_created", Type: "TEXT", Default: "CURRENT_TIMESTAMP", Backfill: true, BackfillFrom: "updated_at"},
		},
		Constraints: []string{"UNIQUE(hub_id, metric_name, time_period, hiring_reason)"},
	},
)

// DefaultRegistry returns the hub ledger schema registry.
func DefaultRegistry() *Registry {
	return registry
}

// SchemaSQL returns the authoritative DDL for fresh stores and tests.
// Tests use this instead of hardcoding CREATE TABLE statements so they
// cannot drift from production.
func SchemaSQL() string {
	return registry.SchemaSQL()
}
