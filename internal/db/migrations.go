package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/hubledger/internal/core/freshness"
)

// MigrationReport summarizes one migrator run.
type MigrationReport struct {
	Created    []string
	Added      []ColumnRef
	Skipped    []ColumnRef
	Backfilled map[ColumnRef]int64
	Normalized map[ColumnRef]int64
}

// Changed reports whether the run altered the store.
func (r *MigrationReport) Changed() bool {
	if len(r.Created) > 0 || len(r.Added) > 0 || len(r.Normalized) > 0 {
		return true
	}
	for _, n := range r.Backfilled {
		if n > 0 {
			return true
		}
	}
	return false
}

// Migrator brings a live store up to the registry. It only ever creates
// tables, adds columns and replaces NULLs with column defaults; nothing is
// dropped or renamed.
type Migrator struct {
	db       *sql.DB
	registry *Registry
	logger   *zap.Logger
	now      func() time.Time
}

// NewMigrator creates a migrator. A nil logger discards output and a nil
// clock uses the wall clock.
func NewMigrator(db *sql.DB, registry *Registry, logger *zap.Logger, now func() time.Time) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Migrator{db: db, registry: registry, logger: logger, now: now}
}

// Migrate runs the migrator once.
func Migrate(ctx context.Context, db *sql.DB, registry *Registry, logger *zap.Logger, now func() time.Time) (*MigrationReport, error) {
	return NewMigrator(db, registry, logger, now).Run(ctx)
}

// Run creates missing tables, then adds every registry column the live
// tables lack. Existing nullable columns that the registry declares NOT NULL
// with a constant default get their NULLs replaced by that default, so reads
// and composite UNIQUE keys behave as on a fresh store. Backfill columns
// are stamped wherever they are NULL, whether just added or already live.
// Each ADD COLUMN is attempted on its own: a failure is logged and recorded
// in Skipped, and the run continues. Errors are only returned
// when the store cannot be inspected at all.
func (m *Migrator) Run(ctx context.Context) (*MigrationReport, error) {
	report := &MigrationReport{
		Backfilled: map[ColumnRef]int64{},
		Normalized: map[ColumnRef]int64{},
	}
	stamp := freshness.Format(m.now())

	for _, table := range m.registry.Tables() {
		existing, err := m.liveColumns(ctx, table.Name)
		if err != nil {
			return nil, err
		}

		if len(existing) == 0 {
			if _, err := m.db.ExecContext(ctx, table.CreateSQL()); err != nil {
				return nil, fmt.Errorf("failed to create table %s: %w", table.Name, err)
			}
			m.logger.Info("created table", zap.String("table", table.Name))
			report.Created = append(report.Created, table.Name)
			continue
		}

		for _, col := range table.Columns {
			ref := ColumnRef{Table: table.Name, Column: col.Name}

			if live, ok := existing[col.Name]; ok {
				if col.Backfill {
					n, err := m.backfill(ctx, table.Name, col, stamp)
					if err != nil {
						m.logger.Warn("failed to backfill column",
							zap.String("column", ref.String()),
							zap.Error(err),
						)
					} else if n > 0 {
						report.Backfilled[ref] = n
					}
				}
				if live.notNull || !col.NotNull || col.Default == "" || !col.constantDefault() {
					continue
				}
				n, err := m.normalize(ctx, table.Name, col)
				if err != nil {
					m.logger.Warn("failed to normalize column",
						zap.String("column", ref.String()),
						zap.Error(err),
					)
					continue
				}
				if n > 0 {
					m.logger.Info("normalized column", zap.String("column", ref.String()), zap.Int64("rows", n))
					report.Normalized[ref] = n
				}
				continue
			}

			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table.Name, col.AddDefinition())
			if _, err := m.db.ExecContext(ctx, stmt); err != nil {
				m.logger.Warn("failed to add column",
					zap.String("column", ref.String()),
					zap.Error(err),
				)
				report.Skipped = append(report.Skipped, ref)
				continue
			}
			m.logger.Info("added column", zap.String("column", ref.String()))
			report.Added = append(report.Added, ref)

			if col.Backfill {
				n, err := m.backfill(ctx, table.Name, col, stamp)
				if err != nil {
					m.logger.Warn("failed to backfill column",
						zap.String("column", ref.String()),
						zap.Error(err),
					)
					continue
				}
				report.Backfilled[ref] = n
			}
		}
	}

	return report, nil
}

type liveColumn struct {
	notNull bool
}

// liveColumns returns the columns of a table, or an empty set when the
// table does not exist.
func (m *Migrator) liveColumns(ctx context.Context, table string) (map[string]liveColumn, error) {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]liveColumn{}
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan columns of %s: %w", table, err)
		}
		cols[name] = liveColumn{notNull: notNull != 0}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	return cols, nil
}

// backfill stamps existing rows of a freshly added column in one statement.
func (m *Migrator) backfill(ctx context.Context, table string, col Column, stamp string) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if col.BackfillFrom != "" {
		result, err = m.db.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET %s = COALESCE(%s, ?) WHERE %s IS NULL", table, col.Name, col.BackfillFrom, col.Name),
			stamp,
		)
	} else {
		result, err = m.db.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s IS NULL", table, col.Name, col.Name),
			stamp,
		)
	}
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// normalize replaces the NULLs of an existing column with its default in one
// statement.
func (m *Migrator) normalize(ctx context.Context, table string, col Column) (int64, error) {
	result, err := m.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s IS NULL", table, col.Name, col.Default, col.Name),
	)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	return n, nil
}
