package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/ports/secondary"
)

// PeopleMetricRepository implements secondary.PeopleMetricRepository with SQLite.
type PeopleMetricRepository struct {
	db *sql.DB
}

// NewPeopleMetricRepository creates a new SQLite people metric repository.
func NewPeopleMetricRepository(db *sql.DB) *PeopleMetricRepository {
	return &PeopleMetricRepository{db: db}
}

// List retrieves a hub's metrics; an empty category returns all of them.
func (r *PeopleMetricRepository) List(ctx context.Context, hubID int64, category string) ([]*secondary.PeopleMetricRecord, error) {
	query := `
		SELECT id, hub_id, metric_name, COALESCE(metric_value, 0), COALESCE(metric_category, ''),
			COALESCE(time_period, ''), COALESCE(hiring_reason, ''),
			COALESCE(updated_at, ''), COALESCE(updated_by, ''), COALESCE(people_metric_updated_at, ''), COALESCE(date_created, '')
		FROM people_metrics
		WHERE hub_id = ?`
	args := []any{hubID}
	if category != "" {
		query += " AND metric_category = ?"
		args = append(args, category)
	}
	query += " ORDER BY metric_category ASC, time_period ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list people metrics: %w", err)
	}
	defer rows.Close()

	var records []*secondary.PeopleMetricRecord
	for rows.Next() {
		record := &secondary.PeopleMetricRecord{}
		err := rows.Scan(
			&record.ID, &record.HubID, &record.Name, &record.Value, &record.Category, &record.Period, &record.HiringReason,
			&record.UpdatedAt, &record.UpdatedBy, &record.PeopleMetricUpdatedAt, &record.DateCreated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan people metric: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Upsert inserts each metric or updates the existing row with the same key,
// all in one transaction. date_created is only set on insert.
func (r *PeopleMetricRepository) Upsert(ctx context.Context, metrics ...*secondary.PeopleMetricRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	actor := ctxutil.ActorFromContext(ctx)
	for _, metric := range metrics {
		if err := upsertMetric(ctx, tx, metric, actor); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit people metrics: %w", err)
	}
	return nil
}

func upsertMetric(ctx context.Context, tx *sql.Tx, metric *secondary.PeopleMetricRecord, actor string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO people_metrics (hub_id, metric_name, metric_value, metric_category, time_period, hiring_reason,
			updated_at, updated_by, people_metric_updated_at, date_created)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(hub_id, metric_name, time_period, hiring_reason) DO UPDATE SET
			metric_value = excluded.metric_value,
			metric_category = excluded.metric_category,
			updated_at = CURRENT_TIMESTAMP,
			updated_by = excluded.updated_by,
			people_metric_updated_at = CURRENT_TIMESTAMP`,
		metric.HubID, metric.Name, metric.Value, metric.Category, metric.Period, metric.HiringReason,
		actor,
	)
	if err != nil {
		return fmt.Errorf("failed to save people metric %s: %w", metric.Name, err)
	}
	return nil
}

// InsertIfAbsent inserts a metric unless its key already exists.
func (r *PeopleMetricRepository) InsertIfAbsent(ctx context.Context, metric *secondary.PeopleMetricRecord) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO people_metrics (hub_id, metric_name, metric_value, metric_category, time_period, hiring_reason,
			updated_at, updated_by, people_metric_updated_at, date_created)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(hub_id, metric_name, time_period, hiring_reason) DO NOTHING`,
		metric.HubID, metric.Name, metric.Value, metric.Category, metric.Period, metric.HiringReason,
		ctxutil.ActorFromContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert people metric: %w", err)
	}
	return affected(result) > 0, nil
}

// UpdateValue sets the value of one metric row.
func (r *PeopleMetricRepository) UpdateValue(ctx context.Context, id int64, value float64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE people_metrics SET
			metric_value = ?, updated_at = CURRENT_TIMESTAMP, updated_by = ?, people_metric_updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		value, ctxutil.ActorFromContext(ctx), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update people metric: %w", err)
	}
	if affected(result) == 0 {
		return fmt.Errorf("people metric %d: %w", id, errs.ErrNotFound)
	}
	return nil
}

// Delete removes one metric row.
func (r *PeopleMetricRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM people_metrics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete people metric: %w", err)
	}
	if affected(result) == 0 {
		return fmt.Errorf("people metric %d: %w", id, errs.ErrNotFound)
	}
	return nil
}

// Ensure PeopleMetricRepository implements the interface.
var _ secondary.PeopleMetricRepository = (*PeopleMetricRepository)(nil)
