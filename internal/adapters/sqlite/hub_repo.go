// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/ports/secondary"
)

// HubRepository implements secondary.HubRepository with SQLite.
type HubRepository struct {
	db *sql.DB
}

// NewHubRepository creates a new SQLite hub repository.
func NewHubRepository(db *sql.DB) *HubRepository {
	return &HubRepository{db: db}
}

// List retrieves all hubs ordered by name.
func (r *HubRepository) List(ctx context.Context) ([]*secondary.HubRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, hub_name, COALESCE(created_at, ''), COALESCE(updated_at, '') FROM hubs ORDER BY hub_name ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list hubs: %w", err)
	}
	defer rows.Close()

	var hubs []*secondary.HubRecord
	for rows.Next() {
		record := &secondary.HubRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hub: %w", err)
		}
		hubs = append(hubs, record)
	}

	return hubs, rows.Err()
}

// GetByName retrieves a hub by its name.
func (r *HubRepository) GetByName(ctx context.Context, name string) (*secondary.HubRecord, error) {
	record := &secondary.HubRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, hub_name, COALESCE(created_at, ''), COALESCE(updated_at, '') FROM hubs WHERE hub_name = ?",
		name,
	).Scan(&record.ID, &record.Name, &record.CreatedAt, &record.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("hub '%s': %w", name, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hub: %w", err)
	}

	return record, nil
}

// Create persists a new hub and its metrics row in one transaction.
func (r *HubRepository) Create(ctx context.Context, name string) (*secondary.HubRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "INSERT INTO hubs (hub_name) VALUES (?)", name)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("hub '%s' already exists: %w", name, errs.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create hub: %w", err)
	}
	hubID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read hub id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO hub_metrics (hub_id, updated_by) VALUES (?, ?)",
		hubID, ctxutil.ActorFromContext(ctx),
	); err != nil {
		return nil, fmt.Errorf("failed to create hub metrics: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit hub: %w", err)
	}

	return r.GetByName(ctx, name)
}

// Ensure HubRepository implements the interface.
var _ secondary.HubRepository = (*HubRepository)(nil)
