package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/ports/secondary"
)

// CapabilityRepository implements secondary.CapabilityRepository with SQLite.
type CapabilityRepository struct {
	db *sql.DB
}

// NewCapabilityRepository creates a new SQLite capability repository.
func NewCapabilityRepository(db *sql.DB) *CapabilityRepository {
	return &CapabilityRepository{db: db}
}

const capabilitySelect = `
	SELECT id, hub_id, capability_name, capability_category, COALESCE(headcount, 0), COALESCE(percentage, 0),
		COALESCE(updated_at, ''), COALESCE(updated_by, ''), COALESCE(capability_updated_at, '')
	FROM hub_capabilities`

func scanCapability(s rowScanner) (*secondary.CapabilityRecord, error) {
	record := &secondary.CapabilityRecord{}
	err := s.Scan(
		&record.ID, &record.HubID, &record.Name, &record.Category, &record.Headcount, &record.Percentage,
		&record.UpdatedAt, &record.UpdatedBy, &record.CapabilityUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves a hub's capabilities ordered by category then name.
func (r *CapabilityRepository) List(ctx context.Context, hubID int64) ([]*secondary.CapabilityRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		capabilitySelect+" WHERE hub_id = ? ORDER BY capability_category ASC, capability_name ASC",
		hubID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list capabilities: %w", err)
	}
	defer rows.Close()

	var records []*secondary.CapabilityRecord
	for rows.Next() {
		record, err := scanCapability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capability: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetByName retrieves one capability of a hub.
func (r *CapabilityRepository) GetByName(ctx context.Context, hubID int64, name string) (*secondary.CapabilityRecord, error) {
	record, err := scanCapability(r.db.QueryRowContext(ctx,
		capabilitySelect+" WHERE hub_id = ? AND capability_name = ?",
		hubID, name,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("capability '%s': %w", name, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capability: %w", err)
	}
	return record, nil
}

// Create persists a new capability.
func (r *CapabilityRepository) Create(ctx context.Context, capability *secondary.CapabilityRecord) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO hub_capabilities (hub_id, capability_name, capability_category, headcount, percentage,
			updated_at, updated_by, capability_updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?, CURRENT_TIMESTAMP)`,
		capability.HubID, capability.Name, capability.Category, capability.Headcount, capability.Percentage,
		ctxutil.ActorFromContext(ctx),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("capability '%s' already exists: %w", capability.Name, errs.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create capability: %w", err)
	}

	capability.ID, _ = result.LastInsertId()
	return nil
}

// UpdateHeadcount sets the headcount of one capability.
func (r *CapabilityRepository) UpdateHeadcount(ctx context.Context, hubID int64, name string, headcount int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE hub_capabilities SET
			headcount = ?, updated_at = CURRENT_TIMESTAMP, updated_by = ?, capability_updated_at = CURRENT_TIMESTAMP
		WHERE hub_id = ? AND capability_name = ?`,
		headcount, ctxutil.ActorFromContext(ctx), hubID, name,
	)
	return checkCapabilityWrite(result, err, name)
}

// UpdatePercentage sets the percentage of one capability.
func (r *CapabilityRepository) UpdatePercentage(ctx context.Context, hubID int64, name string, percentage float64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE hub_capabilities SET
			percentage = ?, updated_at = CURRENT_TIMESTAMP, updated_by = ?, capability_updated_at = CURRENT_TIMESTAMP
		WHERE hub_id = ? AND capability_name = ?`,
		percentage, ctxutil.ActorFromContext(ctx), hubID, name,
	)
	return checkCapabilityWrite(result, err, name)
}

// Delete removes one capability.
func (r *CapabilityRepository) Delete(ctx context.Context, hubID int64, name string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM hub_capabilities WHERE hub_id = ? AND capability_name = ?",
		hubID, name,
	)
	return checkCapabilityWrite(result, err, name)
}

// Count returns the number of capabilities of a hub.
func (r *CapabilityRepository) Count(ctx context.Context, hubID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hub_capabilities WHERE hub_id = ?", hubID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count capabilities: %w", err)
	}
	return count, nil
}

func checkCapabilityWrite(result sql.Result, err error, name string) error {
	if err != nil {
		return fmt.Errorf("failed to write capability: %w", err)
	}
	if affected(result) == 0 {
		return fmt.Errorf("capability '%s': %w", name, errs.ErrNotFound)
	}
	return nil
}

// Ensure CapabilityRepository implements the interface.
var _ secondary.CapabilityRepository = (*CapabilityRepository)(nil)
