package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hubledger/internal/core/codec"
	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/ports/secondary"
)

// ClientRepository implements secondary.ClientRepository with SQLite.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new SQLite client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientSelect = `
	SELECT id, hub_id, client_name,
		COALESCE(engagement_status, 'Active'), COALESCE(commercial_model, 'FTE'), COALESCE(capability_category, ''),
		COALESCE(capability_name, ''), COALESCE(relationship_duration, 0), COALESCE(scope_summary, ''), COALESCE(employee_count, 0),
		COALESCE(updated_at, ''), COALESCE(updated_by, ''), COALESCE(client_updated_at, '')
	FROM client_metrics`

func scanClient(s rowScanner) (*secondary.ClientRecord, error) {
	var (
		record       secondary.ClientRecord
		capabilities string
	)
	err := s.Scan(
		&record.ID, &record.HubID, &record.Name, &record.EngagementStatus, &record.CommercialModel, &record.CapabilityCategory,
		&capabilities, &record.RelationshipDuration, &record.ScopeSummary, &record.EmployeeCount,
		&record.UpdatedAt, &record.UpdatedBy, &record.ClientUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Capabilities = codec.DecodeNameList(capabilities)
	return &record, nil
}

// List retrieves a hub's clients ordered by name.
func (r *ClientRepository) List(ctx context.Context, hubID int64) ([]*secondary.ClientRecord, error) {
	rows, err := r.db.QueryContext(ctx, clientSelect+" WHERE hub_id = ? ORDER BY client_name ASC", hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ClientRecord
	for rows.Next() {
		record, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetByName retrieves one client of a hub.
func (r *ClientRepository) GetByName(ctx context.Context, hubID int64, name string) (*secondary.ClientRecord, error) {
	record, err := scanClient(r.db.QueryRowContext(ctx, clientSelect+" WHERE hub_id = ? AND client_name = ?", hubID, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client '%s': %w", name, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return record, nil
}

// Create persists a new client.
func (r *ClientRepository) Create(ctx context.Context, client *secondary.ClientRecord) error {
	capabilities, err := codec.EncodeNameList(client.Capabilities)
	if err != nil {
		return fmt.Errorf("failed to encode capabilities: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO client_metrics (hub_id, client_name, engagement_status, commercial_model, capability_category,
			capability_name, relationship_duration, scope_summary, employee_count,
			updated_at, updated_by, client_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?, CURRENT_TIMESTAMP)`,
		client.HubID, client.Name, client.EngagementStatus, client.CommercialModel, client.CapabilityCategory,
		capabilities, client.RelationshipDuration, client.ScopeSummary, client.EmployeeCount,
		ctxutil.ActorFromContext(ctx),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("client '%s' already exists: %w", client.Name, errs.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	client.ID, _ = result.LastInsertId()
	return nil
}

// Update rewrites an existing client identified by ID.
func (r *ClientRepository) Update(ctx context.Context, client *secondary.ClientRecord) error {
	capabilities, err := codec.EncodeNameList(client.Capabilities)
	if err != nil {
		return fmt.Errorf("failed to encode capabilities: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE client_metrics SET
			client_name = ?, engagement_status = ?, commercial_model = ?, capability_category = ?,
			capability_name = ?, relationship_duration = ?, scope_summary = ?, employee_count = ?,
			updated_at = CURRENT_TIMESTAMP, updated_by = ?, client_updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		client.Name, client.EngagementStatus, client.CommercialModel, client.CapabilityCategory,
		capabilities, client.RelationshipDuration, client.ScopeSummary, client.EmployeeCount,
		ctxutil.ActorFromContext(ctx), client.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("client '%s' already exists: %w", client.Name, errs.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if affected(result) == 0 {
		return fmt.Errorf("client %d: %w", client.ID, errs.ErrNotFound)
	}
	return nil
}

// Delete removes one client.
func (r *ClientRepository) Delete(ctx context.Context, hubID int64, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM client_metrics WHERE hub_id = ? AND client_name = ?", hubID, name)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if affected(result) == 0 {
		return fmt.Errorf("client '%s': %w", name, errs.ErrNotFound)
	}
	return nil
}

// Count returns the number of clients of a hub.
func (r *ClientRepository) Count(ctx context.Context, hubID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM client_metrics WHERE hub_id = ?", hubID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}

// Ensure ClientRepository implements the interface.
var _ secondary.ClientRepository = (*ClientRepository)(nil)
