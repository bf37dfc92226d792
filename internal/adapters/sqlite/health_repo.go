package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hubledger/internal/ports/secondary"
)

// HealthRepository implements secondary.HealthRepository with SQLite.
type HealthRepository struct {
	db *sql.DB
}

// NewHealthRepository creates a new SQLite health repository.
func NewHealthRepository(db *sql.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

// LastUpdates returns the latest update time of each data category per hub.
func (r *HealthRepository) LastUpdates(ctx context.Context) ([]*secondary.HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT h.hub_name,
			COALESCE(m.updated_at, ''),
			COALESCE((SELECT MAX(c.updated_at) FROM hub_capabilities c WHERE c.hub_id = h.id), ''),
			COALESCE((SELECT MAX(cl.updated_at) FROM client_metrics cl WHERE cl.hub_id = h.id), ''),
			COALESCE((SELECT MAX(p.updated_at) FROM people_metrics p WHERE p.hub_id = h.id), '')
		FROM hubs h
		JOIN hub_metrics m ON m.hub_id = h.id
		ORDER BY h.hub_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query data health: %w", err)
	}
	defer rows.Close()

	var records []*secondary.HealthRecord
	for rows.Next() {
		record := &secondary.HealthRecord{}
		err := rows.Scan(&record.HubName, &record.MetricsUpdatedAt, &record.CapabilitiesUpdatedAt,
			&record.ClientsUpdatedAt, &record.PeopleUpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan data health: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Ensure HealthRepository implements the interface.
var _ secondary.HealthRepository = (*HealthRepository)(nil)
