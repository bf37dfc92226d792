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

// HubMetricsRepository implements secondary.HubMetricsRepository with SQLite.
type HubMetricsRepository struct {
	db *sql.DB
}

// NewHubMetricsRepository creates a new SQLite hub metrics repository.
func NewHubMetricsRepository(db *sql.DB) *HubMetricsRepository {
	return &HubMetricsRepository{db: db}
}

// Columns written by older stores may hold NULL; they read as the registry
// defaults.
const hubMetricsSelect = `
	SELECT m.id, m.hub_id, h.hub_name,
		COALESCE(m.total_headcount, 0), COALESCE(m.total_seats, 0), COALESCE(m.total_clients, 0), COALESCE(m.services_offered, 0),
		COALESCE(m.female_percent, 0), COALESCE(m.male_percent, 0), COALESCE(m.other_gender_percent, 0),
		COALESCE(m.campus_type, 'Outside-Campus'), COALESCE(m.sez_status, 'No'), COALESCE(m.location, ''),
		COALESCE(m.coverage_hours, '24x5'), COALESCE(m.transport_facilities, 'No'),
		COALESCE(m.bench_count, 0), COALESCE(m.location_headcounts, ''), COALESCE(m.certifications, ''),
		COALESCE(m.updated_at, ''), COALESCE(m.updated_by, ''), COALESCE(m.metrics_updated_at, ''),
		COALESCE(m.location_updated_at, ''), COALESCE(m.certifications_updated_at, '')
	FROM hub_metrics m
	JOIN hubs h ON h.id = m.hub_id`

func scanHubMetrics(s rowScanner) (*secondary.HubMetricsRecord, error) {
	var (
		record           secondary.HubMetricsRecord
		locations, certs string
	)
	err := s.Scan(
		&record.ID, &record.HubID, &record.HubName,
		&record.TotalHeadcount, &record.TotalSeats, &record.TotalClients, &record.ServicesOffered,
		&record.FemalePercent, &record.MalePercent, &record.OtherGenderPercent,
		&record.CampusType, &record.SEZStatus, &record.Location, &record.CoverageHours, &record.TransportFacilities,
		&record.BenchCount, &locations, &certs,
		&record.UpdatedAt, &record.UpdatedBy, &record.MetricsUpdatedAt,
		&record.LocationUpdatedAt, &record.CertificationsUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.LocationHeadcounts = codec.DecodeCountMap(locations)
	record.Certifications = codec.DecodeCountMap(certs)

	return &record, nil
}

// GetByHub retrieves the metrics row of a hub.
func (r *HubMetricsRepository) GetByHub(ctx context.Context, hubID int64) (*secondary.HubMetricsRecord, error) {
	record, err := scanHubMetrics(r.db.QueryRowContext(ctx, hubMetricsSelect+" WHERE m.hub_id = ?", hubID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("metrics for hub %d: %w", hubID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hub metrics: %w", err)
	}
	return record, nil
}

// ListAll retrieves every hub's metrics row ordered by hub name.
func (r *HubMetricsRepository) ListAll(ctx context.Context) ([]*secondary.HubMetricsRecord, error) {
	rows, err := r.db.QueryContext(ctx, hubMetricsSelect+" ORDER BY h.hub_name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list hub metrics: %w", err)
	}
	defer rows.Close()

	var records []*secondary.HubMetricsRecord
	for rows.Next() {
		record, err := scanHubMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hub metrics: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// UpdateCore writes the core metrics group and aggregates.
func (r *HubMetricsRepository) UpdateCore(ctx context.Context, hubID int64, core secondary.CoreMetricsUpdate, agg secondary.AggregateValues) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE hub_metrics SET
			total_seats = ?, campus_type = ?, sez_status = ?, coverage_hours = ?, transport_facilities = ?,
			total_headcount = ?, total_clients = ?, services_offered = ?,
			updated_at = CURRENT_TIMESTAMP, updated_by = ?, metrics_updated_at = CURRENT_TIMESTAMP
		WHERE hub_id = ?`,
		core.TotalSeats, core.CampusType, core.SEZStatus, core.CoverageHours, core.TransportFacilities,
		agg.TotalHeadcount, agg.TotalClients, agg.ServicesOffered,
		ctxutil.ActorFromContext(ctx), hubID,
	)
	return r.checkUpdate(result, err, hubID, "core metrics")
}

// UpdateLocations writes the location text and per-location headcounts.
func (r *HubMetricsRepository) UpdateLocations(ctx context.Context, hubID int64, location string, counts codec.CountMap) error {
	encoded, err := codec.EncodeCountMap(counts)
	if err != nil {
		return fmt.Errorf("invalid location headcounts: %v: %w", err, errs.ErrInvalid)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE hub_metrics SET
			location = ?, location_headcounts = ?,
			updated_at = CURRENT_TIMESTAMP, updated_by = ?, location_updated_at = CURRENT_TIMESTAMP
		WHERE hub_id = ?`,
		location, encoded, ctxutil.ActorFromContext(ctx), hubID,
	)
	return r.checkUpdate(result, err, hubID, "locations")
}

// UpdateCertifications writes certification counts.
func (r *HubMetricsRepository) UpdateCertifications(ctx context.Context, hubID int64, certs codec.CountMap) error {
	encoded, err := codec.EncodeCountMap(certs)
	if err != nil {
		return fmt.Errorf("invalid certifications: %v: %w", err, errs.ErrInvalid)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE hub_metrics SET
			certifications = ?,
			updated_at = CURRENT_TIMESTAMP, updated_by = ?, certifications_updated_at = CURRENT_TIMESTAMP
		WHERE hub_id = ?`,
		encoded, ctxutil.ActorFromContext(ctx), hubID,
	)
	return r.checkUpdate(result, err, hubID, "certifications")
}

// UpdateAggregates writes reconciled aggregates. Reconciliation is not a
// user edit of the core group, so metrics_updated_at is left alone.
func (r *HubMetricsRepository) UpdateAggregates(ctx context.Context, hubID int64, agg secondary.AggregateValues) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE hub_metrics SET
			total_headcount = ?, total_clients = ?, services_offered = ?,
			updated_at = CURRENT_TIMESTAMP, updated_by = ?
		WHERE hub_id = ?`,
		agg.TotalHeadcount, agg.TotalClients, agg.ServicesOffered, ctxutil.ActorFromContext(ctx), hubID,
	)
	return r.checkUpdate(result, err, hubID, "aggregates")
}

// UpdateGender overwrites the stored gender percentages.
func (r *HubMetricsRepository) UpdateGender(ctx context.Context, hubID int64, female, male, other float64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE hub_metrics SET
			female_percent = ?, male_percent = ?, other_gender_percent = ?,
			updated_at = CURRENT_TIMESTAMP, updated_by = ?
		WHERE hub_id = ?`,
		female, male, other, ctxutil.ActorFromContext(ctx), hubID,
	)
	return r.checkUpdate(result, err, hubID, "gender percentages")
}

// UpdateBench overwrites the stored bench count.
func (r *HubMetricsRepository) UpdateBench(ctx context.Context, hubID int64, bench int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE hub_metrics SET
			bench_count = ?, updated_at = CURRENT_TIMESTAMP, updated_by = ?
		WHERE hub_id = ?`,
		bench, ctxutil.ActorFromContext(ctx), hubID,
	)
	return r.checkUpdate(result, err, hubID, "bench count")
}

func (r *HubMetricsRepository) checkUpdate(result sql.Result, err error, hubID int64, what string) error {
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if affected(result) == 0 {
		return fmt.Errorf("metrics for hub %d: %w", hubID, errs.ErrNotFound)
	}
	return nil
}

// Ensure HubMetricsRepository implements the interface.
var _ secondary.HubMetricsRepository = (*HubMetricsRepository)(nil)
