package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// BootstrapReport holds what startup did to the store.
type BootstrapReport struct {
	Migration *MigrationReport
	Seed      *SeedReport
}

// Bootstrap prepares an opened store for use: migrate against the default
// registry, seed if empty, then checkpoint the WAL.
func Bootstrap(ctx context.Context, database *sql.DB, hasher PasswordHasher, logger *zap.Logger, now func() time.Time) (*BootstrapReport, error) {
	migration, err := Migrate(ctx, database, DefaultRegistry(), logger, now)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	seed, err := Seed(ctx, database, SeedOptions{Hasher: hasher, Now: now, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to seed: %w", err)
	}

	if err := Checkpoint(ctx, database); err != nil {
		return nil, err
	}

	return &BootstrapReport{Migration: migration, Seed: seed}, nil
}
