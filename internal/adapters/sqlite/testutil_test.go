// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.SchemaSQL() to ensure tests run against
// the authoritative schema registry, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/db"
)

// oldStamp is an arbitrary past timestamp used to detect which columns a write touched.
const oldStamp = "2020-01-01 00:00:00"

// setupTestDB creates an in-memory database with the authoritative schema.
// The pool is pinned to one connection so every query sees the same
// in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from the registry
	if _, err := testDB.Exec(db.SchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// actorCtx returns a context carrying a session for username.
func actorCtx(username string) context.Context {
	return ctxutil.WithSession(context.Background(), ctxutil.NewSession(username, "ALL", true))
}

// seedHub inserts a hub with a metrics row and returns the hub ID.
func seedHub(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	result, err := db.Exec("INSERT INTO hubs (hub_name) VALUES (?)", name)
	if err != nil {
		t.Fatalf("failed to seed hub: %v", err)
	}
	id, _ := result.LastInsertId()
	if _, err := db.Exec("INSERT INTO hub_metrics (hub_id) VALUES (?)", id); err != nil {
		t.Fatalf("failed to seed hub metrics: %v", err)
	}
	return id
}

// seedCapability inserts a capability row.
func seedCapability(t *testing.T, db *sql.DB, hubID int64, name, category string, headcount int) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO hub_capabilities (hub_id, capability_name, capability_category, headcount) VALUES (?, ?, ?, ?)",
		hubID, name, category, headcount,
	)
	if err != nil {
		t.Fatalf("failed to seed capability: %v", err)
	}
}

// ageHubMetrics sets every hub_metrics timestamp of a hub to oldStamp.
func ageHubMetrics(t *testing.T, db *sql.DB, hubID int64) {
	t.Helper()
	_, err := db.Exec(`
		UPDATE hub_metrics SET updated_at = ?, metrics_updated_at = ?, location_updated_at = ?, certifications_updated_at = ?
		WHERE hub_id = ?`, oldStamp, oldStamp, oldStamp, oldStamp, hubID)
	if err != nil {
		t.Fatalf("failed to age hub metrics: %v", err)
	}
}
