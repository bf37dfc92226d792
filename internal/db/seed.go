package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/hubledger/internal/core/capability"
	"github.com/example/hubledger/internal/core/client"
	"github.com/example/hubledger/internal/core/credential"
	"github.com/example/hubledger/internal/core/freshness"
	"github.com/example/hubledger/internal/core/hubmetrics"
	"github.com/example/hubledger/internal/core/period"
)

const seedActor = "system"

// Hubs seeded into an empty store.
var seedHubs = []string{
	"AKQA",
	"Mirum Digital Pvt Ltd",
	"GroupM Nexus Global Team",
	"Hogarth Worldwide",
	"Hogarth Studios",
	"Verticurl",
	"VML-Tech Commerce",
}

type seedPeopleRow struct {
	name     string
	category string
	value    float64
}

// Starter people metrics, all keyed by the year 2025.
var seedPeople = []seedPeopleRow{
	{"Tenure <1 year", period.CategoryTenure, 25},
	{"Tenure 1-2 years", period.CategoryTenure, 22},
	{"Tenure 2-3 years", period.CategoryTenure, 18},
	{"Tenure 3-5 years", period.CategoryTenure, 15},
	{"Tenure 5-7 years", period.CategoryTenure, 10},
	{"Tenure 7-10 years", period.CategoryTenure, 5},
	{"Tenure 10+ years", period.CategoryTenure, 3},

	{"Permanent Employees", period.CategoryEmploymentType, 75},
	{"Contract Employees", period.CategoryEmploymentType, 25},

	{"Single", period.CategoryMaritalStatus, 55},
	{"Married", period.CategoryMaritalStatus, 40},
	{"Other Marital Status", period.CategoryMaritalStatus, 5},
}

const seedPeoplePeriod = "2025"

// PasswordHasher produces the stored form of a password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SeedOptions configures a seed run.
type SeedOptions struct {
	Hasher PasswordHasher
	Now    func() time.Time
	Logger *zap.Logger
}

// SeedReport counts the rows a seed run inserted.
type SeedReport struct {
	Hubs          int
	Capabilities  int
	Clients       int
	PeopleMetrics int
	Users         int
}

// Seed populates an empty store with the default hubs, their starter data
// and login credentials. Hub data and users are guarded separately by a row
// count, so existing data is never overwritten and a second run inserts
// nothing.
func Seed(ctx context.Context, database *sql.DB, opts SeedOptions) (*SeedReport, error) {
	if opts.Hasher == nil {
		return nil, fmt.Errorf("seed requires a password hasher")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	report := &SeedReport{}
	stamp := freshness.Format(opts.Now())

	empty, err := tableEmpty(ctx, database, "hubs")
	if err != nil {
		return nil, err
	}
	if empty {
		if err := inTx(ctx, database, func(tx *sql.Tx) error {
			return seedHubData(ctx, tx, stamp, report)
		}); err != nil {
			return nil, fmt.Errorf("seed hubs: %w", err)
		}
		opts.Logger.Info("seeded hubs",
			zap.Int("hubs", report.Hubs),
			zap.Int("capabilities", report.Capabilities),
			zap.Int("clients", report.Clients),
			zap.Int("people_metrics", report.PeopleMetrics),
		)
	}

	empty, err = tableEmpty(ctx, database, "users")
	if err != nil {
		return nil, err
	}
	if empty {
		if err := inTx(ctx, database, func(tx *sql.Tx) error {
			return seedUsers(ctx, tx, opts.Hasher, stamp, report)
		}); err != nil {
			return nil, fmt.Errorf("seed users: %w", err)
		}
		opts.Logger.Info("seeded users", zap.Int("users", report.Users))
	}

	return report, nil
}

func seedHubData(ctx context.Context, tx *sql.Tx, stamp string, report *SeedReport) error {
	for _, name := range seedHubs {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO hubs (hub_name, created_at, updated_at) VALUES (?, ?, ?)",
			name, stamp, stamp,
		)
		if err != nil {
			return fmt.Errorf("insert hub %s: %w", name, err)
		}
		hubID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		report.Hubs++

		m := defaultMetrics(name)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hub_metrics (
				hub_id, total_headcount, total_seats, total_clients, services_offered,
				female_percent, male_percent, other_gender_percent,
				campus_type, sez_status, location, coverage_hours, transport_facilities,
				updated_at, updated_by, metrics_updated_at, location_updated_at, certifications_updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			hubID, m.headcount, m.seats, m.clients, m.services,
			m.female, m.male, m.other,
			m.campus, m.sez, m.location, m.coverage, m.transport,
			stamp, seedActor, stamp, stamp, stamp,
		); err != nil {
			return fmt.Errorf("insert metrics for %s: %w", name, err)
		}

		category := capability.PrimaryCategory(name)
		for _, entry := range capability.InCategory(category) {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO hub_capabilities (hub_id, capability_name, capability_category, headcount, updated_at, updated_by, capability_updated_at)
				VALUES (?, ?, ?, 0, ?, ?, ?)`,
				hubID, entry.Name, entry.Category, stamp, seedActor, stamp,
			); err != nil {
				return fmt.Errorf("insert capability %s for %s: %w", entry.Name, name, err)
			}
			report.Capabilities++
		}

		for i := 1; i <= 5; i++ {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO client_metrics (hub_id, client_name, engagement_status, commercial_model, capability_category, scope_summary, updated_at, updated_by, client_updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				hubID, fmt.Sprintf("Client %d", i), client.StatusActive, client.ModelFTE, category, "Sample scope details",
				stamp, seedActor, stamp,
			); err != nil {
				return fmt.Errorf("insert client for %s: %w", name, err)
			}
			report.Clients++
		}

		for _, p := range seedPeople {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO people_metrics (hub_id, metric_name, metric_value, metric_category, time_period, updated_at, updated_by, people_metric_updated_at, date_created)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				hubID, p.name, p.value, p.category, seedPeoplePeriod, stamp, seedActor, stamp, stamp,
			); err != nil {
				return fmt.Errorf("insert people metric %s for %s: %w", p.name, name, err)
			}
			report.PeopleMetrics++
		}
	}
	return nil
}

func seedUsers(ctx context.Context, tx *sql.Tx, hasher PasswordHasher, stamp string, report *SeedReport) error {
	insert := func(username, password, hub string, admin bool) error {
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		isAdmin := 0
		if admin {
			isAdmin = 1
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (username, password_hash, hub_name, is_admin, created_at) VALUES (?, ?, ?, ?, ?)",
			username, hash, hub, isAdmin, stamp,
		); err != nil {
			return fmt.Errorf("insert user %s: %w", username, err)
		}
		report.Users++
		return nil
	}

	if err := insert(credential.AdminUsername, credential.SeedPasswordFor(credential.AdminUsername), credential.AllHubs, true); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, "SELECT hub_name FROM hubs ORDER BY id")
	if err != nil {
		return fmt.Errorf("list hubs: %w", err)
	}
	var hubs []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		hubs = append(hubs, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, hub := range hubs {
		username := credential.UsernameFor(hub)
		if err := insert(username, credential.SeedPasswordFor(username), hub, false); err != nil {
			return err
		}
	}
	return nil
}

type metricsDefaults struct {
	headcount, seats, clients, services int
	female, male, other                 float64
	campus, sez, location               string
	coverage, transport                 string
}

// defaultMetrics returns the starter hub_metrics row for a hub.
func defaultMetrics(hubName string) metricsDefaults {
	m := metricsDefaults{
		headcount: 95,
		seats:     76,
		clients:   12,
		services:  8,
		female:    35,
		male:      63,
		other:     2,
		campus:    hubmetrics.CampusOutside,
		sez:       hubmetrics.No,
		location:  "Gurugram",
		coverage:  "24x5",
		transport: hubmetrics.No,
	}

	for _, marker := range []string{"AKQA", "GroupM", "VML-Tech Commerce", "Hogarth Studios"} {
		if strings.Contains(hubName, marker) {
			m.campus = hubmetrics.CampusIn
			break
		}
	}
	if hubName == "Hogarth Worldwide" {
		m.sez = hubmetrics.Yes
	}
	switch hubName {
	case "Hogarth Worldwide":
		m.location = "Chennai, Hyderabad, Gurugram"
	case "Verticurl":
		m.location = "Coimbatore, Hyderabad, Gurugram"
	case "Mirum Digital Pvt Ltd":
		m.location = "Mumbai and Gurugram"
	}
	if strings.Contains(hubName, "Hogarth") || strings.Contains(hubName, "Verticurl") {
		m.transport = hubmetrics.Yes
	}
	return m
}

func tableEmpty(ctx context.Context, database *sql.DB, table string) (bool, error) {
	var count int
	if err := database.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count == 0, nil
}

func inTx(ctx context.Context, database *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
