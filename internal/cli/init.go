package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/hubledger/internal/db"
	"github.com/example/hubledger/internal/wire"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the hubledger database",
	Long: `Open the hubledger database, bring its schema up to date and seed it
with the default hubs and logins when it is empty.

Every command does this on startup; init reports what happened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := wire.StartupReport()

		fmt.Printf("Database: %s\n", wire.Config().DBPath)
		printMigration(report.Migration)
		printSeed(report.Seed)
		fmt.Println("✓ Database ready")
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  export HUBLEDGER_USER=admin HUBLEDGER_PASSWORD=...")
		fmt.Println("  hubledger health")

		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Add missing tables and columns to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := db.Migrate(cmd.Context(), wire.Database(), db.DefaultRegistry(), wire.Logger(), nil)
		if err != nil {
			return err
		}
		printMigration(report)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default hubs and logins into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := db.Seed(cmd.Context(), wire.Database(), db.SeedOptions{
			Hasher: wire.Hasher(),
			Logger: wire.Logger(),
		})
		if err != nil {
			return err
		}
		printSeed(report)
		return nil
	},
}

func printMigration(report *db.MigrationReport) {
	if report == nil || !report.Changed() {
		fmt.Println("✓ Schema up to date")
	}
	if report == nil {
		return
	}
	for _, table := range report.Created {
		fmt.Printf("  + table %s\n", table)
	}
	for _, ref := range report.Added {
		fmt.Printf("  + column %s", ref)
		if n, ok := report.Backfilled[ref]; ok && n > 0 {
			fmt.Printf(" (backfilled %d rows)", n)
		}
		fmt.Println()
	}
	for _, ref := range report.Skipped {
		fmt.Printf("  ⚠ could not add column %s\n", ref)
	}
	for _, ref := range sortedRefs(report.Normalized) {
		fmt.Printf("  ~ column %s (filled %d NULL rows with the default)\n", ref, report.Normalized[ref])
	}
	for _, ref := range sortedRefs(report.Backfilled) {
		if slices.Contains(report.Added, ref) || report.Backfilled[ref] == 0 {
			continue
		}
		fmt.Printf("  ~ column %s (stamped %d NULL rows)\n", ref, report.Backfilled[ref])
	}
}

func sortedRefs(m map[db.ColumnRef]int64) []db.ColumnRef {
	return slices.SortedFunc(maps.Keys(m), func(a, b db.ColumnRef) int {
		return strings.Compare(a.String(), b.String())
	})
}

func printSeed(report *db.SeedReport) {
	if report == nil || report.Hubs+report.Users == 0 {
		fmt.Println("✓ Nothing to seed")
		return
	}
	fmt.Printf("✓ Seeded %d hubs, %d capabilities, %d clients, %d people metrics, %d users\n",
		report.Hubs, report.Capabilities, report.Clients, report.PeopleMetrics, report.Users)
}

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return initCmd
}

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return migrateCmd
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return seedCmd
}
