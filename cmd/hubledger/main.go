package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/hubledger/internal/cli"
	"github.com/example/hubledger/internal/config"
	"github.com/example/hubledger/internal/version"
	"github.com/example/hubledger/internal/wire"
)

func main() {
	var configPath, username string

	rootCmd := &cobra.Command{
		Use:     "hubledger",
		Short:   "hubledger - operational data for delivery hubs",
		Version: version.String(),
		Long: `hubledger tracks each delivery hub's headcount, facilities, capabilities,
clients and people analytics in a local SQLite database, and reports how
current that data is.

Log in by setting HUBLEDGER_USER and HUBLEDGER_PASSWORD (or a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetConfigPath(configPath)
			cli.SetUser(username)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Config file")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "Log in as this user (password from HUBLEDGER_PASSWORD)")

	// Store management
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.SeedCmd())

	// Hub data
	rootCmd.AddCommand(cli.MetricsCmd())
	rootCmd.AddCommand(cli.CapabilityCmd())
	rootCmd.AddCommand(cli.ClientCmd())
	rootCmd.AddCommand(cli.PeopleCmd())

	// Admin tools
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.HealthCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	err := rootCmd.ExecuteContext(context.Background())
	wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
