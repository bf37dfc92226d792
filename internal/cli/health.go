package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/hubledger/internal/wire"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Score how current each hub's data is",
	Long: `Check the last update of each hub's core metrics, capabilities, clients
and people metrics. Data older than 30 days counts as outdated; the score
is the share of categories that are current.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := NewContext(cmd)
		if err != nil {
			return err
		}
		_, err = wire.HealthAdapter().Check(ctx)
		return err
	},
}

// HealthCmd returns the health command
func HealthCmd() *cobra.Command {
	return healthCmd
}
