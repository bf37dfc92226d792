package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/hubledger/internal/core/credential"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/wire"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage login accounts (administrators only)",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List login accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := NewContext(cmd)
		if err != nil {
			return err
		}
		_, err = wire.UserAdapter().List(ctx)
		return err
	},
}

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Create a login account",
	Long: `Create a login account bound to a hub, or to ALL with --admin.

Example:
  hubledger user add verticurl_ops --hub Verticurl --password 's3cret!'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := NewContext(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		hub, _ := flags.GetString("hub")
		password, _ := flags.GetString("password")
		admin, _ := flags.GetBool("admin")
		if admin && hub == "" {
			hub = credential.AllHubs
		}

		_, err = wire.UserAdapter().Add(ctx, primary.CreateUserRequest{
			Username: args[0],
			Password: password,
			HubName:  hub,
			IsAdmin:  admin,
		})
		return err
	},
}

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	userAddCmd.Flags().String("hub", "", "Hub the account belongs to")
	userAddCmd.Flags().String("password", "", "Initial password")
	userAddCmd.Flags().Bool("admin", false, "Grant access to every hub")
	userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userAddCmd)

	return userCmd
}
