// Package cli provides CLI commands for hubledger.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hubledger/internal/core/credential"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/wire"
)

// globalUser overrides the configured username for the current invocation.
// Set from the root --user flag.
var globalUser string

// SetUser stores the username given on the command line.
func SetUser(username string) {
	globalUser = username
}

// NewContext logs in and returns a context carrying the session.
// Commands that read or write hub data should use this instead of
// context.Background() directly.
func NewContext(cmd *cobra.Command) (context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return wire.Login(ctx, globalUser, "")
}

// resolveHub picks the hub a command acts on. An explicit flag wins;
// otherwise a hub user gets their own hub and administrators must choose.
func resolveHub(ctx context.Context, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	session, ok := ctxutil.SessionFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("not logged in")
	}
	if session.IsAdmin || session.HubName == credential.AllHubs {
		return "", fmt.Errorf("--hub is required for administrators")
	}
	return session.HubName, nil
}

// addHubFlag registers the shared --hub flag.
func addHubFlag(cmd *cobra.Command) {
	cmd.Flags().String("hub", "", "Hub name (defaults to your own hub)")
}

// hubContext logs in and resolves the --hub flag in one step.
func hubContext(cmd *cobra.Command) (context.Context, string, error) {
	ctx, err := NewContext(cmd)
	if err != nil {
		return nil, "", err
	}
	flagValue, _ := cmd.Flags().GetString("hub")
	hub, err := resolveHub(ctx, flagValue)
	if err != nil {
		return nil, "", err
	}
	return ctx, hub, nil
}
