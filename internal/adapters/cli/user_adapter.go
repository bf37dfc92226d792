package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/hubledger/internal/ports/primary"
)

// UserAdapter translates CLI operations to AuthService calls.
type UserAdapter struct {
	service primary.AuthService
	out     io.Writer
}

// NewUserAdapter creates a new UserAdapter.
func NewUserAdapter(service primary.AuthService, out io.Writer) *UserAdapter {
	return &UserAdapter{
		service: service,
		out:     out,
	}
}

// List lists every account.
func (a *UserAdapter) List(ctx context.Context) ([]*primary.User, error) {
	users, err := a.service.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tHUB\tROLE\tCREATED")
	fmt.Fprintln(w, "--------\t---\t----\t-------")
	for _, u := range users {
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Username, u.HubName, role, u.CreatedAt)
	}
	w.Flush()
	return users, nil
}

// Add creates an account.
func (a *UserAdapter) Add(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	u, err := a.service.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created user %s for %s\n", u.Username, u.HubName)
	return u, nil
}
