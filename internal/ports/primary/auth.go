package primary

import (
	"context"

	"github.com/example/hubledger/internal/ctxutil"
)

// AuthService defines the primary port for authentication and user management.
type AuthService interface {
	// Login verifies credentials and returns the session for the user.
	Login(ctx context.Context, username, password string) (ctxutil.Session, error)

	// CreateUser creates a login account. Only administrators may do this.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)

	// ListUsers lists every account. Only administrators may do this.
	ListUsers(ctx context.Context) ([]*User, error)
}

// CreateUserRequest contains parameters for creating a user.
type CreateUserRequest struct {
	Username string
	Password string
	HubName  string
	IsAdmin  bool
}

// User represents an account at the port boundary. The password hash never
// leaves the service.
type User struct {
	ID        int64
	Username  string
	HubName   string
	IsAdmin   bool
	CreatedAt string
}
