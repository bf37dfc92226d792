// Package credential owns password hashing and the seeded credential rules.
package credential

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// AdminUsername is the seeded administrator account.
	AdminUsername = "admin"
	// AllHubs marks a user who may act on every hub.
	AllHubs = "ALL"

	passwordSuffix = "123"
)

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher; a cost outside bcrypt's range falls back to the default.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{Cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash.
func (h Hasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UsernameFor derives the seeded username of a hub:
// lower-case name with spaces replaced by underscores.
func UsernameFor(hubName string) string {
	return strings.ReplaceAll(strings.ToLower(hubName), " ", "_")
}

// SeedPasswordFor derives the seeded password for a username.
func SeedPasswordFor(username string) string {
	return username + passwordSuffix
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateUserContext provides context for user creation guards.
type CreateUserContext struct {
	ActorIsAdmin bool
	Username     string
	Password     string
	HubName      string
	HubExists    bool
	UserExists   bool
}

// CanCreateUser evaluates whether a user account can be created.
// Rules:
// - Only administrators create users
// - Username and password must not be empty
// - Hub must be ALL or an existing hub
// - Username must be unique
func CanCreateUser(ctx CreateUserContext) GuardResult {
	if !ctx.ActorIsAdmin {
		return GuardResult{Allowed: false, Reason: "only administrators can create users"}
	}
	if strings.TrimSpace(ctx.Username) == "" {
		return GuardResult{Allowed: false, Reason: "username cannot be empty"}
	}
	if ctx.Password == "" {
		return GuardResult{Allowed: false, Reason: "password cannot be empty"}
	}
	if ctx.HubName != AllHubs && !ctx.HubExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("hub '%s' not found", ctx.HubName)}
	}
	if ctx.UserExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("username '%s' already exists", ctx.Username)}
	}
	return GuardResult{Allowed: true}
}
