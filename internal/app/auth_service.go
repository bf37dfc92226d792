package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/hubledger/internal/core/credential"
	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// errBadCredentials is returned for both unknown users and wrong passwords.
var errBadCredentials = fmt.Errorf("invalid username or password: %w", errs.ErrUnauthenticated)

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	userRepo secondary.UserRepository
	hubRepo  secondary.HubRepository
	hasher   secondary.PasswordHasher
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService with injected dependencies.
func NewAuthService(
	userRepo secondary.UserRepository,
	hubRepo secondary.HubRepository,
	hasher secondary.PasswordHasher,
	logger *zap.Logger,
) *AuthServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthServiceImpl{
		userRepo: userRepo,
		hubRepo:  hubRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// Login verifies credentials and returns the session for the user.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (ctxutil.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ctxutil.Session{}, errBadCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, errs.ErrNotFound) {
		s.logger.Warn("login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
		return ctxutil.Session{}, errBadCredentials
	}
	if err != nil {
		return ctxutil.Session{}, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Warn("login rejected", zap.String("username", username), zap.String("reason", "password mismatch"))
		return ctxutil.Session{}, errBadCredentials
	}

	session := ctxutil.NewSession(user.Username, user.HubName, user.IsAdmin)
	s.logger.Debug("login accepted",
		zap.String("username", user.Username),
		zap.String("hub", user.HubName),
		zap.String("session_id", session.ID.String()),
	)
	return session, nil
}

// CreateUser creates a login account. Only administrators may do this.
func (s *AuthServiceImpl) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	session, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	hubName := strings.TrimSpace(req.HubName)

	hubExists := hubName == credential.AllHubs
	if !hubExists && hubName != "" {
		_, lookupErr := s.hubRepo.GetByName(ctx, hubName)
		if hubExists, err = exists(lookupErr); err != nil {
			return nil, fmt.Errorf("failed to check hub: %w", err)
		}
	}

	userExists := false
	if username != "" {
		_, lookupErr := s.userRepo.GetByUsername(ctx, username)
		if userExists, err = exists(lookupErr); err != nil {
			return nil, fmt.Errorf("failed to check user: %w", err)
		}
	}

	guard := credential.CanCreateUser(credential.CreateUserContext{
		ActorIsAdmin: session.IsAdmin,
		Username:     username,
		Password:     req.Password,
		HubName:      hubName,
		HubExists:    hubExists,
		UserExists:   userExists,
	})
	if !guard.Allowed {
		kind := errs.ErrInvalid
		if userExists {
			kind = errs.ErrConflict
		}
		return nil, rejected(guard.Error(), kind)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := &secondary.UserRecord{
		Username:     username,
		PasswordHash: hash,
		HubName:      hubName,
		IsAdmin:      req.IsAdmin,
	}
	if err := s.userRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("user created", zap.String("username", username), zap.String("hub", hubName), zap.String("by", session.Username))

	created, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created user: %w", err)
	}
	return recordToUser(created), nil
}

// ListUsers lists every account. Only administrators may do this.
func (s *AuthServiceImpl) ListUsers(ctx context.Context) ([]*primary.User, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	records, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*primary.User, len(records))
	for i, r := range records {
		users[i] = recordToUser(r)
	}
	return users, nil
}

func recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:        r.ID,
		Username:  r.Username,
		HubName:   r.HubName,
		IsAdmin:   r.IsAdmin,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure AuthServiceImpl implements the interface.
var _ primary.AuthService = (*AuthServiceImpl)(nil)
