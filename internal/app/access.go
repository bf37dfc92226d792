package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/core/freshness"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/ports/secondary"
)

// hubAccess resolves hub names on behalf of the session in the context.
type hubAccess struct {
	hubRepo secondary.HubRepository
}

// resolve checks that the session may use hubName before looking it up, so
// a non-admin cannot discover other hubs.
func (a hubAccess) resolve(ctx context.Context, hubName string) (*secondary.HubRecord, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !session.CanAccessHub(hubName) {
		return nil, fmt.Errorf("user '%s' cannot access hub '%s': %w", session.Username, hubName, errs.ErrForbidden)
	}
	hub, err := a.hubRepo.GetByName(ctx, hubName)
	if err != nil {
		return nil, err
	}
	return hub, nil
}

func requireSession(ctx context.Context) (ctxutil.Session, error) {
	session, ok := ctxutil.SessionFromContext(ctx)
	if !ok {
		return ctxutil.Session{}, fmt.Errorf("login required: %w", errs.ErrUnauthenticated)
	}
	return session, nil
}

func requireAdmin(ctx context.Context) (ctxutil.Session, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return session, err
	}
	if !session.IsAdmin {
		return session, fmt.Errorf("user '%s' is not an administrator: %w", session.Username, errs.ErrForbidden)
	}
	return session, nil
}

// rejected tags a failed guard with the sentinel the caller should match on.
func rejected(guardErr, kind error) error {
	if guardErr == nil {
		return nil
	}
	return fmt.Errorf("%v: %w", guardErr, kind)
}

// exists turns a lookup error into a presence flag. Errors other than
// ErrNotFound are returned.
func exists(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func toFreshness(ts string, now time.Time) primary.Freshness {
	age := freshness.Evaluate(ts, now)
	return primary.Freshness{
		UpdatedAt: ts,
		Label:     age.Label,
		Stale:     age.Stale,
		Tier:      string(age.Tier),
		Status:    age.Status(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func clockOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
