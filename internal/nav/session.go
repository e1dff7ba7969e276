package nav

import (
	"context"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/store"
)

// Session returns a copy of the active session, or nil when signed out.
func (e *Engine) Session() *domain.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copySession(e.session)
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := s.Merge(nil)
	return &c
}

// SetSession signs in s, or signs out when s is nil.
//
// Signing out forgets the session only: cart and wishlist stay. Signing in
// merges s over the profile stored for the same identity, so fields s leaves
// empty keep their saved values; the merged profile is stored again.
func (e *Engine) SetSession(ctx context.Context, s *domain.Session) *domain.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setSessionLocked(ctx, s)
	return copySession(e.session)
}

func (e *Engine) setSessionLocked(ctx context.Context, s *domain.Session) {
	if s == nil {
		if e.session != nil {
			e.log.Info("Signed out", zap.String("user_id", e.session.UserID))
		}
		e.session = nil
		store.RemoveQuiet(ctx, e.scoped, store.KeySession)
		return
	}

	var prev *domain.Session
	var stored domain.Session
	if store.LoadJSON(ctx, e.global, store.ProfileKey(s.UserID), &stored) {
		prev = &stored
	}
	if e.session != nil && e.session.UserID == s.UserID {
		base := e.session.Merge(prev)
		prev = &base
	}
	merged := s.Merge(prev)
	e.session = &merged

	store.SaveJSON(ctx, e.global, store.ProfileKey(merged.UserID), merged)
	store.SaveJSON(ctx, e.scoped, store.KeySession, merged)
	e.log.Info("Session established",
		zap.String("user_id", merged.UserID),
		zap.String("role", string(merged.Role)),
	)
}

// UpdateProfile merges update into the active session. It reports false
// when nobody is signed in.
func (e *Engine) UpdateProfile(ctx context.Context, update domain.Session) (*domain.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, false
	}
	update.UserID = e.session.UserID
	update.Role = ""
	e.setSessionLocked(ctx, &update)
	return copySession(e.session), true
}

// CompleteLogin establishes s after a successful login or registration and
// navigates to the post-auth destination, consuming the captured return page.
func (e *Engine) CompleteLogin(ctx context.Context, s domain.Session) Transition {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setSessionLocked(ctx, &s)
	dest := ResolvePostAuth(e.session.Role, e.state.ReturnTo)
	e.state.ReturnTo = ""
	return e.navigateLocked(ctx, dest, domain.SearchFilters{})
}

// Logout signs out and returns to the home page.
func (e *Engine) Logout(ctx context.Context) Transition {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setSessionLocked(ctx, nil)
	e.state.ReturnTo = ""
	return e.navigateLocked(ctx, e.routes.Fallback().Key, domain.SearchFilters{})
}
