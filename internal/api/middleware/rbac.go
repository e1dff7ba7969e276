package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/domain"
	apperrors "autoparts.dev/storefront/internal/pkg/errors"
)

// SessionSource yields the signed-in session of the request's browser
// context, or nil.
type SessionSource interface {
	Session() *domain.Session
}

const (
	sessionSourceKey = "session_source"
	sessionKey       = "session"
)

// SetSessionSource makes src available to RequireSession and RequireRole.
func SetSessionSource(c *gin.Context, src SessionSource) {
	c.Set(sessionSourceKey, src)
}

// CurrentSession returns the session the guard admitted the request with.
// Without a guard it reads the session source, and returns nil when signed
// out. A guarded handler keeps its session even if another tab of the same
// context signs out while the request runs.
func CurrentSession(c *gin.Context) *domain.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*domain.Session); ok && s != nil {
			return s
		}
	}
	return liveSession(c)
}

func liveSession(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionSourceKey)
	if !ok {
		return nil
	}
	src, ok := v.(SessionSource)
	if !ok || src == nil {
		return nil
	}
	return src.Session()
}

// RequireSession rejects requests of signed-out contexts with SESSION_REQUIRED.
func RequireSession() gin.HandlerFunc {
	return RequireRole()
}

// RequireRole rejects signed-out contexts with SESSION_REQUIRED and sessions
// whose role is not among roles with ROLE_FORBIDDEN. No roles admits any
// session.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := liveSession(c)
		if s == nil {
			_ = c.Error(apperrors.ErrSessionRequired())
			c.Abort()
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, s.Role) {
			_ = c.Error(apperrors.ErrRoleForbidden(string(s.Role)))
			c.Abort()
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}
