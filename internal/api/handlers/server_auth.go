package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/api/middleware"
	"autoparts.dev/storefront/internal/audit"
	"autoparts.dev/storefront/internal/auth"
	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/nav"
	apperrors "autoparts.dev/storefront/internal/pkg/errors"
	"autoparts.dev/storefront/internal/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthView answers login and registration.
type AuthView struct {
	Session    *domain.Session `json:"session"`
	Transition nav.Transition  `json:"transition"`
	State      StateView       `json:"state"`
}

// Login handles POST /auth/login. Field errors come back as VALIDATION_FAILED;
// an unknown email and a wrong password are told apart so the form can say
// which one happened.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	attempt := auth.NewLoginAttempt()
	state, err := attempt.Submit(ctx, s.directory, req.Email, req.Password)
	if err != nil {
		logger.Error("Login failed unexpectedly",
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err),
		)
		fail(c, err)
		return
	}

	switch state {
	case auth.StateInvalidFormat:
		_ = c.Error(apperrors.Validation(attempt.FieldErrors))
		return
	case auth.StateAuthFailed:
		logger.Warn("Login failed", zap.String("reason", string(attempt.Reason)))
		reason := auth.ErrWrongPassword
		if attempt.Reason == auth.ReasonNoAccount {
			reason = auth.ErrAccountNotFound
		}
		s.record(ctx, audit.ActionLoginFailed, "account", "", auth.NormalizeEmail(req.Email), map[string]any{"reason": reason.Error()})
		fail(c, reason)
		return
	}

	e := engine(c)
	s.record(ctx, audit.ActionLogin, "account", attempt.User.ID, attempt.User.ID, nil)
	tr := e.CompleteLogin(ctx, attempt.User.Session())
	c.JSON(http.StatusOK, AuthView{Session: e.Session(), Transition: tr, State: stateView(e, lang(c))})
}

// Register handles POST /auth/register. The new account is signed in at once.
func (s *Server) Register(c *gin.Context) {
	var req auth.NewUser
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	u, err := s.directory.Register(ctx, req)
	if err != nil {
		fail(c, err)
		return
	}

	e := engine(c)
	s.record(ctx, audit.ActionRegister, "account", u.ID, u.ID, map[string]any{"role": string(u.Role)})
	tr := e.CompleteLogin(ctx, u.Session())
	c.JSON(http.StatusCreated, AuthView{Session: e.Session(), Transition: tr, State: stateView(e, lang(c))})
}

// Logout handles POST /auth/logout. Cart and wishlist stay.
func (s *Server) Logout(c *gin.Context) {
	e := engine(c)
	if session := e.Session(); session != nil {
		s.record(c.Request.Context(), audit.ActionLogout, "account", session.UserID, session.UserID, nil)
	}
	tr := e.Logout(c.Request.Context())
	c.JSON(http.StatusOK, transitionView(c, e, tr))
}

// GetProfile handles GET /profile.
func (s *Server) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentSession(c))
}

// UpdateProfile handles PATCH /profile. Empty fields keep their values.
func (s *Server) UpdateProfile(c *gin.Context) {
	var req auth.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	e := engine(c)

	current := middleware.CurrentSession(c)
	if _, err := s.directory.UpdateProfile(ctx, current.UserID, req); err != nil {
		if !errors.Is(err, auth.ErrAccountNotFound) {
			fail(c, err)
			return
		}
		logger.Warn("Profile owner missing from directory, updating session only",
			zap.String("user_id", current.UserID),
		)
	}

	updated, ok := e.UpdateProfile(ctx, domain.Session{Name: req.Name, Phone: req.Phone, Avatar: req.Avatar, Extra: req.Extra})
	if !ok {
		_ = c.Error(apperrors.ErrSessionRequired())
		return
	}
	s.record(ctx, audit.ActionProfileUpdate, "account", current.UserID, current.UserID, nil)
	c.JSON(http.StatusOK, updated)
}
