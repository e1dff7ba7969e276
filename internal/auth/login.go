package auth

import (
	"context"
	"errors"
	"fmt"

	apperrors "autoparts.dev/storefront/internal/pkg/errors"
)

// LoginState is a step of the login form state machine:
//
//	UNSUBMITTED -> VALIDATING -> INVALID_FORMAT | AUTH_FAILED | AUTHENTICATED
//
// INVALID_FORMAT and AUTH_FAILED may be resubmitted; AUTHENTICATED is final.
type LoginState string

const (
	StateUnsubmitted   LoginState = "UNSUBMITTED"
	StateValidating    LoginState = "VALIDATING"
	StateInvalidFormat LoginState = "INVALID_FORMAT"
	StateAuthFailed    LoginState = "AUTH_FAILED"
	StateAuthenticated LoginState = "AUTHENTICATED"
)

// FailureReason tells the login form which message to show.
type FailureReason string

const (
	ReasonNoAccount     FailureReason = "no_account"
	ReasonWrongPassword FailureReason = "wrong_password"
)

// ErrAttemptFinished is returned when an authenticated attempt is resubmitted.
var ErrAttemptFinished = errors.New("auth: login attempt already authenticated")

// LoginAttempt tracks one login form.
type LoginAttempt struct {
	State       LoginState             `json:"state"`
	Reason      FailureReason          `json:"reason,omitempty"`
	FieldErrors []apperrors.FieldError `json:"field_errors,omitempty"`
	User        *User                  `json:"-"`
}

// NewLoginAttempt returns an unsubmitted attempt.
func NewLoginAttempt() *LoginAttempt {
	return &LoginAttempt{State: StateUnsubmitted}
}

// Submit runs validation and authentication and returns the resulting
// terminal state. On AUTHENTICATED the caller establishes the session and
// resolves the post-login destination.
func (a *LoginAttempt) Submit(ctx context.Context, dir *Directory, email, password string) (LoginState, error) {
	if a.State == StateAuthenticated {
		return a.State, ErrAttemptFinished
	}
	a.State = StateValidating
	a.Reason = ""
	a.FieldErrors = nil
	a.User = nil

	if err := ValidateLogin(email, password, dir.opts.MinPasswordLength); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			a.FieldErrors = verr.Fields
		}
		a.State = StateInvalidFormat
		return a.State, nil
	}

	u, err := dir.Authenticate(ctx, email, password)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		a.State, a.Reason = StateAuthFailed, ReasonNoAccount
	case errors.Is(err, ErrWrongPassword):
		a.State, a.Reason = StateAuthFailed, ReasonWrongPassword
	case err != nil:
		a.State = StateAuthFailed
		return a.State, fmt.Errorf("authenticate: %w", err)
	default:
		a.State, a.User = StateAuthenticated, u
	}
	return a.State, nil
}
