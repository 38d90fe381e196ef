package service

import (
	"context"
	"errors"
	"sync/atomic"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// Messages shown to the user on a failed exchange
const (
	MsgProviderFailure     = "Google Login Failed. Make sure your browser allows popups and check your internet connection."
	MsgInvalidDeclaredRole = "Please select a valid role."
	MsgInvalidRoleReceived = "Invalid role received from server. Please try again."
	MsgLoginFailed         = "Login failed. Please try again."
	MsgBusy                = "A login is already in progress. Please wait."
	MsgSessionNotSaved     = "Could not save your session. Please try again."
)

// AuthService handles authentication business logic
type AuthService struct {
	exchanger ports.TokenExchanger
	sessions  *SessionStore

	singleFlight bool
	inFlight     atomic.Bool
}

// AuthOption configures an AuthService
type AuthOption func(*AuthService)

// WithSingleFlight toggles rejection of an exchange while another one is running
func WithSingleFlight(enabled bool) AuthOption {
	return func(s *AuthService) {
		s.singleFlight = enabled
	}
}

// NewAuthService creates a new authentication service
func NewAuthService(exchanger ports.TokenExchanger, sessions *SessionStore, opts ...AuthOption) *AuthService {
	s := &AuthService{
		exchanger:    exchanger,
		sessions:     sessions,
		singleFlight: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exchange trades an identity credential and a declared role for a session.
// providerErr carries a failure reported by the identity provider, if any.
//
// The session store is only changed on success. Failures are *core.ExchangeError.
// The backend call is not cancelled with ctx; once sent, its outcome is always applied.
func (s *AuthService) Exchange(ctx context.Context, credential core.Credential, declaredRole, providerErr string) (core.Session, error) {
	if providerErr != "" || credential == "" {
		slogctx.Info(ctx, "Identity provider login failed", "provider_error", providerErr)
		return core.Session{}, &core.ExchangeError{Kind: core.FailureProvider, Message: MsgProviderFailure}
	}

	declared, err := core.ParseRole(declaredRole)
	if err == nil && !declared.Declarable() {
		err = core.ErrInvalidRole
	}
	if err != nil {
		return core.Session{}, &core.ExchangeError{Kind: core.FailureProvider, Message: MsgInvalidDeclaredRole, Err: err}
	}

	if s.singleFlight {
		if !s.inFlight.CompareAndSwap(false, true) {
			return core.Session{}, &core.ExchangeError{Kind: core.FailureBusy, Message: MsgBusy}
		}
		defer s.inFlight.Store(false)
	}

	ctx = context.WithoutCancel(ctx)

	result, err := s.exchanger.Exchange(ctx, credential, declared)
	if err != nil {
		var exErr *core.ExchangeError
		if !errors.As(err, &exErr) {
			exErr = &core.ExchangeError{Kind: core.FailureUnreachable, Message: MsgLoginFailed, Err: err}
		}
		slogctx.Warn(ctx, "Token exchange failed", "kind", exErr.Kind, "error", err)
		return core.Session{}, exErr
	}

	role, err := core.ParseRole(result.Role)
	if err != nil {
		slogctx.Warn(ctx, "Token exchange returned an invalid role", "error", err)
		return core.Session{}, &core.ExchangeError{Kind: core.FailureMalformed, Message: MsgInvalidRoleReceived, Err: err}
	}
	if result.AccessToken == "" {
		return core.Session{}, &core.ExchangeError{Kind: core.FailureMalformed, Message: MsgLoginFailed, Err: core.ErrEmptyToken}
	}

	if err := s.sessions.Login(ctx, result.AccessToken, role); err != nil {
		slogctx.Error(ctx, "Failed to store session", "error", err)
		return core.Session{}, &core.ExchangeError{Kind: core.FailureInternal, Message: MsgSessionNotSaved, Err: err}
	}

	if role != declared {
		slogctx.Info(ctx, "Backend assigned a different role", "declared", declared, "role", role)
	}
	slogctx.Info(ctx, "Login succeeded", "role", role)

	return core.Session{Token: result.AccessToken, Role: role}, nil
}

// Logout ends the current session
func (s *AuthService) Logout(ctx context.Context) error {
	role := s.sessions.CurrentRole()
	if err := s.sessions.Logout(ctx); err != nil {
		return err
	}
	slogctx.Info(ctx, "Logout succeeded", "role", role)
	return nil
}
