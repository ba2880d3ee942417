// Package auth decides whether a request may proceed. Callers only get a
// pass/fail answer; nothing about the principal leaks into handlers.
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/maxviazov/openapi-skeleton/internal/config"
)

// ErrUnauthorized is returned for missing, malformed or rejected credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Authenticator checks the credentials carried by r.
type Authenticator interface {
	Authenticate(r *http.Request) error
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(r *http.Request) error

func (f AuthenticatorFunc) Authenticate(r *http.Request) error { return f(r) }

// AllowAll accepts every request. Used when auth.mode is "none".
var AllowAll Authenticator = AuthenticatorFunc(func(*http.Request) error { return nil })

// New selects the authenticator configured by cfg.Mode.
func New(cfg config.AuthConfig) (Authenticator, error) {
	switch cfg.Mode {
	case "", "none":
		return AllowAll, nil
	case "basic":
		return NewBasicAuthenticator(cfg.Username, cfg.PasswordHash)
	case "jwt":
		return NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
