package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthenticator checks HTTP Basic credentials against one user whose
// password is stored as a bcrypt hash.
type BasicAuthenticator struct {
	username string
	hash     []byte
}

func NewBasicAuthenticator(username, passwordHash string) (*BasicAuthenticator, error) {
	if username == "" {
		return nil, errors.New("basic auth requires a username")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("basic auth password hash: %w", err)
	}
	return &BasicAuthenticator{username: username, hash: []byte(passwordHash)}, nil
}

func (a *BasicAuthenticator) Authenticate(r *http.Request) error {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return fmt.Errorf("%w: missing basic credentials", ErrUnauthorized)
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(pass))
	if !userOK || passErr != nil {
		return fmt.Errorf("%w: bad credentials", ErrUnauthorized)
	}
	return nil
}

// HashPassword produces the bcrypt hash expected in auth.password_hash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
