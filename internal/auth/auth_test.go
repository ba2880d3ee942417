package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maxviazov/openapi-skeleton/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNew_SelectsMode(t *testing.T) {
	a, err := New(config.AuthConfig{Mode: "none"})
	require.NoError(t, err)
	assert.NoError(t, a.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil)))

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	a, err = New(config.AuthConfig{Mode: "basic", Username: "admin", PasswordHash: string(hash)})
	require.NoError(t, err)
	assert.IsType(t, &BasicAuthenticator{}, a)

	a, err = New(config.AuthConfig{Mode: "jwt", JWTSecret: testSecret})
	require.NoError(t, err)
	assert.IsType(t, &JWTAuthenticator{}, a)

	_, err = New(config.AuthConfig{Mode: "oauth"})
	assert.Error(t, err)
	_, err = New(config.AuthConfig{Mode: "jwt", JWTSecret: "short"})
	assert.Error(t, err)
	_, err = New(config.AuthConfig{Mode: "basic", Username: "admin", PasswordHash: "plain"})
	assert.Error(t, err)
}

func TestBasicAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	a, err := NewBasicAuthenticator("admin", string(hash))
	require.NoError(t, err)

	cases := []struct {
		name   string
		user   string
		pass   string
		noAuth bool
		ok     bool
	}{
		{name: "valid", user: "admin", pass: "s3cret", ok: true},
		{name: "wrong password", user: "admin", pass: "nope"},
		{name: "wrong user", user: "root", pass: "s3cret"},
		{name: "missing header", noAuth: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if !tc.noAuth {
				r.SetBasicAuth(tc.user, tc.pass)
			}
			err := a.Authenticate(r)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	a, err := NewBasicAuthenticator("u", h)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.SetBasicAuth("u", "pw")
	assert.NoError(t, a.Authenticate(r))
}

func withBearer(tok string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	return r
}

func TestJWTAuthenticator(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a, err := NewJWTAuthenticator(testSecret, "pets")
	require.NoError(t, err)
	a.now = func() time.Time { return now }

	valid, err := a.Issue("ops", time.Hour)
	require.NoError(t, err)
	assert.NoError(t, a.Authenticate(withBearer(valid)))

	lower := httptest.NewRequest(http.MethodGet, "/", nil)
	lower.Header.Set("Authorization", "bearer "+valid)
	assert.NoError(t, a.Authenticate(lower))

	expired, err := a.Issue("ops", -time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Authenticate(withBearer(expired)), ErrUnauthorized)

	other, err := NewJWTAuthenticator(testSecret, "someone-else")
	require.NoError(t, err)
	other.now = a.now
	foreign, err := other.Issue("ops", time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Authenticate(withBearer(foreign)), ErrUnauthorized)

	wrongKey, err := NewJWTAuthenticator("ffffffffffffffffffffffffffffffff", "pets")
	require.NoError(t, err)
	wrongKey.now = a.now
	forged, err := wrongKey.Issue("ops", time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Authenticate(withBearer(forged)), ErrUnauthorized)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "pets"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	assert.ErrorIs(t, a.Authenticate(withBearer(noExp)), ErrUnauthorized)

	assert.ErrorIs(t, a.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil)), ErrUnauthorized)
	assert.ErrorIs(t, a.Authenticate(withBearer("garbage")), ErrUnauthorized)
}
