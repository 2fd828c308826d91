// Package session implements staff authentication for the medrec server: a
// single shared application password is exchanged for a signed, expiring
// session credential carried in an HTTP-only cookie. Sessions are stateless —
// validity is fully determined by the token's signature and embedded expiry,
// so any number of server instances can verify a credential without shared
// storage.
package session

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie.
const CookieName = "bb-session"

// Duration is the session lifetime.
const Duration = 7 * 24 * time.Hour

// ErrNotConfigured is returned when the signing secret or the shared
// application password is absent. Authentication fails closed in that case.
var ErrNotConfigured = errors.New("session: authentication is not configured")

// Claims is the signed session payload. Times are milliseconds since epoch,
// matching the wire format consumed by existing clients.
type Claims struct {
	jwt.RegisteredClaims
	Authenticated bool  `json:"authenticated"`
	CreatedAtMS   int64 `json:"createdAt"`
	ExpiresAtMS   int64 `json:"expiresAt"`
}

// PasswordChecker verifies a login credential. The shared-password scheme
// lives behind this interface so a per-user credential store can replace it
// without touching the login handler or the request gate.
type PasswordChecker interface {
	CheckPassword(candidate string) (bool, error)
}

// Validator verifies a previously issued session credential.
type Validator interface {
	ValidateSession(token string) (*Claims, bool)
}

// Authenticator issues and verifies session credentials. The secret and the
// shared password are injected at construction, never read from globals.
type Authenticator struct {
	secret   []byte
	password string
	now      func() time.Time
}

// Option customizes an Authenticator.
type Option func(*Authenticator)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// NewAuthenticator builds an Authenticator from the configured signing secret
// and shared application password. Either may be empty; the corresponding
// operations then fail with ErrNotConfigured.
func NewAuthenticator(secret, password string, opts ...Option) *Authenticator {
	a := &Authenticator{
		secret:   []byte(secret),
		password: strings.TrimSpace(password),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CheckPassword compares the candidate against the configured shared
// password, trimming surrounding whitespace on both sides. An empty
// configured password means the system is misconfigured: the check fails
// with ErrNotConfigured rather than accepting anything.
func (a *Authenticator) CheckPassword(candidate string) (bool, error) {
	if a.password == "" {
		return false, ErrNotConfigured
	}
	candidate = strings.TrimSpace(candidate)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.password)) == 1, nil
}

// CreateSession issues a signed session token valid for Duration. It is a
// pure function of the current time and the secret; persisting the token as
// a cookie is the caller's job.
func (a *Authenticator) CreateSession() (string, error) {
	if len(a.secret) == 0 {
		return "", ErrNotConfigured
	}

	now := a.now()
	expiresAt := now.Add(Duration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Authenticated: true,
		CreatedAtMS:   now.UnixMilli(),
		ExpiresAtMS:   expiresAt.UnixMilli(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ValidateSession verifies a session token. Malformed input, a bad
// signature, and an expired credential are all reported identically as
// (nil, false) so callers cannot distinguish why a token was rejected.
func (a *Authenticator) ValidateSession(token string) (*Claims, bool) {
	if len(a.secret) == 0 || token == "" {
		return nil, false
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	if claims.ExpiresAtMS > 0 && a.now().UnixMilli() > claims.ExpiresAtMS {
		return nil, false
	}
	if !claims.Authenticated {
		return nil, false
	}

	return claims, true
}

// NewCookie builds the session cookie for an issued token. The secure flag
// should be set in production so the cookie only travels over TLS.
func NewCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(Duration.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that deletes the session on the client.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
