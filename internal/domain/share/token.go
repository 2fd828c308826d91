// Package share implements password-protected, time-limited share links that
// grant anonymous read-only access to a single patient's record.
//
// A share token is a self-contained payload — patient id, issue timestamp,
// the chosen password, and an expiry — serialized to JSON and base64-encoded
// with the three reserved characters remapped so the result can be used
// directly as a URL path segment. The payload is deliberately NOT signed:
// the wire format is fixed by existing issued links, and because the token
// embeds its own password, a MAC would add nothing against anyone who can
// read the URL. Access control therefore rests entirely on the embedded
// password check and the expiry.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TokenTTL is the share-link lifetime.
const TokenTTL = 30 * 24 * time.Hour

// ErrInvalidToken is the single error returned for every validation failure
// (malformed token, wrong password, expired link) so callers cannot probe
// why a token was rejected. The distinct cause is logged internally.
var ErrInvalidToken = errors.New("share: invalid token")

// TokenData is the decoded share-token payload. Times are milliseconds since
// epoch.
type TokenData struct {
	PatientID string `json:"patientId"`
	Timestamp int64  `json:"timestamp"`
	Password  string `json:"password"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CheckResult is the outcome of a structural (password-less) token check.
type CheckResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// TokenService issues and validates share tokens. It is stateless: no
// registry of issued tokens exists, so a token cannot be revoked before its
// expiry.
type TokenService struct {
	now    func() time.Time
	logger zerolog.Logger
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService builds a TokenService.
func NewTokenService(logger zerolog.Logger, opts ...TokenOption) *TokenService {
	s := &TokenService{now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate issues a share token scoped to one patient, valid for TokenTTL.
// Both inputs are trimmed and must be non-empty; minimum password length is
// the caller's concern.
func (s *TokenService) Generate(patientID, password string) (string, error) {
	patientID = strings.TrimSpace(patientID)
	password = strings.TrimSpace(password)
	if patientID == "" {
		return "", errors.New("share: patientId is required")
	}
	if password == "" {
		return "", errors.New("share: password is required")
	}

	now := s.now()
	data := TokenData{
		PatientID: patientID,
		Timestamp: now.UnixMilli(),
		Password:  password,
		ExpiresAt: now.Add(TokenTTL).UnixMilli(),
	}

	s.logger.Info().
		Str("patient_id", data.PatientID).
		Time("expires_at", time.UnixMilli(data.ExpiresAt)).
		Msg("share token issued")

	return encodeToken(data)
}

// Validate checks a token/password pair and returns the embedded scope on
// success. Wrong password, expired link, and malformed token all collapse to
// ErrInvalidToken.
func (s *TokenService) Validate(token, password string) (*TokenData, error) {
	data, err := decodeToken(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("share token rejected: malformed")
		return nil, ErrInvalidToken
	}

	if strings.TrimSpace(data.Password) != strings.TrimSpace(password) {
		s.logger.Warn().Str("patient_id", data.PatientID).Msg("share token rejected: wrong password")
		return nil, ErrInvalidToken
	}

	if s.now().UnixMilli() > data.ExpiresAt {
		s.logger.Warn().Str("patient_id", data.PatientID).Msg("share token rejected: expired")
		return nil, ErrInvalidToken
	}

	return data, nil
}

// Check performs the weaker, password-less structural validation used to
// give early feedback ("link expired") before a password is even requested.
// Unlike Validate it distinguishes the failure reasons, since none of them
// reveal anything about the password.
func (s *TokenService) Check(token string) CheckResult {
	if token == "" {
		return CheckResult{Valid: false, Error: "Token não fornecido"}
	}

	data, err := decodeToken(token)
	if err != nil {
		return CheckResult{Valid: false, Error: "Token inválido ou corrompido"}
	}

	if data.PatientID == "" || data.Password == "" || data.ExpiresAt == 0 {
		return CheckResult{Valid: false, Error: "Token malformado"}
	}

	if s.now().UnixMilli() > data.ExpiresAt {
		return CheckResult{Valid: false, Error: "Token expirado"}
	}

	return CheckResult{Valid: true}
}

// Decode decodes a token without any password or expiry check. Only exposed
// for the non-production debug panel.
func (s *TokenService) Decode(token string) (*TokenData, error) {
	return decodeToken(token)
}

var (
	toURLSafe   = strings.NewReplacer("+", "-", "/", "_", "=", "")
	fromURLSafe = strings.NewReplacer("-", "+", "_", "/")
)

// encodeToken serializes the payload and produces the URL-safe text form:
// standard base64 with "+"->"-", "/"->"_" and trailing padding stripped.
func encodeToken(data TokenData) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return toURLSafe.Replace(base64.StdEncoding.EncodeToString(raw)), nil
}

// decodeToken is the exact inverse of encodeToken: the substitutions are
// reversed, padding is restored from the length mod 4, and the payload is
// parsed. The round trip decode(encode(x)) == x must hold for every valid
// payload since the token carries all state.
func decodeToken(token string) (*TokenData, error) {
	normalized := fromURLSafe.Replace(token)
	if m := len(normalized) % 4; m != 0 {
		normalized += strings.Repeat("=", 4-m)
	}

	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, err
	}

	data := &TokenData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, err
	}
	return data, nil
}
