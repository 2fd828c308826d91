package share

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestTokenService(opts ...TokenOption) *TokenService {
	return NewTokenService(zerolog.Nop(), opts...)
}

func TestGenerate_RoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate("patient-42", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := svc.Validate(token, "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.PatientID != "patient-42" {
		t.Errorf("expected patient-42, got %s", data.PatientID)
	}
	if data.ExpiresAt-data.Timestamp != TokenTTL.Milliseconds() {
		t.Errorf("expected %v lifetime, got %dms", TokenTTL, data.ExpiresAt-data.Timestamp)
	}
}

func TestGenerate_URLSafe(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate("patient-42", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token contains reserved characters: %s", token)
	}
}

func TestGenerate_TrimsInputs(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate("  patient-42  ", "  hunter2  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := svc.Validate(token, "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.PatientID != "patient-42" {
		t.Errorf("expected trimmed patient id, got %q", data.PatientID)
	}
}

func TestGenerate_EmptyInputs(t *testing.T) {
	svc := newTestTokenService()

	if _, err := svc.Generate("", "hunter2"); err == nil {
		t.Error("expected error for empty patient id")
	}
	if _, err := svc.Generate("patient-42", "   "); err == nil {
		t.Error("expected error for blank password")
	}
}

func TestValidate_WrongPassword(t *testing.T) {
	svc := newTestTokenService()

	token, _ := svc.Generate("patient-42", "hunter2")

	if _, err := svc.Validate(token, "wrong"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_PasswordWhitespace(t *testing.T) {
	svc := newTestTokenService()

	token, _ := svc.Generate("patient-42", "hunter2")

	if _, err := svc.Validate(token, "  hunter2  "); err != nil {
		t.Errorf("expected whitespace-padded password to match, got %v", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := issued
	svc := newTestTokenService(WithClock(func() time.Time { return clock }))

	token, _ := svc.Generate("patient-42", "hunter2")

	clock = issued.Add(TokenTTL + time.Minute)
	if _, err := svc.Validate(token, "hunter2"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}

	// Still valid one minute before expiry.
	clock = issued.Add(TokenTTL - time.Minute)
	if _, err := svc.Validate(token, "hunter2"); err != nil {
		t.Errorf("expected token still valid before expiry, got %v", err)
	}
}

func TestValidate_CorruptedTokens(t *testing.T) {
	svc := newTestTokenService()

	for _, token := range []string{
		"",
		"not-base64!!!",
		"aGVsbG8", // valid base64, not JSON
		"e30",     // "{}": decodes, but the empty password never matches
		strings.Repeat("A", 5000),
	} {
		if _, err := svc.Validate(token, "hunter2"); err != ErrInvalidToken {
			t.Errorf("token %.20q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidate_Idempotent(t *testing.T) {
	svc := newTestTokenService()

	token, _ := svc.Generate("patient-42", "hunter2")

	for i := 0; i < 3; i++ {
		if _, err := svc.Validate(token, "hunter2"); err != nil {
			t.Fatalf("validation %d failed: %v", i+1, err)
		}
	}
}

func TestCheck(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := issued
	svc := newTestTokenService(WithClock(func() time.Time { return clock }))

	valid, _ := svc.Generate("patient-42", "hunter2")
	malformed, _ := encodeToken(TokenData{PatientID: "patient-42"})

	tests := []struct {
		name    string
		token   string
		advance time.Duration
		valid   bool
		errMsg  string
	}{
		{"valid", valid, 0, true, ""},
		{"empty", "", 0, false, "Token não fornecido"},
		{"garbage", "%%%", 0, false, "Token inválido ou corrompido"},
		{"missing fields", malformed, 0, false, "Token malformado"},
		{"expired", valid, TokenTTL + time.Hour, false, "Token expirado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock = issued.Add(tt.advance)
			res := svc.Check(tt.token)
			if res.Valid != tt.valid {
				t.Errorf("Check() valid = %v, want %v", res.Valid, tt.valid)
			}
			if res.Error != tt.errMsg {
				t.Errorf("Check() error = %q, want %q", res.Error, tt.errMsg)
			}
		})
	}
}

func TestDecode_PaddingRestored(t *testing.T) {
	svc := newTestTokenService()

	// Payload lengths that produce one and two stripped padding characters.
	for _, id := range []string{"a", "ab", "abc", "abcd"} {
		token, err := svc.Generate(id, "pw")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := svc.Decode(token)
		if err != nil {
			t.Fatalf("id %q: decode failed: %v", id, err)
		}
		if data.PatientID != id {
			t.Errorf("expected %q, got %q", id, data.PatientID)
		}
	}
}
