package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newLoginContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	e := echo.New()
	a := NewAuthenticator("0123456789abcdef0123456789abcdef", "secret123")
	h := NewHandler(a, nil, false, zerolog.Nop())

	// Whitespace around the password must not matter.
	c, rec := newLoginContext(e, `{"password":" secret123 ","callbackUrl":"/patients/42"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.CallbackURL != "/patients/42" {
		t.Errorf("expected callback /patients/42, got %s", resp.CallbackURL)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie to be issued")
	}
	if _, ok := a.ValidateSession(cookie.Value); !ok {
		t.Error("expected issued cookie to validate")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := echo.New()
	a := NewAuthenticator("0123456789abcdef0123456789abcdef", "secret123")
	h := NewHandler(a, nil, false, zerolog.Nop())

	c, rec := newLoginContext(e, `{"password":"wrong"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp loginResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Success || resp.Error != "Senha incorreta" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if sessionCookie(rec) != nil {
		t.Error("expected no cookie on failed login")
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	e := echo.New()
	a := NewAuthenticator("0123456789abcdef0123456789abcdef", "")
	h := NewHandler(a, nil, false, zerolog.Nop())

	c, rec := newLoginContext(e, `{"password":"anything"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp loginResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "Sistema não configurado corretamente" {
		t.Errorf("unexpected error message: %s", resp.Error)
	}
}

func TestLogin_Throttled(t *testing.T) {
	e := echo.New()
	a := NewAuthenticator("0123456789abcdef0123456789abcdef", "secret123")
	h := NewHandler(a, NewLoginThrottle(1, 1), false, zerolog.Nop())

	c, rec := newLoginContext(e, `{"password":"wrong"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected first attempt to reach the password check, got %d", rec.Code)
	}

	c, rec = newLoginContext(e, `{"password":"wrong"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once throttled, got %d", rec.Code)
	}
}

func TestLogin_SanitizesCallback(t *testing.T) {
	e := echo.New()
	a := NewAuthenticator("0123456789abcdef0123456789abcdef", "secret123")
	h := NewHandler(a, nil, false, zerolog.Nop())

	for _, callback := range []string{"https://evil.example", "//evil.example", ""} {
		c, rec := newLoginContext(e, `{"password":"secret123","callbackUrl":"`+callback+`"}`)
		if err := h.Login(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var resp loginResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.CallbackURL != "/" {
			t.Errorf("callback %q: expected /, got %s", callback, resp.CallbackURL)
		}
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	e := echo.New()
	a := NewAuthenticator("0123456789abcdef0123456789abcdef", "secret123")
	h := NewHandler(a, nil, false, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected clearing cookie")
	}
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Error("expected cookie to be deleted")
	}
}
