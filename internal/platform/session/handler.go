package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler serves the login and logout endpoints.
type Handler struct {
	checker  PasswordChecker
	issuer   interface{ CreateSession() (string, error) }
	throttle *LoginThrottle
	secure   bool
	logger   zerolog.Logger
}

// NewHandler builds the login handler. secure controls the cookie's Secure
// flag and should be true in production.
func NewHandler(auth *Authenticator, throttle *LoginThrottle, secure bool, logger zerolog.Logger) *Handler {
	return &Handler{
		checker:  auth,
		issuer:   auth,
		throttle: throttle,
		secure:   secure,
		logger:   logger,
	}
}

// RegisterRoutes mounts the login/logout endpoints. Both are on the gate's
// public list — an unauthenticated user must be able to reach them.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/login", h.Login)
	e.POST("/api/logout", h.Logout)
}

type loginRequest struct {
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

type loginResponse struct {
	Success     bool   `json:"success"`
	CallbackURL string `json:"callbackUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Login verifies the shared application password and, on success, issues the
// session cookie. All rejection paths return the same generic message so a
// caller cannot probe why an attempt failed; the specific cause is logged.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, loginResponse{Success: false, Error: "Senha incorreta"})
	}

	if !h.throttle.Allow(c.RealIP()) {
		h.logger.Warn().Str("remote_ip", c.RealIP()).Msg("login throttled")
		return c.JSON(http.StatusTooManyRequests, loginResponse{
			Success: false,
			Error:   "Muitas tentativas de login. Tente novamente em instantes",
		})
	}

	ok, err := h.checker.CheckPassword(req.Password)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			h.logger.Error().Msg("APP_PASSWORD not configured")
			return c.JSON(http.StatusInternalServerError, loginResponse{
				Success: false,
				Error:   "Sistema não configurado corretamente",
			})
		}
		h.logger.Error().Err(err).Msg("password check failed")
		return c.JSON(http.StatusInternalServerError, loginResponse{
			Success: false,
			Error:   "Erro ao processar login",
		})
	}
	if !ok {
		h.logger.Warn().Str("remote_ip", c.RealIP()).Msg("failed login attempt")
		return c.JSON(http.StatusUnauthorized, loginResponse{Success: false, Error: "Senha incorreta"})
	}

	token, err := h.issuer.CreateSession()
	if err != nil {
		h.logger.Error().Err(err).Msg("session creation failed")
		return c.JSON(http.StatusInternalServerError, loginResponse{
			Success: false,
			Error:   "Sistema não configurado corretamente",
		})
	}

	c.SetCookie(NewCookie(token, h.secure))
	h.logger.Info().Str("remote_ip", c.RealIP()).Msg("login successful")

	return c.JSON(http.StatusOK, loginResponse{
		Success:     true,
		CallbackURL: sanitizeCallback(req.CallbackURL),
	})
}

// Logout deletes the session cookie. There is no server-side state to tear
// down.
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(ClearCookie(h.secure))
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// sanitizeCallback restricts the post-login redirect to local paths so the
// login endpoint cannot be used as an open redirect.
func sanitizeCallback(callback string) string {
	if callback == "" || !strings.HasPrefix(callback, "/") || strings.HasPrefix(callback, "//") {
		return "/"
	}
	return callback
}
