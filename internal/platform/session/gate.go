package session

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// LoginPath is where unauthenticated browser requests are redirected.
const LoginPath = "/login"

// publicPrefixes lists path prefixes that bypass the session check entirely:
// the login flow itself, the database diagnostics page, share pages and their
// API (they carry their own token-based credential), the scheduled heartbeat,
// health checks, and static assets. Membership is a plain "starts with any
// of" test.
var publicPrefixes = []string{
	"/login",
	"/diagnostics",
	"/share/",
	"/api/share/",
	"/api/login",
	"/api/logout",
	"/api/cron/heartbeat",
	"/api/diagnostics",
	"/health",
	"/static/",
	"/favicon.ico",
}

// IsPublicPath reports whether the given path bypasses session auth.
func IsPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Gate returns middleware that blocks protected paths lacking a valid
// session credential. API paths get a 401; everything else is redirected to
// the login page with the originally requested path preserved as the
// callbackUrl query parameter so the login flow can forward the user back.
func Gate(v Validator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if IsPublicPath(path) {
				return next(c)
			}

			var token string
			if cookie, err := c.Cookie(CookieName); err == nil {
				token = cookie.Value
			}

			claims, ok := v.ValidateSession(token)
			if !ok {
				if strings.HasPrefix(path, "/api/") {
					return echo.NewHTTPError(http.StatusUnauthorized, "Não autorizado")
				}
				return c.Redirect(http.StatusFound,
					LoginPath+"?callbackUrl="+url.QueryEscape(path))
			}

			c.Set("session", claims)
			return next(c)
		}
	}
}
