package share

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/domain/patient"
)

// Handler serves the share-link endpoints. The token routes are public; the
// mint route sits behind the session gate with the rest of the API.
type Handler struct {
	tokens  *TokenService
	records RecordFetcher
	logger  zerolog.Logger
}

func NewHandler(tokens *TokenService, records RecordFetcher, logger zerolog.Logger) *Handler {
	return &Handler{tokens: tokens, records: records, logger: logger}
}

// RegisterRoutes registers the public token routes on the root router and the
// protected mint route on the authenticated API group.
func (h *Handler) RegisterRoutes(e *echo.Echo, api *echo.Group) {
	e.GET("/api/share/:token", h.Check)
	e.POST("/api/share/:token", h.Access)
	api.POST("/patients/:id/share", h.Mint)
}

type mintRequest struct {
	Password string `json:"password"`
}

type mintResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Mint issues a new share link for a patient.
func (h *Handler) Mint(c echo.Context) error {
	patientID := c.Param("id")

	var req mintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Password) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Senha é obrigatória")
	}

	token, err := h.tokens.Generate(patientID, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	data, err := h.tokens.Decode(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, mintResponse{
		Token:     token,
		URL:       "/share/" + token,
		ExpiresAt: data.ExpiresAt,
	})
}

// Check answers the password-less structural probe a share page makes before
// prompting for the password. Always 200; the body carries the verdict.
func (h *Handler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tokens.Check(c.Param("token")))
}

type accessRequest struct {
	Password string `json:"password"`
}

type tokenInfo struct {
	CreatedAt int64 `json:"createdAt"`
	ExpiresAt int64 `json:"expiresAt"`
}

type accessResponse struct {
	*Record
	TokenInfo tokenInfo `json:"tokenInfo"`
}

// Access exchanges a token/password pair for the shared patient record.
func (h *Handler) Access(c echo.Context) error {
	token := c.Param("token")

	var req accessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if token == "" || strings.TrimSpace(req.Password) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token e senha são obrigatórios")
	}

	data, err := h.tokens.Validate(token, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Senha incorreta ou link inválido/expirado")
	}

	record, err := h.records.FetchRecord(c.Request().Context(), data.PatientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Paciente não encontrado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.logger.Info().
		Str("patient_id", data.PatientID).
		Time("expires_at", time.UnixMilli(data.ExpiresAt)).
		Msg("share record accessed")

	return c.JSON(http.StatusOK, accessResponse{
		Record:    record,
		TokenInfo: tokenInfo{CreatedAt: data.Timestamp, ExpiresAt: data.ExpiresAt},
	})
}
