package db

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HeartbeatResult is the metrics payload returned by the heartbeat endpoint
// and recorded in heartbeat_log.
type HeartbeatResult struct {
	Status       string    `json:"status"`
	PatientCount int       `json:"patientCount"`
	LatencyMS    int64     `json:"latencyMs"`
	CheckedAt    time.Time `json:"checkedAt"`
	Error        string    `json:"error,omitempty"`
}

// Heartbeat runs a cheap aliveness probe against the database: a timed
// patient count. The result is appended to heartbeat_log so a scheduler
// hitting the endpoint leaves an audit trail; a failed log insert does not
// fail the probe.
func Heartbeat(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) *HeartbeatResult {
	res := &HeartbeatResult{CheckedAt: time.Now().UTC()}

	start := time.Now()
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&res.PatientCount)
	res.LatencyMS = time.Since(start).Milliseconds()

	if err != nil {
		res.Status = "error"
		res.Error = err.Error()
		logger.Error().Err(err).Msg("heartbeat query failed")
	} else {
		res.Status = "ok"
	}

	if _, err := pool.Exec(ctx, `
		INSERT INTO heartbeat_log (status, patient_count, latency_ms, checked_at)
		VALUES ($1, $2, $3, $4)`,
		res.Status, res.PatientCount, res.LatencyMS, res.CheckedAt,
	); err != nil {
		logger.Warn().Err(err).Msg("heartbeat log insert failed")
	}

	return res
}

// HeartbeatHandler returns the handler for the scheduled heartbeat endpoint.
// When cronSecret is non-empty, the request must carry it as a bearer token.
func HeartbeatHandler(pool *pgxpool.Pool, cronSecret string, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cronSecret != "" {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimPrefix(auth, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(cronSecret)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Não autorizado")
			}
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
		defer cancel()

		res := Heartbeat(ctx, pool, logger)
		if res.Status != "ok" {
			return c.JSON(http.StatusServiceUnavailable, res)
		}
		return c.JSON(http.StatusOK, res)
	}
}
