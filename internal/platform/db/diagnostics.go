package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// TableCount is one row-count entry in the diagnostics report.
type TableCount struct {
	Table string `json:"table"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// DiagnosticsReport summarizes database connectivity for the support page.
type DiagnosticsReport struct {
	Status    string       `json:"status"`
	Database  string       `json:"database"`
	LatencyMS int64        `json:"latencyMs"`
	Tables    []TableCount `json:"tables"`
	Pool      *PoolStats   `json:"pool"`
	CheckedAt time.Time    `json:"checkedAt"`
	Error     string       `json:"error,omitempty"`
}

var diagnosticsTables = []string{"patient", "diagnosis", "visit", "attachment"}

// DiagnosticsHandler returns a connectivity report: ping latency, per-table
// row counts, and pool statistics. Row-count failures are reported per table
// without failing the whole probe.
func DiagnosticsHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
		defer cancel()

		report := &DiagnosticsReport{
			CheckedAt: time.Now().UTC(),
			Pool:      GetPoolStats(pool),
		}

		start := time.Now()
		if err := pool.Ping(ctx); err != nil {
			report.Status = "error"
			report.Database = "unreachable"
			report.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, report)
		}
		report.LatencyMS = time.Since(start).Milliseconds()
		report.Database = "connected"
		report.Status = "ok"

		for _, table := range diagnosticsTables {
			tc := TableCount{Table: table}
			if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&tc.Count); err != nil {
				tc.Error = err.Error()
				report.Status = "degraded"
			}
			report.Tables = append(report.Tables, tc)
		}

		return c.JSON(http.StatusOK, report)
	}
}
