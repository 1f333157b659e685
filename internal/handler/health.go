package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health returns a health-check endpoint for load balancers.  It answers
// 200 "ok" when MySQL responds to a ping and 503 otherwise.  Redis is
// optional; its state is reported but never fails the check because the
// service falls back to in-process drafts without it.
func Health(db *sql.DB, rdb *redis.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := readCtx(c, defaultTimeout)
		defer cancel()

		body := echo.Map{"status": "ok", "database": "up", "redis": "disabled"}
		status := http.StatusOK
		if db == nil || db.PingContext(ctx) != nil {
			body["status"], body["database"] = "degraded", "down"
			status = http.StatusServiceUnavailable
		}
		if rdb != nil {
			body["redis"] = "up"
			if rdb.Ping(ctx).Err() != nil {
				body["redis"] = "down"
			}
		}
		return c.JSON(status, body)
	}
}
