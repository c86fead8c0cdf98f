package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck answers the root liveness probe.
func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "API is running...")
}
