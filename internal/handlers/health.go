package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports whether the server is up
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
