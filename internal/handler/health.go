package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the load-balancer probe endpoint.  It returns "ok" with
// HTTP 200 while the process is serving.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
