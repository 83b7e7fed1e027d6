package router

import (
	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/handler"
	"github.com/anvule/columbarium-reservation/internal/middleware"
)

// RegisterStaff registers the back-office console endpoints.  All
// routes require a valid JWT and the STAFF role.  Staff see the full
// reservation ledger, can look records up by phone, and confirm or
// cancel any pending reservation.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/api/NicheReservations",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STAFF"),
	)
	g.GET("", h.ListReservations)     // ?phone= narrows to one customer
	g.GET("/all", h.ListReservations) // legacy console alias
	g.GET("/staff/:id", h.GetReservation)
	g.PUT("/:id/confirm", h.ConfirmReservation)
	g.DELETE("/staff/:id", h.CancelReservation)
}
