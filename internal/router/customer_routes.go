package router

import (
	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/handler"
	"github.com/anvule/columbarium-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints.  All routes
// require a valid JWT and the CUSTOMER role.  Customers can browse
// niches with their own holds highlighted, place a reservation,
// list/update/cancel their own reservations.  The rate limiter guards
// reservation creation against retry storms around popular areas.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	res := e.Group(
		"/api/NicheReservations",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	res.POST("", h.CreateReservation, limiter)
	res.GET("/customer", h.ListMyReservations)
	res.GET("/:id", h.GetReservation)
	res.PUT("/:id", h.UpdateReservation)
	res.PATCH("/:id", h.UpdateReservation)
	res.DELETE("/:id", h.CancelReservation)

	browse := e.Group(
		"/v1/customer/buildings",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	browse.GET("/:buildingId/floors/:floorId/areas/:areaId", h.GetMyNiches)
	browse.GET("/:buildingId/floors/:floorId/areas/:areaId/layout", h.GetMyLayout)
}
