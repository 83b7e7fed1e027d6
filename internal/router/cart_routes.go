package router

import (
	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/handler"
	"github.com/anvule/columbarium-reservation/internal/middleware"
)

// RegisterCart registers the memorial goods cart endpoints under /v1.
// The cart is customer-only and degrades to 503 when Redis is down.
func RegisterCart(e *echo.Echo, h *handler.CartHandler, jwtSecret string) {
	g := e.Group(
		"/v1/cart",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.GET("", h.ListItems)
	g.POST("/items", h.AddItem)
	g.DELETE("/items/:itemId", h.RemoveItem)
	g.DELETE("", h.ClearCart)
}
