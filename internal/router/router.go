// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/handler"
	"github.com/anvule/columbarium-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, protected endpoints
// under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)               // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)  // access only, no rotation
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("STAFF", "CUSTOMER"))
	auth.GET("/me", a.Me)

	// alias so clients can log out with just a refresh token in the body
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// full location tree for the cascade pickers and the per-area niche
// list and grid layout.  The cache middleware sits only on these
// routes; reservation endpoints must always hit the database.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api/Buildings", cache)
	g.GET("/all-data", p.GetLocationTree)
	g.GET("/:buildingId/floors/:floorId/areas/:areaId", p.GetNiches)
	g.GET("/:buildingId/floors/:floorId/areas/:areaId/layout", p.GetLayout)
}
