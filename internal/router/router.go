package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/skanderbh/billiard-hall/internal/handler"    // handlers implementing the hall's business logic
	"github.com/skanderbh/billiard-hall/internal/middleware" // middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  Load
	// balancers and monitoring use it to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) *echo.Group {
	// Operations that do not require an existing session: register, login,
	// refresh, logout.  Each handler generates or exchanges tokens itself.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked and
	// a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWT authentication.  The handler accepts a
	// JSON body containing a `refresh_token` and invalidates that token.
	g.POST("/logout", a.Logout)

	// Everything under /v1 requires a valid access token.  The hall runs
	// with two roles; both may operate the protected surface, with ADMIN
	// keeping a few extra routes (rate updates) to itself.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STAFF"))
	auth.GET("/me", a.Me)
	// Revoke every refresh token of the caller ("log out everywhere").
	auth.POST("/logout-all", a.LogoutAll)

	// Returned so the caller can hang the domain routes off the same
	// protected group.
	return auth
}

// RegisterHall wires the billiard-hall domain onto the protected group
// returned by RegisterAuth: tables, clients, sessions, the daily stats
// summary and the billing policy.  statsCache is the Redis response-cache
// middleware applied only to GET /v1/stats, where the dashboard polls
// hardest; pass nil to serve stats uncached.
func RegisterHall(auth *echo.Group, t *handler.TableHandler, cl *handler.ClientHandler, s *handler.SessionHandler, st *handler.StatsHandler, r *handler.RateHandler, statsCache echo.MiddlewareFunc) {
	// Floor plan.  Deleting a table with an open session is a 409.
	auth.GET("/tables", t.List)
	auth.POST("/tables", t.Create)
	auth.PUT("/tables/:id", t.Update)
	auth.DELETE("/tables/:id", t.Delete)
	// Live view of a single table: the open session (with running price)
	// or {"session": null} when the table is free.
	auth.GET("/tables/:id/session", s.Live)

	// Patron registry and the dashboard's prefix search box.
	auth.GET("/clients", cl.List)
	auth.POST("/clients", cl.Create)

	// Session lifecycle.  Start and stop are the money path: start claims
	// the table, stop freezes the tiered price.
	auth.POST("/sessions", s.Start)
	auth.GET("/sessions", s.List)
	auth.POST("/sessions/:id/stop", s.Stop)
	auth.POST("/sessions/:id/toggle-paid", s.TogglePaid)

	// Daily summary for the dashboard.
	if statsCache != nil {
		auth.GET("/stats", st.Get, statsCache)
	} else {
		auth.GET("/stats", st.Get)
	}

	// Billing policy: readable by all staff, writable by ADMIN only.
	auth.GET("/rates", r.Get)
	auth.PUT("/rates", r.Update, middleware.RequireRole("ADMIN"))
}
