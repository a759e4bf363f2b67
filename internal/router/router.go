package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/mella-app/mella/internal/handler"    // import the handlers that implement business logic
	"github.com/mella-app/mella/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only issues a
	// new access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a bearer token or a refresh token in the
	// body, so it is registered without the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)
}

// RegisterPublic registers the unauthenticated browse surface: listing
// search and detail, the activity feed, emergency stations and the
// first-aid guide.  The caller passes the response cache middleware so
// these read-heavy endpoints are served from Redis when possible.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, f *handler.FeedHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mws...)
	g.GET("/ads", p.ListAds)
	g.GET("/ads/:id", p.GetAd)
	// Anonymous callers see public activities; a bearer token adds the
	// caller's own private rows.
	g.GET("/feed", f.List)

	// Reviews are public so guests can judge a listing before signup.
	g.GET("/ads/:id/reviews", p.ListReviews)

	// Emergency data is static and must stay reachable without a login.
	g.GET("/emergency/stations", handler.EmergencyStations)
	g.GET("/emergency/first-aid/topics", handler.FirstAidTopics)
	g.POST("/emergency/first-aid", handler.FirstAidChat)
}

// RegisterRealtime registers the WebSocket endpoint.  Authentication
// happens inside the handler via the token query parameter.
func RegisterRealtime(e *echo.Echo, ws *handler.WSHandler) {
	e.GET("/v1/ws", ws.Serve)
}
