package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/handler"
	"github.com/mella-app/mella/internal/middleware"
)

// RegisterWorker registers WORKER-scoped endpoints under /v1.  Workers
// manage their listings and drive the booking lifecycle: accepting or
// rejecting requests, travelling, working and completing.
func RegisterWorker(e *echo.Echo, a *handler.AdHandler, w *handler.WorkerBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("WORKER"),
	)

	// ---- Listings ----
	g.POST("/ads", a.Create)
	g.PUT("/ads/:id", a.Update)
	g.PATCH("/ads/:id/active", a.SetActive)
	g.GET("/my-ads", a.ListMine)

	// ---- Bookings ----
	g.GET("/worker/bookings", w.ListAssigned)
	g.PATCH("/bookings/:id/status", w.UpdateStatus)
	g.PATCH("/bookings/:id/eta", w.UpdateETA)
	g.PATCH("/bookings/:id/location", w.UpdateLocation)
}
