package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/handler"
	"github.com/mella-app/mella/internal/middleware"
)

// RegisterCustomer registers the booking-as-customer endpoints under
// /v1: creating bookings against listings, following own bookings,
// attaching an emergency contact and reviewing completed bookings.
// Both roles are accepted because a worker booking someone else's
// listing acts as a customer; booking your own listing is rejected in
// the handler.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, r *handler.ReviewHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "WORKER"),
	)
	g.POST("/ads/:id/book", b.Create)
	g.GET("/my-bookings", b.ListMine)
	g.PATCH("/bookings/:id/emergency-contact", b.SetEmergencyContact)
	g.POST("/bookings/:id/review", r.Create)
}
