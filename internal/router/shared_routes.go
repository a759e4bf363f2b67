package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/handler"
	"github.com/mella-app/mella/internal/middleware"
)

// RegisterShared registers endpoints available to every authenticated
// user regardless of role: the notification inbox, direct messaging
// with typing indicators, and booking detail (both parties of a
// booking may read it; the repository enforces membership).
func RegisterShared(e *echo.Echo, n *handler.NotificationHandler, m *handler.MessageHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "WORKER"),
	)

	// ---- Notifications ----
	g.GET("/notifications", n.List)
	g.GET("/notifications/unread-count", n.UnreadCount)
	g.PATCH("/notifications/:id/read", n.MarkRead)
	g.POST("/notifications/read-all", n.MarkAllRead)

	// ---- Messaging ----
	g.POST("/messages", m.Send)
	g.GET("/conversations", m.Conversations)
	g.GET("/conversations/:user_id/messages", m.Thread)
	g.PUT("/conversations/:user_id/typing", m.StartTyping)
	g.DELETE("/conversations/:user_id/typing", m.StopTyping)

	// ---- Booking detail ----
	g.GET("/bookings/:id", b.GetDetail)
}
