package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/realtime"
)

// WSHandler upgrades GET /v1/ws connections and hands them to the hub.
// Browsers cannot set an Authorization header on a WebSocket dial, so
// the access token travels in the `token` query parameter instead.
type WSHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
}

func NewWSHandler(hub *realtime.Hub, jwtSecret string) *WSHandler {
	if hub == nil {
		panic("nil hub passed to NewWSHandler")
	}
	return &WSHandler{Hub: hub, JWTSecret: jwtSecret}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API serves native apps and web clients on other origins;
	// auth happens via the token, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve authenticates the token, upgrades the connection and registers
// the client.  The hub owns the connection from that point on.
func (h *WSHandler) Serve(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))
	if token == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token required"})
	}
	uid, ok := h.userIDFromToken(token)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return nil
	}
	h.Hub.Register(uid, conn)
	return nil
}

func (h *WSHandler) userIDFromToken(raw string) (uint64, bool) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), true
	case string:
		if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
