package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/repository"
)

// FeedHandler serves the community activity stream.  The endpoint is
// public: anonymous callers see public activities only, while a valid
// bearer token additionally surfaces the caller's own private rows.
type FeedHandler struct {
	Feed      *repository.FeedRepo
	JWTSecret string
}

func NewFeedHandler(f *repository.FeedRepo, jwtSecret string) *FeedHandler {
	if f == nil {
		panic("nil repository passed to NewFeedHandler")
	}
	return &FeedHandler{Feed: f, JWTSecret: jwtSecret}
}

// optionalUserID parses a bearer token when one is present.  A missing
// or invalid token is not an error here; the caller is simply treated
// as anonymous.
func (h *FeedHandler) optionalUserID(c echo.Context) *uint64 {
	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil
	}
	raw := strings.TrimPrefix(authHeader, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		return nil
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	switch sub := claims["sub"].(type) {
	case float64:
		uid := uint64(sub)
		return &uid
	case string:
		if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

// List handles GET /v1/feed?limit=n, newest first.
func (h *FeedHandler) List(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	viewer := h.optionalUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Feed.ListVisible(ctx, viewer, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"activities": items})
}
