package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/model"
	"github.com/mella-app/mella/internal/realtime"
	"github.com/mella-app/mella/internal/repository"
)

// AdHandler exposes listing management for workers.  Publishing a new
// listing also records a public feed activity and signals connected
// clients so browse views refresh.
type AdHandler struct {
	Ads    *repository.AdRepo
	Fanout Notifier
	Hub    *realtime.Hub
}

func NewAdHandler(ads *repository.AdRepo, fanout Notifier, hub *realtime.Hub) *AdHandler {
	if ads == nil || fanout == nil {
		panic("nil dependency passed to NewAdHandler")
	}
	return &AdHandler{Ads: ads, Fanout: fanout, Hub: hub}
}

type adReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	PriceCents  uint32  `json:"price_cents"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func (r *adReq) normalize() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	if r.Title == "" || r.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and category required")
	}
	if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid coordinates")
	}
	return nil
}

// Create handles POST /v1/ads.  Worker only.
func (h *AdHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req adReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ad := model.Ad{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Lat:         req.Lat,
		Lng:         req.Lng,
		IsActive:    true,
	}
	if err := h.Ads.Create(ctx, &ad); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ad failed"})
	}

	// Side channels never fail the request.
	_ = h.Fanout.RecordActivity(ctx, uid, model.ActivityNewService, model.NewServiceContent{
		AdID:       ad.ID,
		Title:      ad.Title,
		Category:   ad.Category,
		PriceCents: ad.PriceCents,
	}, model.VisibilityPublic)
	h.Hub.Signal("ads", "insert")

	return c.JSON(http.StatusCreated, ad)
}

// Update handles PUT /v1/ads/:id.  Only the owning worker may edit.
func (h *AdHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}
	var req adReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Ads.Update(ctx, id, uid, req.Title, req.Description, req.Category, req.PriceCents, req.Lat, req.Lng)
	switch err {
	case nil:
	case repository.ErrAdNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ad"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Hub.Signal("ads", "update")
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// SetActive handles PATCH /v1/ads/:id/active with {"active": bool}.
// Deactivation hides the listing from browse without deleting it, so
// existing bookings keep their reference.
func (h *AdHandler) SetActive(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Ads.SetActive(ctx, id, uid, *req.Active)
	switch err {
	case nil:
	case repository.ErrAdNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ad"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Hub.Signal("ads", "update")
	return c.JSON(http.StatusOK, echo.Map{"active": *req.Active})
}

// ListMine handles GET /v1/my-ads for the worker dashboard.
func (h *AdHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	ads, err := h.Ads.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ads": ads})
}
