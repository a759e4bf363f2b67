package handler

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/geo"
	"github.com/mella-app/mella/internal/model"
	"github.com/mella-app/mella/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: listing
// search with optional distance filtering, and listing detail with
// reviews.  These endpoints sit behind the response cache middleware.
type PublicHandler struct {
	Ads     *repository.AdRepo
	Reviews *repository.ReviewRepo
}

func NewPublicHandler(ads *repository.AdRepo, reviews *repository.ReviewRepo) *PublicHandler {
	if ads == nil || reviews == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Ads: ads, Reviews: reviews}
}

// browseItem is an ad plus its distance from the caller when the
// request carried coordinates.
type browseItem struct {
	model.Ad
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ListAds handles GET /v1/ads with optional filters:
// category, q (title substring), lat+lng+radius_km, limit.
// When coordinates are present results are sorted nearest first;
// otherwise newest first.
func (h *PublicHandler) ListAds(c echo.Context) error {
	category := strings.ToLower(strings.TrimSpace(c.QueryParam("category")))
	q := strings.TrimSpace(c.QueryParam("q"))
	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	lat, hasLat := queryFloat(c, "lat")
	lng, hasLng := queryFloat(c, "lng")
	radiusKm, hasRadius := queryFloat(c, "radius_km")
	useGeo := hasLat && hasLng
	if hasRadius && !useGeo {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "radius_km requires lat and lng"})
	}
	if hasRadius && radiusKm <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "radius_km must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Over-fetch when a radius filter will discard rows afterwards.
	fetch := limit
	if useGeo {
		fetch = limit * 4
		if fetch > 500 {
			fetch = 500
		}
	}
	ads, err := h.Ads.ListActive(ctx, category, q, fetch)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]browseItem, 0, len(ads))
	for _, ad := range ads {
		it := browseItem{Ad: ad}
		if useGeo {
			d := geo.DistanceKm(lat, lng, ad.Lat, ad.Lng)
			if hasRadius && d > radiusKm {
				continue
			}
			it.DistanceKm = &d
		}
		items = append(items, it)
	}
	if useGeo {
		sort.Slice(items, func(i, j int) bool { return *items[i].DistanceKm < *items[j].DistanceKm })
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return c.JSON(http.StatusOK, echo.Map{"ads": items})
}

// GetAd handles GET /v1/ads/:id, returning the listing together with
// its reviews and average rating.
func (h *PublicHandler) GetAd(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ad, err := h.Ads.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrAdNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	reviews, avg, err := h.Reviews.ListByAd(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ad":             ad,
		"reviews":        reviews,
		"average_rating": avg,
	})
}

// ListReviews handles GET /v1/ads/:id/reviews.
func (h *PublicHandler) ListReviews(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Ads.GetByID(ctx, id); err != nil {
		if err == repository.ErrAdNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	reviews, avg, err := h.Reviews.ListByAd(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews, "average_rating": avg})
}
