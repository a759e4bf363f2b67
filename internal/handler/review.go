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

// ReviewHandler lets a customer rate a completed booking.  The unique
// key on booking_id limits each booking to one review.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Bookings *repository.BookingRepo
	Ads      *repository.AdRepo
	Fanout   Notifier
	Hub      *realtime.Hub
}

func NewReviewHandler(r *repository.ReviewRepo, b *repository.BookingRepo, a *repository.AdRepo, f Notifier, hub *realtime.Hub) *ReviewHandler {
	if r == nil || b == nil || a == nil || f == nil {
		panic("nil dependency passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: r, Bookings: b, Ads: a, Fanout: f, Hub: hub}
}

// Create handles POST /v1/bookings/:id/review.  Customer only; the
// booking must be completed and not yet reviewed.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1..5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.CustomerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}
	if b.Status != model.BookingStatusCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not completed"})
	}

	review := model.Review{
		AdID:       b.AdID,
		BookingID:  b.ID,
		ReviewerID: uid,
		WorkerID:   b.WorkerID,
		Rating:     uint8(req.Rating),
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.Create(ctx, &review); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}

	adTitle := ""
	if ad, err := h.Ads.GetByID(ctx, b.AdID); err == nil {
		adTitle = ad.Title
	}
	_ = h.Fanout.Notify(ctx, b.WorkerID, model.NotificationTypeRating,
		"New review", "You received a new rating for "+adTitle,
		model.RatingData{BookingID: b.ID, AdID: b.AdID, Rating: review.Rating})
	_ = h.Fanout.RecordActivity(ctx, b.WorkerID, model.ActivityReceivedReview,
		model.ReviewActivityContent{AdID: b.AdID, ServiceTitle: adTitle, Rating: review.Rating},
		model.VisibilityPublic)
	h.Hub.Signal("reviews", "insert", realtime.UserFilter(b.WorkerID))

	return c.JSON(http.StatusCreated, review)
}
