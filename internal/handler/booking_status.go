package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/model"
	"github.com/mella-app/mella/internal/queue"
	"github.com/mella-app/mella/internal/realtime"
	"github.com/mella-app/mella/internal/repository"
	queuepub "github.com/mella-app/mella/internal/service"
)

// WorkerBookingHandler covers the worker side of the lifecycle: moving
// a booking through its states and reporting ETA and live position
// while travelling to the customer.
type WorkerBookingHandler struct {
	Bookings *repository.BookingRepo
	Ads      *repository.AdRepo
	Fanout   Notifier
	Hub      *realtime.Hub
}

func NewWorkerBookingHandler(b *repository.BookingRepo, a *repository.AdRepo, f Notifier, hub *realtime.Hub) *WorkerBookingHandler {
	if b == nil || a == nil || f == nil {
		panic("nil dependency passed to NewWorkerBookingHandler")
	}
	return &WorkerBookingHandler{Bookings: b, Ads: a, Fanout: f, Hub: hub}
}

type updateStatusReq struct {
	Status string   `json:"status"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.  Worker only.
// The booking row is locked for the duration of the transaction, the
// requested transition is checked against the lifecycle table, and the
// new status plus its history entry commit atomically.  Illegal
// transitions return 409 with the offending pair spelled out.
func (h *WorkerBookingHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	to := model.BookingStatus(req.Status)
	if !to.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	if to == model.BookingStatusEnRoute && (req.Lat == nil) != (req.Lng == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat and lng must be sent together"})
	}
	lat, lng := transitionLocation(to, req.Lat, req.Lng)

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.LockTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.WorkerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}
	if !model.CanTransition(b.Status, to) {
		terr := &model.InvalidTransitionError{From: b.Status, To: to}
		return c.JSON(http.StatusConflict, echo.Map{"error": terr.Error()})
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, id, b.Status, to, uid, lat, lng); err != nil {
		if err == repository.ErrConcurrentModification {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking changed concurrently, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	adTitle := ""
	if ad, err := h.Ads.GetByID(ctx, b.AdID); err == nil {
		adTitle = ad.Title
	}
	h.afterTransition(ctx, b, to, adTitle)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": to})
}

// transitionLocation keeps coordinates only when the transition enters
// en_route; position reports mean nothing in the other states.
func transitionLocation(to model.BookingStatus, lat, lng *float64) (*float64, *float64) {
	if to != model.BookingStatusEnRoute {
		return nil, nil
	}
	return lat, lng
}

// afterTransition runs the side channels for a committed transition.
// Accept and reject answer the customer; completion tells the customer
// to review and credits the worker's feed.  The intermediate states
// only signal.
func (h *WorkerBookingHandler) afterTransition(ctx context.Context, b model.Booking, to model.BookingStatus, adTitle string) {
	switch to {
	case model.BookingStatusAccepted, model.BookingStatusRejected:
		_ = h.Fanout.Notify(ctx, b.CustomerID, model.NotificationTypeBookingResponse,
			"Booking "+string(to), "Your booking for "+adTitle+" was "+string(to),
			model.BookingResponseData{BookingID: b.ID, Action: string(to), ServiceTitle: adTitle})
	case model.BookingStatusCompleted:
		_ = h.Fanout.Notify(ctx, b.CustomerID, model.NotificationTypeGeneral,
			"Service completed", adTitle+" is done. You can now leave a review.",
			model.BookingResponseData{BookingID: b.ID, Action: string(to), ServiceTitle: adTitle})
		_ = h.Fanout.RecordActivity(ctx, b.WorkerID, model.ActivityCompletedBooking,
			model.BookingActivityContent{BookingID: b.ID, AdID: b.AdID, ServiceTitle: adTitle},
			model.VisibilityPublic)
	}

	event := queue.BookingLifecycleEvent{
		BookingID:        b.ID,
		AdID:             b.AdID,
		AdTitle:          adTitle,
		CustomerID:       b.CustomerID,
		WorkerID:         b.WorkerID,
		FromStatus:       string(b.Status),
		ToStatus:         string(to),
		TotalAmountCents: b.TotalAmountCents,
		OccurredAt:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queuepub.PublishBookingLifecycle(pubCtx, event); err != nil {
			log.Printf("booking %d: lifecycle publish failed: %v", b.ID, err)
		}
	}()

	h.Hub.Signal("bookings", "update",
		realtime.UserFilter(b.CustomerID),
		realtime.UserFilter(b.WorkerID),
		realtime.BookingFilter(b.ID))
}

// UpdateETA handles PATCH /v1/bookings/:id/eta with {"eta_minutes": n}.
func (h *WorkerBookingHandler) UpdateETA(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		ETAMinutes *int `json:"eta_minutes"`
	}
	if err := c.Bind(&req); err != nil || req.ETAMinutes == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "eta_minutes required"})
	}
	if *req.ETAMinutes < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "eta_minutes must be >= 0"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	err = h.Bookings.UpdateETA(ctx, id, uid, uint32(*req.ETAMinutes))
	switch err {
	case nil:
	case repository.ErrBookingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Hub.Signal("bookings", "update", realtime.BookingFilter(id))
	return c.JSON(http.StatusOK, echo.Map{"eta_minutes": *req.ETAMinutes})
}

// UpdateLocation handles PATCH /v1/bookings/:id/location.  The position
// only updates while the booking is en_route; afterwards the endpoint
// answers 409 so stale clients stop sending.
func (h *WorkerBookingHandler) UpdateLocation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := c.Bind(&req); err != nil || req.Lat == nil || req.Lng == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat and lng required"})
	}
	if *req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coordinates"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	err = h.Bookings.UpdateLocation(ctx, id, uid, *req.Lat, *req.Lng)
	switch err {
	case nil:
	case repository.ErrBookingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not en_route"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Hub.Signal("bookings", "update", realtime.BookingFilter(id))
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// ListAssigned handles GET /v1/worker/bookings.
func (h *WorkerBookingHandler) ListAssigned(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Bookings.ListByWorker(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	active, err := h.Bookings.CountActiveForWorker(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items, "active": active})
}
