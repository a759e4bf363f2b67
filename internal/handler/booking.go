package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/model"
	"github.com/mella-app/mella/internal/queue"
	"github.com/mella-app/mella/internal/realtime"
	"github.com/mella-app/mella/internal/repository"
	queuepub "github.com/mella-app/mella/internal/service"
)

// BookingHandler covers the customer side of the booking lifecycle:
// creating a request against a listing, listing own bookings, reading
// a booking's detail and attaching an emergency contact.  The create
// path runs inside a transaction so the booking row and its first
// history entry commit together.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Ads      *repository.AdRepo
	Users    *repository.UserRepo
	Fanout   Notifier
	Hub      *realtime.Hub
}

func NewBookingHandler(b *repository.BookingRepo, a *repository.AdRepo, u *repository.UserRepo, f Notifier, hub *realtime.Hub) *BookingHandler {
	if b == nil || a == nil || u == nil || f == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Ads: a, Users: u, Fanout: f, Hub: hub}
}

type createBookingReq struct {
	Message       string `json:"message"`
	ServiceDate   string `json:"service_date"` // RFC 3339 or YYYY-MM-DD
	PaymentMethod string `json:"payment_method"`
}

// parseServiceDate accepts a full timestamp or a bare date.
func parseServiceDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, true
	}
	return nil, false
}

// Create handles POST /v1/ads/:id/book.  Customer only.  The worker is
// always the listing owner; booking your own listing is rejected.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	adID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	serviceDate, ok := parseServiceDate(req.ServiceDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service_date"})
	}
	payMethod := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if payMethod == "" {
		payMethod = "cash"
	}

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

	ad, err := h.Ads.GetByIDTx(ctx, tx, adID)
	if err != nil {
		if err == repository.ErrAdNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !ad.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "listing is not active"})
	}
	if ad.UserID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot book your own listing"})
	}

	booking := model.Booking{
		AdID:             ad.ID,
		CustomerID:       uid,
		WorkerID:         ad.UserID,
		Status:           model.BookingStatusPending,
		Message:          strings.TrimSpace(req.Message),
		ServiceDate:      serviceDate,
		PaymentStatus:    "unpaid",
		PaymentMethod:    payMethod,
		TotalAmountCents: ad.PriceCents,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// zero-value customer on lookup failure leaves the snapshot empty
	customer, _ := h.Users.GetByID(ctx, booking.CustomerID)
	h.afterCreate(ctx, booking, ad, customer)
	return c.JSON(http.StatusCreated, booking)
}

// afterCreate runs the best-effort side channels once the booking row
// is durable: worker notification, feed activity, lifecycle event and
// realtime signals.  Failures are logged, never surfaced.  The request
// notification goes to the worker and only the worker; the customer
// already knows what they asked for.
func (h *BookingHandler) afterCreate(ctx context.Context, b model.Booking, ad model.Ad, customer model.User) {
	data := model.BookingRequestData{
		BookingID:     b.ID,
		AdTitle:       ad.Title,
		AdPriceCents:  ad.PriceCents,
		Message:       b.Message,
		CustomerName:  customer.FullName,
		CustomerPhone: customer.Phone,
		CustomerEmail: customer.Email,
	}
	if b.ServiceDate != nil {
		data.ServiceDate = b.ServiceDate.Format(time.RFC3339)
	}
	_ = h.Fanout.Notify(ctx, b.WorkerID, model.NotificationTypeBookingRequest,
		"New booking request", "You have a new booking request for "+ad.Title, data)

	_ = h.Fanout.RecordActivity(ctx, b.CustomerID, model.ActivityNewBooking, model.BookingActivityContent{
		BookingID:    b.ID,
		AdID:         ad.ID,
		ServiceTitle: ad.Title,
	}, model.VisibilityPublic)

	event := queue.BookingLifecycleEvent{
		BookingID:        b.ID,
		AdID:             ad.ID,
		AdTitle:          ad.Title,
		CustomerID:       b.CustomerID,
		WorkerID:         b.WorkerID,
		ToStatus:         string(model.BookingStatusPending),
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

	h.Hub.Signal("bookings", "insert",
		realtime.UserFilter(b.CustomerID),
		realtime.UserFilter(b.WorkerID),
		realtime.BookingFilter(b.ID))
}

// ListMine handles GET /v1/my-bookings for customers.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Bookings.ListByCustomer(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// GetDetail handles GET /v1/bookings/:id.  Only the two parties may
// read a booking; the response includes the full status history.
func (h *BookingHandler) GetDetail(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	detail, err := h.Bookings.GetDetail(ctx, id, uid)
	switch err {
	case nil:
	case repository.ErrBookingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// SetEmergencyContact handles PATCH /v1/bookings/:id/emergency-contact.
// Customer only; rejected once the booking reached a terminal status.
func (h *BookingHandler) SetEmergencyContact(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and phone required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	err = h.Bookings.SetEmergencyContact(ctx, id, uid, req.Name, req.Phone)
	switch err {
	case nil:
	case repository.ErrBookingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already finished"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Hub.Signal("bookings", "update", realtime.BookingFilter(id))
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}
