package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mella-app/mella/internal/model"
)

// recordingSink captures side-channel writes so tests can assert who
// each event was addressed to.
type recordingSink struct {
	notices    []sinkEntry
	activities []sinkEntry
}

type sinkEntry struct {
	userID uint64
	typ    string
}

func (s *recordingSink) Notify(_ context.Context, userID uint64, typ model.NotificationType, _, _ string, _ interface{}) error {
	s.notices = append(s.notices, sinkEntry{userID, string(typ)})
	return nil
}

func (s *recordingSink) RecordActivity(_ context.Context, userID uint64, typ model.ActivityType, _ interface{}, _ string) error {
	s.activities = append(s.activities, sinkEntry{userID, string(typ)})
	return nil
}

func testBooking(status model.BookingStatus) model.Booking {
	return model.Booking{ID: 41, AdID: 5, CustomerID: 3, WorkerID: 9, Status: status}
}

func TestBookingRequestAddressesWorker(t *testing.T) {
	s := &recordingSink{}
	h := &BookingHandler{Fanout: s}
	ad := model.Ad{ID: 5, UserID: 9, Title: "Deep cleaning", PriceCents: 50000}
	customer := model.User{ID: 3, FullName: "Abel T.", Phone: "0911000000"}

	h.afterCreate(context.Background(), testBooking(model.BookingStatusPending), ad, customer)

	require.Len(t, s.notices, 1)
	assert.Equal(t, uint64(9), s.notices[0].userID)
	assert.Equal(t, string(model.NotificationTypeBookingRequest), s.notices[0].typ)

	require.Len(t, s.activities, 1)
	assert.Equal(t, uint64(3), s.activities[0].userID)
	assert.Equal(t, string(model.ActivityNewBooking), s.activities[0].typ)
}

func TestTransitionResponseAddressesCustomer(t *testing.T) {
	for _, to := range []model.BookingStatus{model.BookingStatusAccepted, model.BookingStatusRejected} {
		s := &recordingSink{}
		h := &WorkerBookingHandler{Fanout: s}

		h.afterTransition(context.Background(), testBooking(model.BookingStatusPending), to, "Deep cleaning")

		require.Len(t, s.notices, 1, to)
		assert.Equal(t, uint64(3), s.notices[0].userID, to)
		assert.Equal(t, string(model.NotificationTypeBookingResponse), s.notices[0].typ, to)
		assert.Empty(t, s.activities, to)
	}
}

func TestCompletionNotifiesCustomerCreditsWorker(t *testing.T) {
	s := &recordingSink{}
	h := &WorkerBookingHandler{Fanout: s}

	h.afterTransition(context.Background(), testBooking(model.BookingStatusInProgress), model.BookingStatusCompleted, "Deep cleaning")

	require.Len(t, s.notices, 1)
	assert.Equal(t, uint64(3), s.notices[0].userID)
	assert.Equal(t, string(model.NotificationTypeGeneral), s.notices[0].typ)

	require.Len(t, s.activities, 1)
	assert.Equal(t, uint64(9), s.activities[0].userID)
	assert.Equal(t, string(model.ActivityCompletedBooking), s.activities[0].typ)
}

func TestIntermediateTransitionsStaySilent(t *testing.T) {
	for _, step := range []struct{ from, to model.BookingStatus }{
		{model.BookingStatusAccepted, model.BookingStatusEnRoute},
		{model.BookingStatusEnRoute, model.BookingStatusInProgress},
	} {
		s := &recordingSink{}
		h := &WorkerBookingHandler{Fanout: s}

		h.afterTransition(context.Background(), testBooking(step.from), step.to, "Deep cleaning")

		assert.Empty(t, s.notices, step.to)
		assert.Empty(t, s.activities, step.to)
	}
}

func TestTransitionLocationOnlyEnRoute(t *testing.T) {
	lat, lng := 9.0147, 38.7478

	gotLat, gotLng := transitionLocation(model.BookingStatusEnRoute, &lat, &lng)
	require.NotNil(t, gotLat)
	require.NotNil(t, gotLng)
	assert.Equal(t, lat, *gotLat)
	assert.Equal(t, lng, *gotLng)

	for _, to := range []model.BookingStatus{
		model.BookingStatusAccepted, model.BookingStatusRejected,
		model.BookingStatusInProgress, model.BookingStatusCompleted,
	} {
		gotLat, gotLng = transitionLocation(to, &lat, &lng)
		assert.Nil(t, gotLat, to)
		assert.Nil(t, gotLng, to)
	}
}
