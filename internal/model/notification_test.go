package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The data payload field names are part of the persisted contract the
// feed and notification renderers read; pin the ones clients key on.
func TestBookingRequestDataFieldNames(t *testing.T) {
	raw, err := json.Marshal(BookingRequestData{
		BookingID:     7,
		CustomerName:  "Abel",
		CustomerPhone: "+251911000000",
		CustomerEmail: "abel@example.com",
		AdTitle:       "Plumbing repair",
		AdPriceCents:  50000,
		Message:       "leaking sink",
	})
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"booking_id", "customer_name", "customer_phone", "customer_email", "ad_title", "ad_price", "message"} {
		assert.Contains(t, m, key)
	}
	// optional service date omitted when empty
	assert.NotContains(t, m, "service_date")
}

func TestBookingResponseDataFieldNames(t *testing.T) {
	raw, err := json.Marshal(BookingResponseData{BookingID: 7, Action: "accepted", ServiceTitle: "Plumbing repair"})
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"booking_id", "action", "service_title"} {
		assert.Contains(t, m, key)
	}
}

func TestNotificationTypeValid(t *testing.T) {
	for _, typ := range []NotificationType{
		NotificationTypeMessage, NotificationTypeBookingRequest,
		NotificationTypeBookingResponse, NotificationTypeRating, NotificationTypeGeneral,
	} {
		assert.True(t, typ.Valid())
	}
	assert.False(t, NotificationType("push").Valid())
}
