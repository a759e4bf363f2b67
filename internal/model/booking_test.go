package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []BookingStatus{
	BookingStatusPending, BookingStatusAccepted, BookingStatusRejected,
	BookingStatusEnRoute, BookingStatusInProgress, BookingStatusCompleted,
}

func TestCanTransitionAllowedPairs(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusAccepted},
		{BookingStatusPending, BookingStatusRejected},
		{BookingStatusAccepted, BookingStatusEnRoute},
		{BookingStatusEnRoute, BookingStatusInProgress},
		{BookingStatusInProgress, BookingStatusCompleted},
	}
	for _, p := range allowed {
		assert.True(t, CanTransition(p.from, p.to), "%s -> %s should be allowed", p.from, p.to)
	}
}

func TestCanTransitionRejectsEverythingElse(t *testing.T) {
	allowed := map[[2]BookingStatus]bool{
		{BookingStatusPending, BookingStatusAccepted}:     true,
		{BookingStatusPending, BookingStatusRejected}:     true,
		{BookingStatusAccepted, BookingStatusEnRoute}:     true,
		{BookingStatusEnRoute, BookingStatusInProgress}:   true,
		{BookingStatusInProgress, BookingStatusCompleted}: true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if allowed[[2]BookingStatus{from, to}] {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []BookingStatus{BookingStatusRejected, BookingStatusCompleted} {
		assert.True(t, from.Terminal())
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to))
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, BookingStatus("cancelled").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := &InvalidTransitionError{From: BookingStatusCompleted, To: BookingStatusPending}
	assert.Equal(t, "invalid booking transition completed -> pending", err.Error())
}

func TestConversationIDOrderIndependent(t *testing.T) {
	assert.Equal(t, ConversationID(3, 9), ConversationID(9, 3))
	assert.Equal(t, "3:9", ConversationID(9, 3))
	assert.Equal(t, "5:5", ConversationID(5, 5))
}
