package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypingIndicatorActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	row := func(age time.Duration) TypingIndicator {
		return TypingIndicator{ConversationID: "3:9", UserID: 3, UpdatedAt: now.Add(-age)}
	}

	assert.True(t, row(0).ActiveAt(now))
	assert.True(t, row(5*time.Second).ActiveAt(now))
	assert.False(t, row(TypingStaleAfter).ActiveAt(now))
	assert.False(t, row(time.Minute).ActiveAt(now))
	// no indicator outlives the cap, however long the client was gone
	assert.False(t, row(3*time.Hour).ActiveAt(now))
}
