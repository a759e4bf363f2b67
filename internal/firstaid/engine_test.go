package firstaid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicsListed(t *testing.T) {
	got := Topics()
	require.NotEmpty(t, got)
	ids := make(map[string]bool)
	for _, s := range got {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Title.En)
		assert.NotEmpty(t, s.Title.Am)
		assert.False(t, ids[s.ID], "duplicate topic id %s", s.ID)
		ids[s.ID] = true
	}
}

func TestStartUnknownTopic(t *testing.T) {
	_, err := Start("snakebite")
	assert.ErrorIs(t, err, ErrUnknownTopic)
}

func TestChokingFlow(t *testing.T) {
	start, err := Start("choking")
	require.NoError(t, err)
	assert.Equal(t, 0, start.Step)
	assert.False(t, start.Done)
	require.Len(t, start.Options, 2)

	// "can cough" branch ends with encouragement
	calm, err := Advance("choking", 0, 0)
	require.NoError(t, err)
	assert.True(t, calm.Done)

	// "cannot cough" branch ends with back blows / thrusts
	urgent, err := Advance("choking", 0, 1)
	require.NoError(t, err)
	assert.True(t, urgent.Done)
	assert.NotEqual(t, calm.Prompt.En, urgent.Prompt.En)
}

func TestAdvanceValidation(t *testing.T) {
	_, err := Advance("cpr", 99, 0)
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = Advance("cpr", 0, 5)
	assert.ErrorIs(t, err, ErrInvalidChoice)

	// terminal steps carry no options
	_, err = Advance("burns", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestScriptInternallyConsistent(t *testing.T) {
	// every option must point at a real step of its own topic
	for _, topic := range topics {
		require.NotEmpty(t, topic.Steps, topic.ID)
		for si, step := range topic.Steps {
			for oi, opt := range step.Options {
				assert.GreaterOrEqual(t, opt.Next, 0, "%s step %d option %d", topic.ID, si, oi)
				assert.Less(t, opt.Next, len(topic.Steps), "%s step %d option %d", topic.ID, si, oi)
			}
		}
	}
}
