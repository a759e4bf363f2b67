package firstaid

import "errors"

// Errors returned by the engine.  Handlers translate them into 400/404
// responses.
var (
	ErrUnknownTopic  = errors.New("unknown first-aid topic")
	ErrInvalidStep   = errors.New("invalid step for topic")
	ErrInvalidChoice = errors.New("invalid choice for step")
)

// TopicSummary is what the topic list endpoint returns.
type TopicSummary struct {
	ID    string `json:"id"`
	Title Text   `json:"title"`
}

// Reply is one screen of the flow as returned to the client.  Options
// are referred to by index in the follow-up request.  Done marks a
// terminal step.
type Reply struct {
	TopicID      string   `json:"topic_id"`
	Step         int      `json:"step"`
	Prompt       Text     `json:"prompt"`
	Instructions []Text   `json:"instructions,omitempty"`
	Options      []Option `json:"options,omitempty"`
	Done         bool     `json:"done"`
}

// Topics lists the available guided flows.
func Topics() []TopicSummary {
	out := make([]TopicSummary, 0, len(topics))
	for _, t := range topics {
		out = append(out, TopicSummary{ID: t.ID, Title: t.Title})
	}
	return out
}

func findTopic(id string) (*Topic, bool) {
	for i := range topics {
		if topics[i].ID == id {
			return &topics[i], true
		}
	}
	return nil, false
}

func replyFor(t *Topic, step int) Reply {
	s := t.Steps[step]
	return Reply{
		TopicID:      t.ID,
		Step:         step,
		Prompt:       s.Prompt,
		Instructions: s.Instructions,
		Options:      s.Options,
		Done:         len(s.Options) == 0,
	}
}

// Start returns the entry step of a topic.
func Start(topicID string) (Reply, error) {
	t, ok := findTopic(topicID)
	if !ok {
		return Reply{}, ErrUnknownTopic
	}
	return replyFor(t, 0), nil
}

// Advance follows option `choice` of `step` within a topic and returns
// the resulting screen.  The step and choice are validated against the
// script; the flow carries no server-side session state, so a client
// can resume from any (topic, step) pair it has seen.
func Advance(topicID string, step, choice int) (Reply, error) {
	t, ok := findTopic(topicID)
	if !ok {
		return Reply{}, ErrUnknownTopic
	}
	if step < 0 || step >= len(t.Steps) {
		return Reply{}, ErrInvalidStep
	}
	opts := t.Steps[step].Options
	if choice < 0 || choice >= len(opts) {
		return Reply{}, ErrInvalidChoice
	}
	next := opts[choice].Next
	if next < 0 || next >= len(t.Steps) {
		return Reply{}, ErrInvalidStep
	}
	return replyFor(t, next), nil
}
