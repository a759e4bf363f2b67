// Package notify implements the side channels written alongside every
// primary mutation: single-recipient notifications and the social
// activity feed.  Both are best-effort by policy.  A failed write is
// logged with a distinct prefix so silent loss is diagnosable, but it
// never rolls back or fails the primary operation that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mella-app/mella/internal/model"
	"github.com/mella-app/mella/internal/realtime"
	"github.com/mella-app/mella/internal/repository"
)

// Fanout bundles the repositories and the realtime hub the side
// channels write through.  Hub may be nil in tests; signalling then
// becomes a no-op.
type Fanout struct {
	Notifications *repository.NotificationRepo
	Feed          *repository.FeedRepo
	Hub           *realtime.Hub
}

// NewFanout constructs a Fanout.  Both repositories must be non-nil.
func NewFanout(n *repository.NotificationRepo, f *repository.FeedRepo, hub *realtime.Hub) *Fanout {
	if n == nil || f == nil {
		panic("nil repository passed to NewFanout")
	}
	return &Fanout{Notifications: n, Feed: f, Hub: hub}
}

// Notify inserts one notification for userID and signals the
// recipient's notification subscription.  data is marshalled into the
// type-specific payload column; a nil data stores NULL.  Errors are
// logged and returned, but callers on the primary path ignore them.
func (f *Fanout) Notify(ctx context.Context, userID uint64, typ model.NotificationType, title, message string, data interface{}) error {
	n := &model.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("notify: marshal %s payload for user %d failed: %v", typ, userID, err)
			return err
		}
		n.Data = raw
	}
	if err := f.Notifications.Create(ctx, n); err != nil {
		log.Printf("notify: insert %s for user %d failed: %v", typ, userID, err)
		return err
	}
	f.Hub.Signal("notifications", "insert", realtime.UserFilter(userID))
	return nil
}

// RecordActivity appends one feed activity for userID and signals feed
// subscribers.  Same best-effort policy as Notify.
func (f *Fanout) RecordActivity(ctx context.Context, userID uint64, typ model.ActivityType, content interface{}, visibility string) error {
	a := &model.FeedActivity{
		UserID:       userID,
		ActivityType: typ,
		Visibility:   visibility,
	}
	if content != nil {
		raw, err := json.Marshal(content)
		if err != nil {
			log.Printf("feed: marshal %s content for user %d failed: %v", typ, userID, err)
			return err
		}
		a.Content = raw
	}
	if err := f.Feed.Create(ctx, a); err != nil {
		log.Printf("feed: insert %s for user %d failed: %v", typ, userID, err)
		return err
	}
	f.Hub.Signal("feed_activities", "insert", realtime.UserFilter(userID))
	return nil
}
