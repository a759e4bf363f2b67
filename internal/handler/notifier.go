package handler

import (
	"context"

	"github.com/mella-app/mella/internal/model"
)

// Notifier is the side-channel sink mutating handlers write through:
// one notification per addressed recipient, one feed activity per
// actor.  *notify.Fanout is the production implementation; tests
// substitute a recorder.
type Notifier interface {
	Notify(ctx context.Context, userID uint64, typ model.NotificationType, title, message string, data interface{}) error
	RecordActivity(ctx context.Context, userID uint64, typ model.ActivityType, content interface{}, visibility string) error
}
