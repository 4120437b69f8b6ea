package realtime

import (
	"context"

	"calorie-tracker/domain"
	"calorie-tracker/pkg/syncqueue"
)

// SyncFailed is the payload of a sync_failed event. Clients show it as a
// dismissible banner.
type SyncFailed struct {
	TaskID   string `json:"task_id"`
	Kind     string `json:"kind"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error"`
	Message  string `json:"message"`
}

// NewSyncFailedNotifier publishes abandoned writes to the owner's streams.
func NewSyncFailedNotifier(pub Publisher) syncqueue.Notifier {
	return syncqueue.NotifierFunc(func(_ context.Context, task syncqueue.Task, err error) {
		if task.UserID == "" {
			return
		}
		pub.Publish(task.UserID, EventSyncFailed, SyncFailed{
			TaskID:   task.ID,
			Kind:     task.Kind,
			Attempts: task.Attempts,
			Error:    err.Error(),
			Message:  domain.MessageSyncAbandoned,
		})
	})
}
