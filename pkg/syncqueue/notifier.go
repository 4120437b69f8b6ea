package syncqueue

import (
	"context"

	"calorie-tracker/internal/logger"

	"go.uber.org/zap"
)

// Notifier is told about tasks the queue has given up on.
type Notifier interface {
	Abandoned(ctx context.Context, task Task, err error)
}

type NotifierFunc func(ctx context.Context, task Task, err error)

func (f NotifierFunc) Abandoned(ctx context.Context, task Task, err error) {
	f(ctx, task, err)
}

// Notifiers fans a notification out to every member.
type Notifiers []Notifier

func (n Notifiers) Abandoned(ctx context.Context, task Task, err error) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Abandoned(ctx, task, err)
		}
	}
}

type logNotifier struct{}

func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Abandoned(_ context.Context, task Task, err error) {
	logger.Error("sync task abandoned",
		zap.String("task_id", task.ID),
		zap.String("kind", task.Kind),
		zap.String("user_id", task.UserID),
		zap.Int("attempts", task.Attempts),
		zap.Error(err),
	)
}
