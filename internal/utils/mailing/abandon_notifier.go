package mailing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"calorie-tracker/internal/logger"
	"calorie-tracker/pkg/syncqueue"

	"go.uber.org/zap"
)

type EmailLookup interface {
	Email(ctx context.Context, userID string) (string, error)
}

type abandonNotifier struct {
	mailer  Mailer
	emails  EmailLookup
	appURL  string
	timeout time.Duration
}

// NewAbandonNotifier mails users whose queued change was discarded. Users
// without an address are skipped.
func NewAbandonNotifier(mailer Mailer, emails EmailLookup, appURL string) syncqueue.Notifier {
	return &abandonNotifier{
		mailer:  mailer,
		emails:  emails,
		appURL:  appURL,
		timeout: 5 * time.Second,
	}
}

func (n *abandonNotifier) Abandoned(ctx context.Context, task syncqueue.Task, cause error) {
	if task.UserID == "" {
		return
	}

	// ctx may belong to a request that already finished
	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	to, err := n.emails.Email(lookupCtx, task.UserID)
	if err != nil {
		logger.Warn("no address for sync failure mail", zap.String("user_id", task.UserID), zap.Error(err))
		return
	}
	if to == "" {
		return
	}

	err = n.mailer.Send(to, "A change could not be saved", n.body(task, cause))
	if errors.Is(err, ErrMailDisabled) {
		return
	}
	if err != nil {
		logger.Error("failed to send sync failure mail",
			zap.String("user_id", task.UserID),
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
	}
}

func (n *abandonNotifier) body(task syncqueue.Task, cause error) string {
	link := ""
	if n.appURL != "" {
		link = fmt.Sprintf(`<p><a href="%s">Open your diary</a> to review it.</p>`, html.EscapeString(n.appURL))
	}
	return fmt.Sprintf(
		`<p>We tried %d times to save a change (%s) and gave up.</p><p>Last error: %s</p>%s`,
		task.Attempts,
		html.EscapeString(task.Kind),
		html.EscapeString(cause.Error()),
		link,
	)
}
