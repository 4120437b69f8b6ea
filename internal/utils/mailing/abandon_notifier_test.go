package mailing

import (
	"context"
	"errors"
	"testing"

	"calorie-tracker/pkg/syncqueue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type emailMap map[string]string

func (e emailMap) Email(_ context.Context, userID string) (string, error) {
	return e[userID], nil
}

func TestAbandonNotifier(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewAbandonNotifier(mailer, emailMap{"alice": "alice@example.com"}, "https://app.example.com")

	task := syncqueue.Task{ID: "t1", Kind: "diary.create", UserID: "alice", Attempts: 3}
	n.Abandoned(context.Background(), task, errors.New("<timeout>"))
	n.Abandoned(context.Background(), syncqueue.Task{ID: "t2", UserID: "bob"}, errors.New("timeout"))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "tried 3 times")
	assert.Contains(t, mailer.sent[0].body, "&lt;timeout&gt;")
	assert.Contains(t, mailer.sent[0].body, "https://app.example.com")
}

func TestAbandonNotifier_CancelledContext(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewAbandonNotifier(mailer, emailMap{"alice": "alice@example.com"}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Abandoned(ctx, syncqueue.Task{ID: "t1", UserID: "alice", Attempts: 1}, errors.New("timeout"))

	assert.Len(t, mailer.sent, 1)
}

func TestSMTPMailer_Disabled(t *testing.T) {
	err := NewMailer(MailConfig{}).Send("alice@example.com", "hi", "body")
	assert.ErrorIs(t, err, ErrMailDisabled)
}
