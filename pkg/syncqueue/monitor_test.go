package syncqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) PingContext(ctx context.Context) error {
	return p.err
}

func TestMonitorDrivesOnlineState(t *testing.T) {
	clock := newFakeClock()
	q := newTestQueue(clock, nil)
	pinger := &stubPinger{err: errors.New("connection refused")}
	m := NewMonitor(pinger, q, time.Second)
	ctx := context.Background()

	assert.False(t, m.Check(ctx))
	assert.False(t, q.Online())

	attempted := false
	_, _ = q.Submit(ctx, "diary.create", "u1", func(ctx context.Context) error {
		attempted = true
		return nil
	})
	assert.False(t, attempted)

	pinger.err = nil
	assert.True(t, m.Check(ctx))
	assert.True(t, q.Online())

	q.Flush(ctx)
	assert.True(t, attempted)
}
