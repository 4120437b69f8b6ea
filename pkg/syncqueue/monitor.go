package syncqueue

import (
	"context"
	"time"

	"calorie-tracker/internal/logger"

	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Monitor turns store reachability into the queue's online signal.
type Monitor struct {
	pinger   Pinger
	queue    *Queue
	interval time.Duration
	timeout  time.Duration
}

func NewMonitor(pinger Pinger, queue *Queue, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{
		pinger:   pinger,
		queue:    queue,
		interval: interval,
		timeout:  interval / 2,
	}
}

// Check pings once and updates the queue.
func (m *Monitor) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.PingContext(pingCtx)
	online := err == nil
	if online != m.queue.Online() {
		if online {
			logger.Info("store reachable again, flushing pending writes",
				zap.Int("pending", m.queue.Len()))
		} else {
			logger.Warn("store unreachable, queueing writes", zap.Error(err))
		}
	}
	m.queue.SetOnline(online)
	return online
}

func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
