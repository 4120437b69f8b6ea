// Package syncqueue holds write operations that could not reach the store,
// retrying them with exponential backoff and holding them while the store is
// unreachable.
package syncqueue

import (
	"context"
	"sync"
	"time"

	"calorie-tracker/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts  = 3
	DefaultBaseDelay    = time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// Operation is one write against the store.
type Operation func(ctx context.Context) error

type Status int

const (
	// StatusDone means the operation reached the store.
	StatusDone Status = iota
	// StatusQueued means the operation is pending and will be retried.
	StatusQueued
)

type Config struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	PollInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:  DefaultMaxAttempts,
		BaseDelay:    DefaultBaseDelay,
		PollInterval: DefaultPollInterval,
	}
}

// Task is a snapshot of a pending operation.
type Task struct {
	ID          string
	Kind        string
	UserID      string
	Attempts    int
	NextAttempt time.Time
	LastError   string
	CreatedAt   time.Time

	op Operation
}

type Queue struct {
	cfg      Config
	clock    Clock
	notifier Notifier

	mu     sync.Mutex
	tasks  []*Task
	online bool

	// serializes flushes so a task is never attempted twice at once
	flushMu sync.Mutex
	wake    chan struct{}
}

func New(cfg Config, clock Clock, notifier Notifier) *Queue {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if notifier == nil {
		notifier = NewLogNotifier()
	}
	return &Queue{
		cfg:      cfg,
		clock:    clock,
		notifier: notifier,
		online:   true,
		wake:     make(chan struct{}, 1),
	}
}

// Backoff is the wait after the given number of failed attempts:
// BaseDelay * 2^attempts.
func (q *Queue) Backoff(attempts int) time.Duration {
	return q.cfg.BaseDelay * time.Duration(1<<uint(attempts))
}

// Submit runs op right away when the store is reachable. A permanent error is
// returned to the caller as is; a transient one schedules a retry and reports
// StatusQueued. While offline op is queued without being attempted.
func (q *Queue) Submit(ctx context.Context, kind, userID string, op Operation) (Status, error) {
	task := &Task{
		ID:        uuid.NewString(),
		Kind:      kind,
		UserID:    userID,
		CreatedAt: q.clock.Now(),
		op:        op,
	}

	if !q.Online() {
		task.NextAttempt = task.CreatedAt
		q.push(task)
		logger.Info("store offline, write queued",
			zap.String("task_id", task.ID),
			zap.String("kind", kind),
		)
		return StatusQueued, nil
	}

	err := op(ctx)
	if err == nil {
		return StatusDone, nil
	}
	if IsPermanent(err) {
		return StatusDone, unwrapPermanent(err)
	}

	task.Attempts = 1
	task.LastError = err.Error()
	if task.Attempts >= q.cfg.MaxAttempts {
		q.notifier.Abandoned(ctx, *task, err)
		return StatusDone, err
	}
	task.NextAttempt = q.clock.Now().Add(q.Backoff(task.Attempts))
	q.push(task)
	logger.Warn("write failed, scheduled retry",
		zap.String("task_id", task.ID),
		zap.String("kind", kind),
		zap.Time("next_attempt", task.NextAttempt),
		zap.Error(err),
	)
	return StatusQueued, nil
}

func (q *Queue) push(task *Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

func (q *Queue) Online() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.online
}

// SetOnline records connectivity. Going from offline to online makes every
// pending task due and wakes the worker.
func (q *Queue) SetOnline(online bool) {
	q.mu.Lock()
	restored := online && !q.online
	q.online = online
	if restored {
		now := q.clock.Now()
		for _, t := range q.tasks {
			t.NextAttempt = now
		}
	}
	q.mu.Unlock()

	if restored {
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
}

// Pending returns copies of the queued tasks, optionally for one user.
func (q *Queue) Pending(userID string) []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Task, 0, len(q.tasks))
	for _, t := range q.tasks {
		if userID == "" || t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Flush attempts every due task once, in submission order, and returns how
// many were attempted. Nothing is attempted while offline.
func (q *Queue) Flush(ctx context.Context) int {
	q.flushMu.Lock()
	defer q.flushMu.Unlock()

	q.mu.Lock()
	if !q.online {
		q.mu.Unlock()
		return 0
	}
	now := q.clock.Now()
	var due []*Task
	for _, t := range q.tasks {
		if !t.NextAttempt.After(now) {
			due = append(due, t)
		}
	}
	q.mu.Unlock()

	attempted := 0
	for _, t := range due {
		if ctx.Err() != nil || !q.Online() {
			break
		}
		attempted++
		err := t.op(ctx)
		q.settle(ctx, t, err)
	}
	return attempted
}

func (q *Queue) settle(ctx context.Context, t *Task, err error) {
	q.mu.Lock()
	if err == nil {
		q.remove(t)
		q.mu.Unlock()
		logger.Info("queued write persisted",
			zap.String("task_id", t.ID),
			zap.String("kind", t.Kind),
		)
		return
	}

	t.Attempts++
	t.LastError = err.Error()
	if IsPermanent(err) || t.Attempts >= q.cfg.MaxAttempts {
		q.remove(t)
		snapshot := *t
		q.mu.Unlock()
		q.notifier.Abandoned(ctx, snapshot, unwrapPermanent(err))
		return
	}
	t.NextAttempt = q.clock.Now().Add(q.Backoff(t.Attempts))
	q.mu.Unlock()
}

// remove must be called with mu held.
func (q *Queue) remove(t *Task) {
	for i, candidate := range q.tasks {
		if candidate == t {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return
		}
	}
}

// Run flushes due tasks on every poll tick and whenever connectivity
// returns, until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	ticker := time.NewTicker(q.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.Flush(ctx)
		case <-q.wake:
			q.Flush(ctx)
		}
	}
}
