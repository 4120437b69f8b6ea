package syncqueue

import "time"

// Clock supplies the current time to the queue.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
