package realtime

import (
	"context"
	"errors"
	"testing"

	"calorie-tracker/pkg/syncqueue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncFailedNotifier(t *testing.T) {
	hub := NewHub(4)
	sub := hub.Subscribe("alice")
	defer sub.Close()

	n := NewSyncFailedNotifier(hub)
	n.Abandoned(context.Background(), syncqueue.Task{ID: "t1", Kind: "diary.create", UserID: "alice", Attempts: 3}, errors.New("timeout"))
	n.Abandoned(context.Background(), syncqueue.Task{ID: "t2", Kind: "diary.create"}, errors.New("timeout"))

	require.Len(t, sub.C, 1)
	ev := <-sub.C
	assert.Equal(t, EventSyncFailed, ev.Type)
	payload, ok := ev.Data.(SyncFailed)
	require.True(t, ok)
	assert.Equal(t, "t1", payload.TaskID)
	assert.Equal(t, 3, payload.Attempts)
	assert.Equal(t, "timeout", payload.Error)
}
