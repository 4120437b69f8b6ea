package realtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesOnlyThatUserInOrder(t *testing.T) {
	hub := NewHub(8)
	alice := hub.Subscribe("alice")
	alice2 := hub.Subscribe("alice")
	bob := hub.Subscribe("bob")
	defer alice.Close()
	defer alice2.Close()
	defer bob.Close()

	hub.Publish("alice", EventEntryCreated, "e1")
	hub.Publish("alice", EventEntryUpdated, "e1")
	hub.Publish("alice", EventEntryDeleted, "e1")

	for _, sub := range []*Subscription{alice, alice2} {
		var got []string
		for i := 0; i < 3; i++ {
			got = append(got, (<-sub.C).Type)
		}
		assert.Equal(t, []string{EventEntryCreated, EventEntryUpdated, EventEntryDeleted}, got)
	}
	assert.Empty(t, bob.C)
}

func TestCloseUnsubscribes(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe("alice")
	assert.Equal(t, 1, hub.Subscribers("alice"))

	sub.Close()
	sub.Close()
	assert.Zero(t, hub.Subscribers("alice"))

	_, open := <-sub.C
	assert.False(t, open)

	// publishing after teardown must not panic
	hub.Publish("alice", EventEntryCreated, nil)
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe("alice")
	defer sub.Close()

	hub.Publish("alice", EventEntryCreated, 1)
	hub.Publish("alice", EventEntryCreated, 2)

	ev := <-sub.C
	assert.Equal(t, 1, ev.Data)
	assert.Empty(t, sub.C)
}

func TestWriteSSE(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSSE(&buf, Event{Type: EventSyncFailed, Data: map[string]string{"kind": "diary.create"}}))

	out := buf.String()
	assert.Contains(t, out, "event: sync_failed\n")
	assert.Contains(t, out, `"kind":"diary.create"`)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n\n")))
}
