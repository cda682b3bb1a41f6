package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	messages [][]byte
	fail     bool
	closed   bool
}

func (f *fakeClient) Send(message []byte) bool {
	if f.fail {
		return false
	}
	f.messages = append(f.messages, message)
	return true
}

func (f *fakeClient) Close() { f.closed = true }

func TestHub_PublishReachesOnlyOwner(t *testing.T) {
	h := NewHub()
	alice, bob := &fakeClient{}, &fakeClient{}
	h.Register("alice", alice)
	h.Register("bob", bob)

	h.Publish("alice", EventTaskMoved, "task-1")

	require.Len(t, alice.messages, 1)
	require.Empty(t, bob.messages)

	var evt Event
	require.NoError(t, json.Unmarshal(alice.messages[0], &evt))
	require.Equal(t, Event{Type: EventTaskMoved, TaskID: "task-1", UserID: "alice", Version: 1}, evt)
}

func TestHub_BroadcastCountsDeliveries(t *testing.T) {
	h := NewHub()
	h.Register("u", &fakeClient{})
	h.Register("u", &fakeClient{fail: true})

	require.Equal(t, 1, h.Broadcast("u", []byte("x")))
	require.Equal(t, 2, h.Connections("u"))
}

func TestHub_UnregisterCleansUp(t *testing.T) {
	h := NewHub()
	c := &fakeClient{}
	h.Register("u", c)
	h.Unregister("u", c)

	require.Zero(t, h.Connections("u"))
	require.Zero(t, h.Broadcast("u", []byte("x")))
}
