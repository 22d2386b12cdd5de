package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			return Message{}, false
		}
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg, true
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}, false
	}
}

func TestHub_PublishReachesPostSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	watcher := NewClient(hub, nil, 1)
	other := NewClient(hub, nil, 2)
	hub.Register <- watcher
	hub.Register <- other

	hub.Publish(1, ActionCommentCreated, map[string]string{"content": "hi"})

	msg, ok := receive(t, watcher)
	require.True(t, ok)
	assert.Equal(t, ActionCommentCreated, msg.Action)
	assert.Equal(t, map[string]interface{}{"content": "hi"}, msg.Payload)
	assert.Empty(t, other.send)
}

func TestHub_UnregisterAndShutdownCloseClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	leaving := NewClient(hub, nil, 1)
	staying := NewClient(hub, nil, 1)
	hub.Register <- leaving
	hub.Register <- staying

	hub.Unregister <- leaving
	_, ok := receive(t, leaving)
	assert.False(t, ok, "unregistered client is closed")
	assert.False(t, leaving.Enqueue([]byte("late")))

	cancel()
	<-hub.Done()
	_, ok = receive(t, staying)
	assert.False(t, ok, "shutdown closes remaining clients")

	// Publishing after shutdown must not block.
	hub.Publish(1, ActionCommentDeleted, nil)
}

func TestHub_DropsSlowClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	slow := NewClient(hub, nil, 1)
	hub.Register <- slow
	for i := 0; i < sendBuffer; i++ {
		require.True(t, slow.Enqueue([]byte(`{"action":"filler"}`)))
	}

	hub.Publish(1, ActionCommentCreated, nil)

	require.Eventually(t, func() bool {
		slow.mu.Lock()
		defer slow.mu.Unlock()
		return slow.closed
	}, 2*time.Second, 10*time.Millisecond)
}
