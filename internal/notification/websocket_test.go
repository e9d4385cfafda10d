package notification

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hubClient(h *Hub, userID int64, buffer int) *client {
	return &client{hub: h, send: make(chan Message, buffer), userID: userID}
}

func TestHubDeliverNotConnected(t *testing.T) {
	h := NewHub()

	err := h.Deliver(context.Background(), 1, KindNewMatch, matchPayload("m1"))
	assert.ErrorIs(t, err, errNotConnected)
}

func TestHubDeliverToConnectedClient(t *testing.T) {
	h := NewHub()
	c := hubClient(h, 1, 4)
	h.add(c)

	require.NoError(t, h.Deliver(context.Background(), 1, KindNewMatch, matchPayload("m1")))

	msg := <-c.send
	assert.Equal(t, KindNewMatch, msg.Type)
}

func TestHubDeliverEvictsSlowConsumer(t *testing.T) {
	h := NewHub()
	c := hubClient(h, 1, 1)
	h.add(c)

	require.NoError(t, h.Deliver(context.Background(), 1, KindNewMatch, matchPayload("m1")))

	// Buffer full now; delivery fails and the connection is dropped.
	err := h.Deliver(context.Background(), 1, KindNewMatch, matchPayload("m2"))
	assert.ErrorIs(t, err, errNotConnected)

	h.mu.RLock()
	_, stillThere := h.clients[1]
	h.mu.RUnlock()
	assert.False(t, stillThere)

	// The send channel was closed on eviction.
	_, open := <-c.send
	require.True(t, open) // the first message
	_, open = <-c.send
	assert.False(t, open)
}

func TestHubReconnectReplacesConnection(t *testing.T) {
	h := NewHub()
	old := hubClient(h, 1, 4)
	h.add(old)

	replacement := hubClient(h, 1, 4)
	h.add(replacement)

	_, open := <-old.send
	assert.False(t, open)

	require.NoError(t, h.Deliver(context.Background(), 1, KindNewMatch, matchPayload("m1")))
	assert.Len(t, replacement.send, 1)
	assert.Empty(t, old.send)
}

// Deliveries racing reconnects must never land on a closed send channel.
func TestHubDeliverDuringReconnect(t *testing.T) {
	h := NewHub()
	h.add(hubClient(h, 1, 1))

	done := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					h.Deliver(context.Background(), 1, KindNewMatch, matchPayload("m1"))
				}
			}
		}()
	}

	for i := 0; i < 5000; i++ {
		h.add(hubClient(h, 1, 1))
	}

	close(done)
	wg.Wait()
}
