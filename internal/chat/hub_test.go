package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newHubClient builds a client attached to the hub without a live websocket
// connection; the pumps are never started in these tests.
func newHubClient(hub *Hub, name string) *Client {
	return &Client{
		id:     uuid.New(),
		name:   name,
		hub:    hub,
		send:   make(chan Event, sendBufferSize),
		logger: zap.NewNop(),
	}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case event := <-c.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_JoinAnnouncement(t *testing.T) {
	hub := startHub(t)

	woody := newHubClient(hub, "woody")
	hub.register <- woody

	event := receiveEvent(t, woody)
	assert.Equal(t, "", event.Author)
	assert.Equal(t, "woody joined the Woody's Wild Guess chat room.", event.Text)
}

func TestHub_LeaveAnnouncement(t *testing.T) {
	hub := startHub(t)

	woody := newHubClient(hub, "woody")
	buzz := newHubClient(hub, "buzz")

	hub.register <- woody
	receiveEvent(t, woody) // woody's own join

	hub.register <- buzz
	receiveEvent(t, woody) // buzz's join
	receiveEvent(t, buzz)

	hub.unregister <- buzz

	event := receiveEvent(t, woody)
	assert.Equal(t, "", event.Author)
	assert.Equal(t, "buzz has left the chat room.", event.Text)
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := startHub(t)

	clients := make([]*Client, 3)
	for i := range clients {
		clients[i] = newHubClient(hub, fmt.Sprintf("user%d", i))
		hub.register <- clients[i]
	}

	// Drain join announcements: client i sees the joins of i..n-1.
	for i, c := range clients {
		for j := i; j < len(clients); j++ {
			receiveEvent(t, c)
		}
	}

	hub.Broadcast(Event{Author: "user0", Text: "hello everyone"})

	for _, c := range clients {
		event := receiveEvent(t, c)
		assert.Equal(t, Event{Author: "user0", Text: "hello everyone"}, event)
	}
}

func TestHub_SlowClientDropsEventsWithoutBlocking(t *testing.T) {
	hub := startHub(t)

	slow := newHubClient(hub, "slow")
	hub.register <- slow

	// Fill the buffer past capacity; the hub must keep going.
	for i := 0; i <= sendBufferSize+5; i++ {
		hub.Broadcast(Event{Author: "spammer", Text: "flood"})
	}

	fast := newHubClient(hub, "fast")
	hub.register <- fast

	require.Eventually(t, func() bool {
		select {
		case <-fast.send:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "hub stalled behind a slow client")
}

func TestHub_UnregisterUnknownClient(t *testing.T) {
	hub := startHub(t)

	stranger := newHubClient(hub, "stranger")
	hub.unregister <- stranger

	// Hub must still be serving requests
	member := newHubClient(hub, "member")
	hub.register <- member
	receiveEvent(t, member)
}

func TestHub_ShutdownClosesClientChannels(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	member := newHubClient(hub, "member")
	hub.register <- member
	receiveEvent(t, member)

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-member.send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "send channel was not closed on shutdown")
}
