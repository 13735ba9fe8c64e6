package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

func newTestClient(userID string) *Client {
	return &Client{
		id:     "client-" + userID,
		userID: userID,
		send:   make(chan []byte, sendBuffer),
	}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func recv(t *testing.T, c *Client) domain.Event {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		require.True(t, ok, "send channel closed unexpectedly")
		var event domain.Event
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return domain.Event{}
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("unexpected delivery: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDeliversToRoomSubscribers(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.register <- alice
	hub.register <- bob
	hub.join <- subscription{client: alice, projectID: "project-1"}
	hub.join <- subscription{client: bob, projectID: "project-1"}

	hub.Broadcast(domain.Event{Type: domain.EventTaskCreated, ProjectID: "project-1"})

	for _, c := range []*Client{alice, bob} {
		event := recv(t, c)
		assert.Equal(t, domain.EventTaskCreated, event.Type)
		assert.Equal(t, "project-1", event.ProjectID)
	}
}

func TestHubIsolatesRooms(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.register <- alice
	hub.register <- bob
	hub.join <- subscription{client: alice, projectID: "project-1"}
	hub.join <- subscription{client: bob, projectID: "project-2"}

	hub.Broadcast(domain.Event{Type: domain.EventTaskDeleted, ProjectID: "project-1"})

	event := recv(t, alice)
	assert.Equal(t, domain.EventTaskDeleted, event.Type)
	expectSilence(t, bob)
}

func TestHubPreservesPerRoomOrder(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	alice := newTestClient("alice")
	hub.register <- alice
	hub.join <- subscription{client: alice, projectID: "project-1"}

	types := []domain.EventType{domain.EventTaskCreated, domain.EventTaskMoved, domain.EventTaskDeleted}
	for _, typ := range types {
		hub.Broadcast(domain.Event{Type: typ, ProjectID: "project-1"})
	}

	for _, want := range types {
		assert.Equal(t, want, recv(t, alice).Type)
	}
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	alice := newTestClient("alice")
	hub.register <- alice
	hub.join <- subscription{client: alice, projectID: "project-1"}
	hub.leave <- subscription{client: alice, projectID: "project-1"}

	hub.Broadcast(domain.Event{Type: domain.EventTaskCreated, ProjectID: "project-1"})
	expectSilence(t, alice)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	alice := newTestClient("alice")
	hub.register <- alice
	hub.join <- subscription{client: alice, projectID: "project-1"}
	hub.unregister <- alice

	select {
	case _, ok := <-alice.send:
		assert.False(t, ok, "send should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send was not closed")
	}
}

func TestHubDropsSlowConsumer(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	slow := &Client{id: "slow", userID: "slow", send: make(chan []byte)} // no buffer, never drained
	fast := newTestClient("fast")
	hub.register <- slow
	hub.register <- fast
	hub.join <- subscription{client: slow, projectID: "project-1"}
	hub.join <- subscription{client: fast, projectID: "project-1"}

	hub.Broadcast(domain.Event{Type: domain.EventTaskCreated, ProjectID: "project-1"})

	// The fast client still gets the event; the slow one is disconnected.
	assert.Equal(t, domain.EventTaskCreated, recv(t, fast).Type)

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("slow client's send was never closed")
		}
	}
}

func TestDroppedClientToleratesLateInboundError(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	slow := &Client{id: "slow", userID: "slow", hub: hub, send: make(chan []byte)} // never drained
	hub.register <- slow
	hub.join <- subscription{client: slow, projectID: "project-1"}

	// Fanout cannot deliver, so the hub drops the client and closes send.
	hub.Broadcast(domain.Event{Type: domain.EventTaskCreated, ProjectID: "project-1"})

	deadline := time.After(time.Second)
	for closed := false; !closed; {
		select {
		case _, ok := <-slow.send:
			closed = !ok
		case <-deadline:
			t.Fatal("slow client's send was never closed")
		}
	}

	// An inbound frame can still arrive between the drop and the read pump
	// noticing the dead connection; its error reply must be a no-op.
	slow.pushError("invalid message")
	slow.pushError("unknown action ping")
}

func TestHubShutdownClosesAllClients(t *testing.T) {
	hub, cancel := startHub(t)

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.register <- alice
	hub.register <- bob
	// bob subscribes to two rooms; shutdown must still close send exactly once.
	hub.join <- subscription{client: bob, projectID: "project-1"}
	hub.join <- subscription{client: bob, projectID: "project-2"}

	cancel()

	for _, c := range []*Client{alice, bob} {
		select {
		case _, ok := <-c.send:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("send was not closed on shutdown")
		}
	}
}

func TestNewClientAfterShutdownRefusesConnection(t *testing.T) {
	hub, cancel := startHub(t)
	cancel()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub never shut down")
	}

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if c := NewClient(hub, conn, "late", nil, zerolog.Nop()); c != nil {
			t.Error("expected nil client after hub shutdown")
		}
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// NewClient must close the connection instead of blocking on register.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err, "expected the server to close the late connection")
}
