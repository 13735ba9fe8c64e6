// Package realtime implements the project-room broadcaster: clients join and
// leave rooms keyed by project id, and every successful mutation is fanned
// out to the room's subscribers as a typed JSON event.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/teamflow/teamflow-api/internal/api/metrics"
	"github.com/teamflow/teamflow-api/internal/core/domain"
)

const eventBuffer = 256

type subscription struct {
	client    *Client
	projectID string
}

// Hub routes events to room subscribers. All room state is owned by the
// single Run goroutine, which also preserves per-room emission order.
// Broadcast never blocks the caller: when the hub's queue is full the event
// is dropped and subscribers are expected to refetch on reconnect.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	join       chan subscription
	leave      chan subscription
	events     chan domain.Event

	// done is closed when Run returns so clients never block on the
	// channels above after shutdown.
	done chan struct{}

	// clients and rooms are owned exclusively by the Run goroutine.
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	log zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan subscription),
		leave:      make(chan subscription),
		events:     make(chan domain.Event, eventBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		log:        log,
	}
}

// Broadcast enqueues an event for fanout. Fire-and-forget: the mutation
// service's response never waits on delivery.
func (h *Hub) Broadcast(event domain.Event) {
	select {
	case h.events <- event:
	default:
		metrics.BroadcastDroppedTotal.Inc()
		h.log.Warn().Str("type", string(event.Type)).Str("project_id", event.ProjectID).Msg("hub queue full, event dropped")
	}
}

// Run owns all room state. It returns when ctx is cancelled, closing every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				client.closeSend()
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			metrics.WSConnections.Inc()
			h.log.Debug().Str("client_id", client.id).Str("user_id", client.userID).Msg("client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.dropClient(client)
				client.closeSend()
				metrics.WSConnections.Dec()
			}
			h.log.Debug().Str("client_id", client.id).Msg("client disconnected")

		case sub := <-h.join:
			room, ok := h.rooms[sub.projectID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[sub.projectID] = room
			}
			room[sub.client] = struct{}{}
			metrics.RoomSubscribers.WithLabelValues(sub.projectID).Set(float64(len(room)))
			h.log.Debug().Str("client_id", sub.client.id).Str("project_id", sub.projectID).Msg("joined room")

		case sub := <-h.leave:
			h.leaveRoom(sub.client, sub.projectID)

		case event := <-h.events:
			h.fanout(event)
		}
	}
}

func (h *Hub) fanout(event domain.Event) {
	room := h.rooms[event.ProjectID]
	if len(room) == 0 {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(event.Type)).Msg("failed to marshal event")
		return
	}

	metrics.BroadcastEventsTotal.WithLabelValues(string(event.Type)).Inc()
	for client := range room {
		select {
		case client.send <- payload:
		default:
			// Slow consumer: disconnect rather than stall the room.
			metrics.BroadcastDroppedTotal.Inc()
			h.dropClient(client)
			client.closeSend()
			metrics.WSConnections.Dec()
		}
	}
}

func (h *Hub) leaveRoom(client *Client, projectID string) {
	room, ok := h.rooms[projectID]
	if !ok {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, projectID)
	}
	metrics.RoomSubscribers.WithLabelValues(projectID).Set(float64(len(room)))
}

// dropClient forgets the client entirely: every room it joined plus the
// connected set. The caller is responsible for calling closeSend.
func (h *Hub) dropClient(client *Client) {
	for projectID, room := range h.rooms {
		if _, ok := room[client]; ok {
			h.leaveRoom(client, projectID)
		}
	}
	delete(h.clients, client)
}
