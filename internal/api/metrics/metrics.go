// Package metrics defines and registers all custom Prometheus metrics for the
// TeamFlow API. It is the single source of truth for metric names, labels,
// and help strings; promauto registers everything with the default registry
// at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "teamflow"

// MutationsTotal counts successful state changes.
// Labels:
//   - entity: "project" or "task"
//   - action: "create", "update", "move", "delete", "invite", "leave", "comment"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of successful entity mutations.",
	},
	[]string{"entity", "action"},
)

// BroadcastEventsTotal counts events emitted to project rooms.
// Label:
//   - type: the event type (e.g. "task_moved")
var BroadcastEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_events_total",
		Help:      "Total number of realtime events broadcast to project rooms.",
	},
	[]string{"type"},
)

// BroadcastDroppedTotal counts events dropped because a client's send buffer
// was full. Dropped clients are disconnected and expected to refetch.
var BroadcastDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_dropped_total",
		Help:      "Total number of events dropped due to slow websocket clients.",
	},
)

// WSConnections tracks currently connected websocket clients.
var WSConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_connections",
		Help:      "Number of currently connected websocket clients.",
	},
)

// RoomSubscribers tracks the number of subscriptions per project room.
// Label:
//   - project_id: the room identifier
var RoomSubscribers = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "room_subscribers",
		Help:      "Number of clients currently joined to each project room.",
	},
	[]string{"project_id"},
)
