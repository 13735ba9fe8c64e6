package ports

import "github.com/teamflow/teamflow-api/internal/core/domain"

// Broadcaster fans a project event out to every client joined to the
// project's room. Implementations must not block the caller; delivery is
// best-effort and ordered per room within this process.
type Broadcaster interface {
	Broadcast(event domain.Event)
}

// NopBroadcaster discards all events. Used when wiring tests.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(domain.Event) {}
