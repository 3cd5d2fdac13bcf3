package realtime

import (
	"sync"

	json "github.com/goccy/go-json"

	"github.com/Collins-II/loudear-music-sub000/internal/providers"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

const defaultClientBuffer = 16

// BroadcasterInterface is the publish/subscribe contract. Delivery is
// at-most-once: a publish to a full or absent subscriber is dropped,
// never retried, and never fails the caller.
type BroadcasterInterface interface {
	Publish(room string, event Event)
	Subscribe(room string) chan []byte
	Unsubscribe(room string, ch chan []byte)
	ClientCount() int
}

// Hub fans events out to room subscribers over buffered channels.
type Hub struct {
	mu      sync.Mutex
	rooms   map[string][]chan []byte
	buffer  int
	clients int
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewBroadcaster(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) BroadcasterInterface {
	if !conf.Realtime.Enabled {
		logger.Infof(providers.TypeApp, "Realtime broadcasting disabled")
		return &noopBroadcaster{}
	}

	buffer := conf.Realtime.ClientBuffer
	if buffer <= 0 {
		buffer = defaultClientBuffer
	}

	return &Hub{
		rooms:   make(map[string][]chan []byte),
		buffer:  buffer,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Hub) Subscribe(room string) chan []byte {
	ch := make(chan []byte, h.buffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.rooms[room] = append(h.rooms[room], ch)
	h.clients++
	h.metrics.SetRealtimeClients(h.clients)
	h.logger.Debugf(providers.TypeRealtime, "Client subscribed to room %s", room)
	return ch
}

func (h *Hub) Unsubscribe(room string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}

	remaining := make([]chan []byte, 0, len(members))
	for _, member := range members {
		if member != ch {
			remaining = append(remaining, member)
			continue
		}
		close(member)
		h.clients--
	}

	if len(remaining) == 0 {
		delete(h.rooms, room)
	} else {
		h.rooms[room] = remaining
	}
	h.metrics.SetRealtimeClients(h.clients)
	h.logger.Debugf(providers.TypeRealtime, "Client unsubscribed from room %s", room)
}

// Publish marshals the event once and sends it to every room member
// without blocking. Marshal failures are logged and swallowed; a missed
// notification degrades UX but never fails the triggering write.
func (h *Hub) Publish(room string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorf(providers.TypeRealtime, "Unable to marshal %s event: %s", event.Name, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.metrics.IncBroadcastsPublished(event.Name)
	for _, ch := range h.rooms[room] {
		select {
		case ch <- payload:
		default:
			h.metrics.IncBroadcastsDropped()
			h.logger.Warnf(providers.TypeRealtime, "Client buffer full, %s event dropped in room %s", event.Name, room)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

// noopBroadcaster serves deployments without realtime support.
type noopBroadcaster struct{}

func (n *noopBroadcaster) Publish(_ string, _ Event)           {}
func (n *noopBroadcaster) Subscribe(_ string) chan []byte      { return nil }
func (n *noopBroadcaster) Unsubscribe(_ string, _ chan []byte) {}
func (n *noopBroadcaster) ClientCount() int                    { return 0 }
