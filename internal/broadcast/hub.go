package broadcast

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/lamport"
)

// Subscriber is the hub-side slot of one connected client: its assigned id
// and the bounded queue its session streams from.
type Subscriber struct {
	ID uint32
	C  <-chan *chatpb.TextMessage

	ch chan *chatpb.TextMessage
}

// Hub is the leader's broadcast engine: it assigns client ids, stamps
// accepted messages with the server's Lamport clock, appends them to the
// history and fans them out to every subscriber except the sender.
type Hub struct {
	clock     *lamport.Clock
	history   *History
	queueSize int
	logger    zerolog.Logger

	mu          sync.Mutex
	subscribers map[uint32]*Subscriber
	nextID      uint32
}

// NewHub builds a hub whose subscriber queues hold queueSize messages each.
func NewHub(clock *lamport.Clock, history *History, queueSize int, logger zerolog.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = 128
	}
	return &Hub{
		clock:       clock,
		history:     history,
		queueSize:   queueSize,
		logger:      logger.With().Str("component", "broadcast").Logger(),
		subscribers: make(map[uint32]*Subscriber),
		nextID:      1,
	}
}

// Subscribe allocates a fresh client id and installs its queue. Ids are
// never recycled within the process lifetime.
func (h *Hub) Subscribe() *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan *chatpb.TextMessage, h.queueSize)
	sub := &Subscriber{ID: h.nextID, C: ch, ch: ch}
	h.nextID++
	h.subscribers[sub.ID] = sub
	return sub
}

// Unsubscribe removes the slot. The queue channel is never closed; removal
// from the map is what stops future deliveries, so a fan-out racing with
// the removal cannot panic.
func (h *Hub) Unsubscribe(id uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
}

// Subscribers reports the number of live slots.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Accept takes a message from the sender, stamps it with a fresh server
// timestamp derived from the sender's clock, records it in the history and
// enqueues it on every subscriber except the sender. Full queues drop the
// message for that subscriber only; delivery is at-most-once, best-effort.
// The stamped outbound message is returned.
func (h *Hub) Accept(msg *chatpb.TextMessage) *chatpb.TextMessage {
	out := &chatpb.TextMessage{
		ClientIdFrom:     msg.ClientIdFrom,
		Content:          msg.Content,
		LamportTimestamp: h.clock.Observe(msg.LamportTimestamp),
	}
	h.history.Append(out)

	h.mu.Lock()
	targets := make([]*Subscriber, 0, len(h.subscribers))
	for id, sub := range h.subscribers {
		if id == msg.ClientIdFrom {
			continue
		}
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- out:
		default:
			h.logger.Warn().Uint32("subscriber", sub.ID).Uint64("ts", out.LamportTimestamp).Msg("subscriber queue full, dropping message")
		}
	}

	h.logger.Debug().Uint32("from", out.ClientIdFrom).Uint64("ts", out.LamportTimestamp).Int("recipients", len(targets)).Msg("message broadcast")
	return out
}
