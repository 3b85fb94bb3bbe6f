// Package broadcast fans accepted chat messages out to subscriber queues and
// keeps the bounded in-memory history.
package broadcast

import (
	"sync"

	"github.com/distchat/chat-cluster/internal/chatpb"
)

// HistoryLimit is the number of messages retained for SyncState and the
// observability endpoints. Older messages are evicted FIFO.
const HistoryLimit = 100

// History is a bounded FIFO of accepted messages. Nothing survives a
// restart: the cluster keeps no durable state.
type History struct {
	mu      sync.Mutex
	entries []*chatpb.TextMessage
	limit   int
}

// NewHistory creates a history bounded to limit entries (HistoryLimit when
// limit <= 0).
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{limit: limit}
}

// Append records an accepted message, evicting the oldest entry when full.
func (h *History) Append(msg *chatpb.TextMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, msg)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Since returns the retained messages whose Lamport timestamp exceeds ts,
// oldest first.
func (h *History) Since(ts uint64) []*chatpb.TextMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*chatpb.TextMessage
	for _, m := range h.entries {
		if m.LamportTimestamp > ts {
			out = append(out, m)
		}
	}
	return out
}

// Snapshot returns a copy of the retained messages, oldest first.
func (h *History) Snapshot() []*chatpb.TextMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*chatpb.TextMessage, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of retained messages.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
