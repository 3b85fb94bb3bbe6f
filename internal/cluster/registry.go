// Package cluster holds the static view of the replica set.
package cluster

import (
	"sort"

	"github.com/distchat/chat-cluster/internal/config"
)

// Registry maps server identifiers to their network addresses. The peer set
// is fixed at startup; there is no dynamic membership.
type Registry struct {
	selfID   uint32
	selfAddr string
	peers    map[uint32]string
	sorted   []uint32
}

// NewRegistry builds a registry for selfID listening on selfAddr, with the
// given peers (self already removed by the config layer).
func NewRegistry(selfID uint32, selfAddr string, peers []config.Peer) *Registry {
	m := make(map[uint32]string, len(peers))
	ids := make([]uint32, 0, len(peers))
	for _, p := range peers {
		if p.ID == selfID {
			continue
		}
		m[p.ID] = p.Address
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return &Registry{
		selfID:   selfID,
		selfAddr: selfAddr,
		peers:    m,
		sorted:   ids,
	}
}

// SelfID returns this replica's identifier.
func (r *Registry) SelfID() uint32 { return r.selfID }

// SelfAddress returns this replica's own listen address.
func (r *Registry) SelfAddress() string { return r.selfAddr }

// Address resolves a server id to its address. Resolving the registry's own
// id yields the local address.
func (r *Registry) Address(id uint32) (string, bool) {
	if id == r.selfID {
		return r.selfAddr, true
	}
	addr, ok := r.peers[id]
	return addr, ok
}

// Peers returns every peer except self, in ascending id order.
func (r *Registry) Peers() []config.Peer {
	out := make([]config.Peer, 0, len(r.sorted))
	for _, id := range r.sorted {
		out = append(out, config.Peer{ID: id, Address: r.peers[id]})
	}
	return out
}

// HigherPeers returns the peers whose id exceeds self, in ascending order.
// These are the replicas a bully election must challenge.
func (r *Registry) HigherPeers() []config.Peer {
	out := make([]config.Peer, 0, len(r.sorted))
	for _, id := range r.sorted {
		if id > r.selfID {
			out = append(out, config.Peer{ID: id, Address: r.peers[id]})
		}
	}
	return out
}
