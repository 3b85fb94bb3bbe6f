// Package transport dials and caches gRPC connections to peer replicas.
package transport

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/distchat/chat-cluster/internal/chatpb"
)

// Peers implements election.PeerClient over gRPC. Connections are dialed
// lazily and cached per address; gRPC reconnects them under the hood, so a
// peer crash does not invalidate the cache entry.
type Peers struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

// NewPeers creates an empty connection cache.
func NewPeers() *Peers {
	return &Peers{conns: make(map[string]*grpc.ClientConn)}
}

// Election sends a bully ELECTION challenge to the peer at addr.
func (p *Peers) Election(ctx context.Context, addr string, req *chatpb.ElectionRequest) (*chatpb.ElectionResponse, error) {
	conn, err := p.conn(addr)
	if err != nil {
		return nil, err
	}
	return chatpb.NewElectionServiceClient(conn).Election(ctx, req)
}

// Coordinator announces a new leader to the peer at addr.
func (p *Peers) Coordinator(ctx context.Context, addr string, req *chatpb.CoordinatorRequest) (*chatpb.CoordinatorResponse, error) {
	conn, err := p.conn(addr)
	if err != nil {
		return nil, err
	}
	return chatpb.NewElectionServiceClient(conn).Coordinator(ctx, req)
}

// Heartbeat probes the peer at addr for liveness.
func (p *Peers) Heartbeat(ctx context.Context, addr string, req *chatpb.HeartbeatRequest) (*chatpb.HeartbeatResponse, error) {
	conn, err := p.conn(addr)
	if err != nil {
		return nil, err
	}
	return chatpb.NewElectionServiceClient(conn).Heartbeat(ctx, req)
}

// Close tears down every cached connection.
func (p *Peers) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, conn := range p.conns {
		_ = conn.Close()
		delete(p.conns, addr)
	}
}

func (p *Peers) conn(addr string) (*grpc.ClientConn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[addr]; ok {
		return conn, nil
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to dial peer %s: %w", addr, err)
	}
	p.conns[addr] = conn
	return conn, nil
}
