// Package server implements the gRPC surfaces of a chat replica: the
// client-facing chat service, the peer election service and the state-sync
// hook.
package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/distchat/chat-cluster/internal/broadcast"
	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/cluster"
	"github.com/distchat/chat-cluster/internal/election"
	"github.com/distchat/chat-cluster/internal/lamport"
)

// ChatService serves clients. Only the leader accepts subscriptions and
// messages; other replicas redirect.
type ChatService struct {
	chatpb.UnimplementedClientServiceServer
	chatpb.UnimplementedSyncServiceServer

	registry *cluster.Registry
	elector  *election.Elector
	clock    *lamport.Clock
	hub      *broadcast.Hub
	history  *broadcast.History
	shutdown <-chan struct{}
	logger   zerolog.Logger
}

// NewChatService wires the client-facing service. Closing shutdown tears
// down every open subscription stream so the replica can stop without
// waiting for clients to disconnect.
func NewChatService(registry *cluster.Registry, elector *election.Elector, clock *lamport.Clock, hub *broadcast.Hub, history *broadcast.History, shutdown <-chan struct{}, logger zerolog.Logger) *ChatService {
	return &ChatService{
		registry: registry,
		elector:  elector,
		clock:    clock,
		hub:      hub,
		history:  history,
		shutdown: shutdown,
		logger:   logger.With().Str("component", "chat").Logger(),
	}
}

// GetLeader reports the replica's current view of the leader. Safe on any
// replica, leader or not.
func (s *ChatService) GetLeader(ctx context.Context, _ *chatpb.Empty) (*chatpb.LeaderInfo, error) {
	leaderID, known := s.elector.Leader()
	if !known {
		return &chatpb.LeaderInfo{}, nil
	}

	addr, ok := s.registry.Address(leaderID)
	if !ok {
		// The leader identity is still known; only its address is not. The
		// client falls back to discovery instead of treating the cluster as
		// leaderless.
		s.logger.Warn().Uint32("leader", leaderID).Msg("known leader missing from registry")
		return &chatpb.LeaderInfo{LeaderId: leaderID, IsLeaderKnown: true}, nil
	}
	return &chatpb.LeaderInfo{
		LeaderId:      leaderID,
		LeaderAddress: addr,
		IsLeaderKnown: true,
	}, nil
}

// SubscribeToServerEvents opens a client session. A non-leader answers with
// a single REDIRECT control message and closes the stream; the leader
// assigns a client id and streams broadcasts until the connection dies.
func (s *ChatService) SubscribeToServerEvents(_ *chatpb.Empty, stream chatpb.ClientService_SubscribeToServerEventsServer) error {
	if !s.elector.IsLeader() {
		leaderID, known := s.elector.Leader()
		addr, ok := s.registry.Address(leaderID)
		if !known || !ok {
			return status.Error(codes.Unavailable, "leader unknown, retry discovery")
		}
		// Redirects are read, not ticked: telling a client where the leader
		// lives is not a chat event.
		return stream.Send(&chatpb.TextMessage{
			Content:          chatpb.RedirectPrefix + addr,
			LamportTimestamp: s.clock.Time(),
		})
	}

	ts := s.clock.Observe(0)
	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub.ID)

	s.logger.Info().Uint32("client", sub.ID).Uint64("ts", ts).Msg("client subscribed")
	if err := stream.Send(&chatpb.TextMessage{
		Content:          fmt.Sprintf("%s%d", chatpb.AssignedIDPrefix, sub.ID),
		LamportTimestamp: ts,
	}); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Uint32("client", sub.ID).Msg("client disconnected")
			return ctx.Err()
		case <-s.shutdown:
			s.logger.Info().Uint32("client", sub.ID).Msg("dropping client, replica shutting down")
			return status.Error(codes.Unavailable, "server shutting down")
		case msg := <-sub.C:
			if err := stream.Send(msg); err != nil {
				s.logger.Info().Err(err).Uint32("client", sub.ID).Msg("stream broken, dropping client")
				return err
			}
		}
	}
}

// SendMessageToServer accepts a chat message on the leader and broadcasts
// it. Non-leaders reject; the client re-resolves the leader and retries.
func (s *ChatService) SendMessageToServer(ctx context.Context, msg *chatpb.TextMessage) (*chatpb.StatusResponse, error) {
	if !s.elector.IsLeader() {
		return nil, status.Error(codes.FailedPrecondition, "not the leader")
	}

	out := s.hub.Accept(msg)
	return &chatpb.StatusResponse{
		Success:  true,
		ClientId: msg.ClientIdFrom,
		Message:  fmt.Sprintf("delivered at ts %d", out.LamportTimestamp),
	}, nil
}

// SyncState returns history entries newer than the requested timestamp.
// Extension hook for replica catch-up; nothing in the core calls it.
func (s *ChatService) SyncState(ctx context.Context, req *chatpb.SyncRequest) (*chatpb.SyncResponse, error) {
	ts := s.clock.Observe(req.LastTimestamp)
	return &chatpb.SyncResponse{
		Messages:         s.history.Since(req.LastTimestamp),
		LamportTimestamp: ts,
	}, nil
}
