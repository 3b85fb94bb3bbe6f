package server

import (
	"context"

	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/election"
	"github.com/distchat/chat-cluster/internal/lamport"
)

// ElectionService exposes the bully election plane to peer replicas.
type ElectionService struct {
	chatpb.UnimplementedElectionServiceServer

	elector *election.Elector
	clock   *lamport.Clock
}

// NewElectionService wires the peer-facing election service.
func NewElectionService(elector *election.Elector, clock *lamport.Clock) *ElectionService {
	return &ElectionService{elector: elector, clock: clock}
}

// Election answers a bully challenge from a peer candidate.
func (s *ElectionService) Election(ctx context.Context, req *chatpb.ElectionRequest) (*chatpb.ElectionResponse, error) {
	ok, responder := s.elector.HandleElection(req.CandidateId, req.LamportTimestamp)
	return &chatpb.ElectionResponse{
		Ok:               ok,
		ResponderId:      responder,
		LamportTimestamp: s.clock.Time(),
	}, nil
}

// Coordinator accepts a leader announcement.
func (s *ElectionService) Coordinator(ctx context.Context, req *chatpb.CoordinatorRequest) (*chatpb.CoordinatorResponse, error) {
	s.elector.HandleCoordinator(req.LeaderId, req.LamportTimestamp)
	return &chatpb.CoordinatorResponse{
		Acknowledged:     true,
		LamportTimestamp: s.clock.Time(),
	}, nil
}

// Heartbeat answers a liveness probe. Deliberately bypasses the Lamport
// clock on both sides.
func (s *ElectionService) Heartbeat(ctx context.Context, req *chatpb.HeartbeatRequest) (*chatpb.HeartbeatResponse, error) {
	leaderID, _ := s.elector.Leader()
	return &chatpb.HeartbeatResponse{
		Alive:            true,
		LeaderId:         leaderID,
		LamportTimestamp: 0,
	}, nil
}
