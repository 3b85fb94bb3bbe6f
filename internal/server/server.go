package server

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/distchat/chat-cluster/internal/broadcast"
	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/cluster"
	"github.com/distchat/chat-cluster/internal/config"
	"github.com/distchat/chat-cluster/internal/election"
	"github.com/distchat/chat-cluster/internal/lamport"
	"github.com/distchat/chat-cluster/internal/transport"
)

// Server assembles one chat replica: the shared Lamport clock, the peer
// registry, the bully elector with its failure detector, the broadcast hub
// and the gRPC surface tying them together.
type Server struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *cluster.Registry
	clock    *lamport.Clock
	history  *broadcast.History
	hub      *broadcast.Hub
	peers    *transport.Peers
	elector  *election.Elector
	detector *election.Detector
	grpc     *grpc.Server
	lis      net.Listener

	// shutdown is closed by Stop. Subscription streams select on it, so a
	// replica drains its clients instead of waiting for them to hang up.
	shutdown chan struct{}
	stopOnce sync.Once
}

// New builds a replica from its configuration. Nothing starts running until
// Start.
func New(cfg *config.Config, logger zerolog.Logger) *Server {
	clock := &lamport.Clock{}
	registry := cluster.NewRegistry(cfg.ServerID, cfg.Address(), cfg.Peers)
	peers := transport.NewPeers()

	onLeaderChange := func(leaderID uint32) {
		logger.Info().Uint32("leader", leaderID).Bool("self", leaderID == cfg.ServerID).Msg("leader changed")
	}
	elector := election.New(registry, clock, peers, onLeaderChange, election.Timeouts{}, logger)
	detector := election.NewDetector(registry, elector, peers, 0, 0, logger)

	history := broadcast.NewHistory(0)
	hub := broadcast.NewHub(clock, history, cfg.QueueSize, logger)

	shutdown := make(chan struct{})
	gs := grpc.NewServer()
	chat := NewChatService(registry, elector, clock, hub, history, shutdown, logger)
	chatpb.RegisterClientServiceServer(gs, chat)
	chatpb.RegisterSyncServiceServer(gs, chat)
	chatpb.RegisterElectionServiceServer(gs, NewElectionService(elector, clock))

	return &Server{
		cfg:      cfg,
		logger:   logger.With().Str("component", "server").Logger(),
		registry: registry,
		clock:    clock,
		history:  history,
		hub:      hub,
		peers:    peers,
		elector:  elector,
		detector: detector,
		grpc:     gs,
		shutdown: shutdown,
	}
}

// Start binds the listener and launches the serving loop, the failure
// detector and the initial election. It returns once the replica is
// listening.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}
	s.lis = lis

	// The elector must hold the lifecycle context before the first peer RPC
	// can land.
	s.elector.Start(ctx)

	go func() {
		if err := s.grpc.Serve(lis); err != nil {
			s.logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	go s.detector.Run(ctx)

	s.logger.Info().Uint32("server_id", s.cfg.ServerID).Str("address", s.cfg.Address()).Int("peers", len(s.cfg.Peers)).Msg("replica started")
	return nil
}

// Stop drains subscription streams and in-flight RPCs, then closes peer
// connections. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.shutdown)
		s.grpc.GracefulStop()
		s.peers.Close()
		s.logger.Info().Msg("replica stopped")
	})
}

// Elector exposes the election engine for the observability plane.
func (s *Server) Elector() *election.Elector { return s.elector }

// Registry exposes the peer registry for the observability plane.
func (s *Server) Registry() *cluster.Registry { return s.registry }

// History exposes the message history for the observability plane.
func (s *Server) History() *broadcast.History { return s.history }
