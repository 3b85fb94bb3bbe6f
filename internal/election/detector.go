package election

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/cluster"
)

// Detector probes the current leader and triggers an election when a probe
// fails. One failed heartbeat is enough: elections are idempotent, so a
// false positive costs only a round of election traffic.
//
// Heartbeats never touch the Lamport clock. They are liveness probes, not
// chat events, and must not inflate message timestamps.
type Detector struct {
	registry *cluster.Registry
	elector  *Elector
	peers    PeerClient
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewDetector builds a failure detector. Zero durations default to a 2s
// probe interval and a 2s probe timeout.
func NewDetector(registry *cluster.Registry, elector *Elector, peers PeerClient, interval, timeout time.Duration, logger zerolog.Logger) *Detector {
	if interval == 0 {
		interval = 2 * time.Second
	}
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	return &Detector{
		registry: registry,
		elector:  elector,
		peers:    peers,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With().Str("component", "detector").Logger(),
	}
}

// Run loops until ctx is cancelled, probing the leader once per interval.
func (d *Detector) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Probe(ctx)
		}
	}
}

// Probe checks the leader once. Exported so tests can drive ticks directly.
func (d *Detector) Probe(ctx context.Context) {
	leaderID, known := d.elector.Leader()
	if !known || leaderID == d.registry.SelfID() {
		return
	}

	addr, ok := d.registry.Address(leaderID)
	if !ok {
		d.logger.Warn().Uint32("leader", leaderID).Msg("leader id not in peer registry, skipping probe")
		return
	}

	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	_, err := d.peers.Heartbeat(cctx, addr, &chatpb.HeartbeatRequest{
		ServerId:         d.registry.SelfID(),
		LamportTimestamp: 0,
	})
	if err != nil {
		d.logger.Warn().Err(err).Uint32("leader", leaderID).Msg("leader missed heartbeat, triggering election")
		go d.elector.StartElection(ctx)
	}
}
