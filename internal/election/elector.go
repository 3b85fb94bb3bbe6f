// Package election implements bully leader election among chat replicas and
// the heartbeat-based failure detector that triggers it.
package election

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/cluster"
	"github.com/distchat/chat-cluster/internal/config"
	"github.com/distchat/chat-cluster/internal/lamport"
)

// PeerClient sends election-plane RPCs to a peer replica. The gRPC
// implementation lives in internal/transport; tests use in-memory fakes.
type PeerClient interface {
	Election(ctx context.Context, addr string, req *chatpb.ElectionRequest) (*chatpb.ElectionResponse, error)
	Coordinator(ctx context.Context, addr string, req *chatpb.CoordinatorRequest) (*chatpb.CoordinatorResponse, error)
	Heartbeat(ctx context.Context, addr string, req *chatpb.HeartbeatRequest) (*chatpb.HeartbeatResponse, error)
}

// Timeouts bounds every blocking step of the election protocol. Zero fields
// take the defaults below.
type Timeouts struct {
	// Election bounds each ELECTION RPC to a higher peer.
	Election time.Duration
	// Coordinator bounds the wait for a COORDINATOR announcement after at
	// least one higher peer promised to take over.
	Coordinator time.Duration
	// Broadcast bounds each COORDINATOR RPC when announcing leadership.
	Broadcast time.Duration
	// StartupDelay postpones the initial election until peers had a chance
	// to start listening.
	StartupDelay time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Election == 0 {
		t.Election = 3 * time.Second
	}
	if t.Coordinator == 0 {
		t.Coordinator = 5 * time.Second
	}
	if t.Broadcast == 0 {
		t.Broadcast = 2 * time.Second
	}
	if t.StartupDelay == 0 {
		t.StartupDelay = time.Second
	}
	return t
}

// Elector runs the bully algorithm for one replica and tracks the cluster
// leader identity.
type Elector struct {
	registry *cluster.Registry
	clock    *lamport.Clock
	peers    PeerClient
	timeouts Timeouts
	logger   zerolog.Logger

	mu             sync.Mutex
	ctx            context.Context
	leaderID       uint32
	leaderKnown    bool
	onLeaderChange func(uint32)

	// electionActive makes StartElection single-flight: repeated triggers
	// (heartbeat failures, incoming ELECTION messages) collapse into the
	// one election already running.
	electionActive int32

	coordinatorCh chan uint32
}

// New builds an Elector. onLeaderChange, when non-nil, is invoked once per
// actual leader identity change, outside the elector's mutex.
func New(registry *cluster.Registry, clock *lamport.Clock, peers PeerClient, onLeaderChange func(uint32), timeouts Timeouts, logger zerolog.Logger) *Elector {
	return &Elector{
		registry:       registry,
		clock:          clock,
		peers:          peers,
		timeouts:       timeouts.withDefaults(),
		logger:         logger.With().Str("component", "election").Logger(),
		ctx:            context.Background(),
		onLeaderChange: onLeaderChange,
		coordinatorCh:  make(chan uint32, 1),
	}
}

// Start records the lifecycle context and schedules the initial election.
// Handlers read the context concurrently, so the write is mutex-guarded.
func (e *Elector) Start(ctx context.Context) {
	e.mu.Lock()
	e.ctx = ctx
	e.mu.Unlock()
	go func() {
		timer := time.NewTimer(e.timeouts.StartupDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}
		e.StartElection(ctx)
	}()
}

// Leader returns the currently known leader id, if any.
func (e *Elector) Leader() (uint32, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.leaderID, e.leaderKnown
}

// IsLeader reports whether this replica currently considers itself leader.
func (e *Elector) IsLeader() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.leaderKnown && e.leaderID == e.registry.SelfID()
}

// StartElection runs a bully election. Concurrent callers collapse into the
// election already in flight. The call returns once a leader identity has
// been published (possibly self) or ctx is cancelled; a missed COORDINATOR
// restarts the election within the same call rather than spawning a new one.
func (e *Elector) StartElection(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&e.electionActive, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&e.electionActive, 0)

	// Announcements from before this election must not satisfy its wait;
	// anything arriving from here on is live and stays buffered across
	// restart rounds.
	select {
	case <-e.coordinatorCh:
	default:
	}

	for {
		if ctx.Err() != nil {
			return
		}
		if e.runElection(ctx) {
			return
		}
		e.logger.Info().Msg("no coordinator observed, restarting election")
	}
}

// runElection performs one round. It returns false when the round timed out
// waiting for a COORDINATOR and must be repeated.
func (e *Elector) runElection(ctx context.Context) bool {
	ts := e.clock.Tick()
	self := e.registry.SelfID()

	higher := e.registry.HigherPeers()
	e.logger.Info().Uint64("ts", ts).Int("higher_peers", len(higher)).Msg("starting election")

	if len(higher) == 0 {
		e.becomeLeader(ctx)
		return true
	}

	var (
		wg    sync.WaitGroup
		anyOK atomic.Bool
	)
	for _, p := range higher {
		wg.Add(1)
		go func(p config.Peer) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, e.timeouts.Election)
			defer cancel()
			resp, err := e.peers.Election(cctx, p.Address, &chatpb.ElectionRequest{
				CandidateId:      self,
				LamportTimestamp: ts,
			})
			if err != nil {
				e.logger.Debug().Err(err).Uint32("peer", p.ID).Msg("election rpc failed")
				return
			}
			if resp.Ok {
				e.clock.Observe(resp.LamportTimestamp)
				anyOK.Store(true)
				e.logger.Info().Uint32("responder", resp.ResponderId).Msg("received OK from higher peer")
			}
		}(p)
	}
	wg.Wait()

	if !anyOK.Load() {
		e.logger.Info().Msg("no higher peer answered, claiming leadership")
		e.becomeLeader(ctx)
		return true
	}

	// A higher peer promised to take over; give it coordinatorTimeout to
	// announce itself. It may have crashed right after answering.
	timer := time.NewTimer(e.timeouts.Coordinator)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return true
	case leader := <-e.coordinatorCh:
		e.logger.Info().Uint32("leader", leader).Msg("coordinator observed, election settled")
		return true
	case <-timer.C:
		return false
	}
}

// becomeLeader publishes self as leader and broadcasts COORDINATOR to every
// peer. Broadcast failures are logged and ignored: a dead peer learns the
// leader when it rejoins.
func (e *Elector) becomeLeader(ctx context.Context) {
	self := e.registry.SelfID()
	e.setLeader(self)

	ts := e.clock.Tick()
	var wg sync.WaitGroup
	for _, p := range e.registry.Peers() {
		wg.Add(1)
		go func(p config.Peer) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, e.timeouts.Broadcast)
			defer cancel()
			_, err := e.peers.Coordinator(cctx, p.Address, &chatpb.CoordinatorRequest{
				LeaderId:         self,
				LamportTimestamp: ts,
			})
			if err != nil {
				e.logger.Warn().Err(err).Uint32("peer", p.ID).Msg("coordinator broadcast failed")
			}
		}(p)
	}
	wg.Wait()
}

// HandleElection processes an incoming ELECTION challenge. The reply is
// ok=true when this replica outranks the candidate, in which case it races
// for leadership itself. The candidate's timestamp is always observed.
func (e *Elector) HandleElection(candidateID uint32, ts uint64) (bool, uint32) {
	e.clock.Observe(ts)
	self := e.registry.SelfID()
	if candidateID < self {
		e.logger.Info().Uint32("candidate", candidateID).Msg("outranking election candidate, answering OK")
		go e.StartElection(e.lifecycle())
		return true, self
	}
	return false, self
}

// HandleCoordinator accepts a leader announcement from a peer.
func (e *Elector) HandleCoordinator(leaderID uint32, ts uint64) {
	e.clock.Observe(ts)
	e.setLeader(leaderID)
	select {
	case e.coordinatorCh <- leaderID:
	default:
	}
}

// lifecycle returns the context the replica runs under. Before Start it is
// context.Background().
func (e *Elector) lifecycle() context.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// setLeader records the leader identity. The observer runs outside the
// mutex: it may take further locks or issue RPCs of its own.
func (e *Elector) setLeader(leaderID uint32) {
	e.mu.Lock()
	changed := !e.leaderKnown || e.leaderID != leaderID
	e.leaderID = leaderID
	e.leaderKnown = true
	observer := e.onLeaderChange
	e.mu.Unlock()

	if changed {
		e.logger.Info().Uint32("leader", leaderID).Bool("self", leaderID == e.registry.SelfID()).Msg("new leader")
		if observer != nil {
			observer(leaderID)
		}
	}
}
