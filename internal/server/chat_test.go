package server

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/distchat/chat-cluster/internal/broadcast"
	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/cluster"
	"github.com/distchat/chat-cluster/internal/config"
	"github.com/distchat/chat-cluster/internal/election"
	"github.com/distchat/chat-cluster/internal/lamport"
)

// stubPeers fails every RPC: peers are unreachable, which lets a replica
// win its own election without a network.
type stubPeers struct{}

func (stubPeers) Election(ctx context.Context, addr string, req *chatpb.ElectionRequest) (*chatpb.ElectionResponse, error) {
	return nil, errors.New("unreachable")
}

func (stubPeers) Coordinator(ctx context.Context, addr string, req *chatpb.CoordinatorRequest) (*chatpb.CoordinatorResponse, error) {
	return nil, errors.New("unreachable")
}

func (stubPeers) Heartbeat(ctx context.Context, addr string, req *chatpb.HeartbeatRequest) (*chatpb.HeartbeatResponse, error) {
	return nil, errors.New("unreachable")
}

type fixture struct {
	svc      *ChatService
	elector  *election.Elector
	clock    *lamport.Clock
	hub      *broadcast.Hub
	history  *broadcast.History
	shutdown chan struct{}
}

func newFixture(t *testing.T, selfID uint32) *fixture {
	t.Helper()
	peers := []config.Peer{
		{ID: 1, Address: "addr-1"},
		{ID: 2, Address: "addr-2"},
		{ID: 3, Address: "addr-3"},
	}
	reg := cluster.NewRegistry(selfID, "addr-self", peers)
	clk := &lamport.Clock{}
	el := election.New(reg, clk, stubPeers{}, nil, election.Timeouts{
		Election:     20 * time.Millisecond,
		Coordinator:  20 * time.Millisecond,
		Broadcast:    20 * time.Millisecond,
		StartupDelay: time.Millisecond,
	}, zerolog.Nop())
	hist := broadcast.NewHistory(0)
	hub := broadcast.NewHub(clk, hist, 8, zerolog.Nop())
	shutdown := make(chan struct{})
	return &fixture{
		svc:      NewChatService(reg, el, clk, hub, hist, shutdown, zerolog.Nop()),
		elector:  el,
		clock:    clk,
		hub:      hub,
		history:  hist,
		shutdown: shutdown,
	}
}

// leaderFixture makes the replica the elected leader (highest id, dead
// peers).
func leaderFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, 3)
	f.elector.StartElection(context.Background())
	if !f.elector.IsLeader() {
		t.Fatal("fixture replica failed to win its election")
	}
	return f
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context

	mu   sync.Mutex
	sent []*chatpb.TextMessage
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func (f *fakeStream) Send(m *chatpb.TextMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeStream) messages() []*chatpb.TextMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*chatpb.TextMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func TestGetLeaderUnknown(t *testing.T) {
	f := newFixture(t, 1)
	info, err := f.svc.GetLeader(context.Background(), &chatpb.Empty{})
	if err != nil {
		t.Fatalf("GetLeader: %v", err)
	}
	if info.IsLeaderKnown {
		t.Fatalf("IsLeaderKnown = true before any election: %v", info)
	}
}

func TestGetLeaderKnown(t *testing.T) {
	f := newFixture(t, 1)
	f.elector.HandleCoordinator(3, 1)

	info, err := f.svc.GetLeader(context.Background(), &chatpb.Empty{})
	if err != nil {
		t.Fatalf("GetLeader: %v", err)
	}
	if !info.IsLeaderKnown || info.LeaderId != 3 || info.LeaderAddress != "addr-3" {
		t.Fatalf("GetLeader = %v, want leader 3 at addr-3", info)
	}
}

func TestGetLeaderOutsideRegistry(t *testing.T) {
	f := newFixture(t, 1)
	f.elector.HandleCoordinator(9, 1)

	info, err := f.svc.GetLeader(context.Background(), &chatpb.Empty{})
	if err != nil {
		t.Fatalf("GetLeader: %v", err)
	}
	if !info.IsLeaderKnown || info.LeaderId != 9 {
		t.Fatalf("GetLeader = %v, want known leader 9", info)
	}
	if info.LeaderAddress != "" {
		t.Fatalf("LeaderAddress = %q for an unresolvable leader", info.LeaderAddress)
	}
}

func TestSubscribeRedirectsOnFollower(t *testing.T) {
	f := newFixture(t, 1)
	f.elector.HandleCoordinator(3, 1)

	stream := &fakeStream{ctx: context.Background()}
	if err := f.svc.SubscribeToServerEvents(&chatpb.Empty{}, stream); err != nil {
		t.Fatalf("SubscribeToServerEvents: %v", err)
	}

	sent := stream.messages()
	if len(sent) != 1 {
		t.Fatalf("follower sent %d messages, want exactly the redirect", len(sent))
	}
	if sent[0].Content != chatpb.RedirectPrefix+"addr-3" {
		t.Fatalf("redirect content = %q", sent[0].Content)
	}
	// No slot is installed for a redirected client.
	if f.hub.Subscribers() != 0 {
		t.Fatalf("redirect installed a subscriber slot")
	}
}

func TestSubscribeFailsWhenLeaderUnknown(t *testing.T) {
	f := newFixture(t, 1)
	stream := &fakeStream{ctx: context.Background()}

	err := f.svc.SubscribeToServerEvents(&chatpb.Empty{}, stream)
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("err = %v, want Unavailable", err)
	}
}

func TestSubscribeAndBroadcastOnLeader(t *testing.T) {
	f := leaderFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	stream := &fakeStream{ctx: ctx}
	done := make(chan error, 1)
	go func() { done <- f.svc.SubscribeToServerEvents(&chatpb.Empty{}, stream) }()

	// First message assigns the client id.
	waitForf(t, func() bool { return len(stream.messages()) >= 1 }, "no id assignment")
	first := stream.messages()[0]
	if !strings.HasPrefix(first.Content, chatpb.AssignedIDPrefix) {
		t.Fatalf("first message = %q, want id assignment", first.Content)
	}

	// A message from another client reaches the stream with a fresh server
	// timestamp.
	resp, err := f.svc.SendMessageToServer(context.Background(), &chatpb.TextMessage{
		ClientIdFrom:     99,
		Content:          "hello",
		LamportTimestamp: 1,
	})
	if err != nil || !resp.Success {
		t.Fatalf("SendMessageToServer = %v, %v", resp, err)
	}

	waitForf(t, func() bool { return len(stream.messages()) >= 2 }, "broadcast never reached the stream")
	got := stream.messages()[1]
	if got.Content != "hello" || got.ClientIdFrom != 99 {
		t.Fatalf("broadcast = %v", got)
	}
	if got.LamportTimestamp <= 1 {
		t.Fatalf("broadcast ts = %d, want > sender's 1", got.LamportTimestamp)
	}

	// Cancellation tears the session down and frees the slot.
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not exit on cancellation")
	}
	if f.hub.Subscribers() != 0 {
		t.Fatalf("slot survived stream cancellation")
	}
}

func TestSubscribeDrainsOnShutdown(t *testing.T) {
	f := leaderFixture(t)

	// The stream context never cancels: the client stays connected through
	// the replica's shutdown.
	stream := &fakeStream{ctx: context.Background()}
	done := make(chan error, 1)
	go func() { done <- f.svc.SubscribeToServerEvents(&chatpb.Empty{}, stream) }()
	waitForf(t, func() bool { return f.hub.Subscribers() == 1 }, "subscriber never installed")

	close(f.shutdown)
	select {
	case err := <-done:
		if status.Code(err) != codes.Unavailable {
			t.Fatalf("err = %v, want Unavailable", err)
		}
	case <-time.After(time.Second):
		t.Fatal("stream survived shutdown")
	}
	if f.hub.Subscribers() != 0 {
		t.Fatalf("slot survived shutdown")
	}
}

func TestSendRejectedOnFollower(t *testing.T) {
	f := newFixture(t, 1)
	f.elector.HandleCoordinator(3, 1)

	_, err := f.svc.SendMessageToServer(context.Background(), &chatpb.TextMessage{ClientIdFrom: 1, Content: "x"})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("err = %v, want FailedPrecondition", err)
	}
}

func TestSendRecordsHistory(t *testing.T) {
	f := leaderFixture(t)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.SendMessageToServer(context.Background(), &chatpb.TextMessage{
			ClientIdFrom:     7,
			Content:          "m",
			LamportTimestamp: uint64(i),
		}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if f.history.Len() != 3 {
		t.Fatalf("history holds %d entries, want 3", f.history.Len())
	}
}

func TestSyncState(t *testing.T) {
	f := leaderFixture(t)
	f.history.Append(&chatpb.TextMessage{Content: "old", LamportTimestamp: 2})
	f.history.Append(&chatpb.TextMessage{Content: "new", LamportTimestamp: 9})

	resp, err := f.svc.SyncState(context.Background(), &chatpb.SyncRequest{LastTimestamp: 5})
	if err != nil {
		t.Fatalf("SyncState: %v", err)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].Content != "new" {
		t.Fatalf("SyncState returned %v, want only the newer entry", resp.Messages)
	}
	if resp.LamportTimestamp <= 5 {
		t.Fatalf("SyncState ts = %d, want > requested 5", resp.LamportTimestamp)
	}
}

func waitForf(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
