package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/distchat/chat-cluster/internal/broadcast"
	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/cluster"
	"github.com/distchat/chat-cluster/internal/config"
	"github.com/distchat/chat-cluster/internal/election"
	"github.com/distchat/chat-cluster/internal/lamport"
)

func newTestHandler() (*Handler, *election.Elector, *broadcast.History) {
	peers := []config.Peer{
		{ID: 1, Address: "addr-1"},
		{ID: 3, Address: "addr-3"},
	}
	reg := cluster.NewRegistry(1, "addr-1", peers)
	el := election.New(reg, &lamport.Clock{}, nil, nil, election.Timeouts{}, zerolog.Nop())
	hist := broadcast.NewHistory(0)
	return NewHandler(reg, el, hist, zerolog.Nop()), el, hist
}

func TestLeaderEndpoint(t *testing.T) {
	h, el, _ := newTestHandler()
	el.HandleCoordinator(3, 1)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leader", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp LeaderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.IsLeaderKnown || resp.LeaderID != 3 || resp.LeaderAddress != "addr-3" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.IsLeader {
		t.Fatal("follower reported itself leader")
	}
}

func TestHealthzEndpoint(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	h, _, hist := newTestHandler()
	hist.Append(&chatpb.TextMessage{ClientIdFrom: 2, Content: "hi", LamportTimestamp: 4})

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))

	var entries []HistoryEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].Content != "hi" || entries[0].Lamport != 4 {
		t.Fatalf("entries = %+v", entries)
	}
}
