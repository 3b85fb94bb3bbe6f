package config

import (
	"testing"
)

func TestParsePeers(t *testing.T) {
	peers, malformed := ParsePeers("1:localhost:50051,2:localhost:50052,3:localhost:50053", 2)
	if len(malformed) != 0 {
		t.Fatalf("malformed = %v", malformed)
	}
	if len(peers) != 2 {
		t.Fatalf("got %d peers, want 2 (self removed)", len(peers))
	}
	if peers[0].ID != 1 || peers[0].Address != "localhost:50051" {
		t.Errorf("peers[0] = %+v", peers[0])
	}
	if peers[1].ID != 3 || peers[1].Address != "localhost:50053" {
		t.Errorf("peers[1] = %+v", peers[1])
	}
}

func TestParsePeersEmpty(t *testing.T) {
	peers, malformed := ParsePeers("", 1)
	if len(peers) != 0 || len(malformed) != 0 {
		t.Fatalf("peers = %v, malformed = %v, want both empty", peers, malformed)
	}
}

func TestParsePeersWhitespace(t *testing.T) {
	peers, _ := ParsePeers(" 1:localhost:50051 , 3:localhost:50053 ", 1)
	if len(peers) != 1 || peers[0].ID != 3 {
		t.Fatalf("peers = %+v", peers)
	}
}

func TestParsePeersSkipsMalformed(t *testing.T) {
	peers, malformed := ParsePeers("nonsense,2:localhost:50052,0:localhost:50051,x:localhost:50051,1:localhost", 9)
	if len(peers) != 1 || peers[0].ID != 2 {
		t.Fatalf("peers = %+v, want only the well-formed entry", peers)
	}
	if len(malformed) != 4 {
		t.Fatalf("malformed = %v, want 4 entries", malformed)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHAT_SERVER_ID", "2")
	t.Setenv("CHAT_PORT", "50052")
	t.Setenv("CHAT_PEERS", "1:localhost:50051,2:localhost:50052,3:localhost:50053")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerID != 2 {
		t.Errorf("ServerID = %d, want 2", cfg.ServerID)
	}
	if cfg.Address() != "localhost:50052" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.HTTPPort != 51052 {
		t.Errorf("HTTPPort = %d, want grpc port + 1000", cfg.HTTPPort)
	}
	if len(cfg.Peers) != 2 {
		t.Errorf("Peers = %+v, want self removed", cfg.Peers)
	}
	if cfg.QueueSize != 128 {
		t.Errorf("QueueSize = %d, want default 128", cfg.QueueSize)
	}
}

func TestLoadRejectsZeroID(t *testing.T) {
	t.Setenv("CHAT_SERVER_ID", "0")
	if _, err := Load(); err == nil {
		t.Fatal("Load: expected error for zero server id")
	}
}
