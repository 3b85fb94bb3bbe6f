package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Peer identifies one replica of the cluster.
type Peer struct {
	ID      uint32
	Address string
}

// Config holds the startup configuration of a chat server replica.
type Config struct {
	ServerID  uint32
	Port      int
	HTTPPort  int
	QueueSize int
	LogLevel  string
	Peers     []Peer

	// Malformed holds peer-list entries that could not be parsed; they are
	// skipped and reported, never fatal.
	Malformed []string
}

// Address returns the replica's own listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("localhost:%d", c.Port)
}

// Load reads the configuration from the environment. A .env file in the
// working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	id, err := strconv.ParseUint(getEnv("CHAT_SERVER_ID", "1"), 10, 32)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("CHAT_SERVER_ID must be a positive integer: %q", os.Getenv("CHAT_SERVER_ID"))
	}

	port, err := strconv.Atoi(getEnv("CHAT_PORT", "50051"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_PORT: %w", err)
	}

	httpPort := port + 1000
	if v := os.Getenv("CHAT_HTTP_PORT"); v != "" {
		httpPort, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CHAT_HTTP_PORT: %w", err)
		}
	}

	queueSize, err := strconv.Atoi(getEnv("CHAT_QUEUE_SIZE", "128"))
	if err != nil || queueSize <= 0 {
		return nil, fmt.Errorf("CHAT_QUEUE_SIZE must be a positive integer: %q", os.Getenv("CHAT_QUEUE_SIZE"))
	}

	peers, malformed := ParsePeers(getEnv("CHAT_PEERS", ""), uint32(id))

	return &Config{
		ServerID:  uint32(id),
		Port:      port,
		HTTPPort:  httpPort,
		QueueSize: queueSize,
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Peers:     peers,
		Malformed: malformed,
	}, nil
}

// ParsePeers parses a peer list of the form "id:host:port[,id:host:port]*".
// Entries matching selfID are dropped, so a deployment can hand the same
// list to every replica. Malformed entries are skipped and returned to the
// caller, which is expected to log them.
func ParsePeers(s string, selfID uint32) (peers []Peer, malformed []string) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || !strings.Contains(parts[1], ":") {
			malformed = append(malformed, entry)
			continue
		}
		id, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil || id == 0 {
			malformed = append(malformed, entry)
			continue
		}
		if uint32(id) == selfID {
			continue
		}
		peers = append(peers, Peer{ID: uint32(id), Address: parts[1]})
	}
	return peers, malformed
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
