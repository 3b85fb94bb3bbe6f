package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/distchat/chat-cluster/internal/chatpb"
	"github.com/distchat/chat-cluster/internal/lamport"
)

const (
	discoveryTimeout = 3 * time.Second
	maxReconnects    = 5
)

// client talks to the chat cluster: it discovers the leader through the
// known-servers list, keeps one subscription stream open and sends messages
// stamped by its own Lamport clock.
type client struct {
	servers []string
	clock   *lamport.Clock
	logger  zerolog.Logger

	mu       sync.Mutex
	conn     *grpc.ClientConn
	stub     chatpb.ClientServiceClient
	clientID uint32
}

func newClient(servers []string, logger zerolog.Logger) *client {
	return &client{
		servers: servers,
		clock:   &lamport.Clock{},
		logger:  logger,
	}
}

// connectToLeader asks every known server who the leader is and connects to
// the first advertised leader. A server that does not know a leader yet is
// accepted as-is; its subscription stream will redirect once one exists.
func (c *client) connectToLeader(ctx context.Context) error {
	for _, addr := range c.servers {
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			c.logger.Warn().Err(err).Str("server", addr).Msg("dial failed")
			continue
		}
		stub := chatpb.NewClientServiceClient(conn)

		dctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
		info, err := stub.GetLeader(dctx, &chatpb.Empty{})
		cancel()
		if err != nil {
			c.logger.Warn().Err(err).Str("server", addr).Msg("leader query failed")
			_ = conn.Close()
			continue
		}

		target := addr
		if info.IsLeaderKnown && info.LeaderAddress != "" && info.LeaderAddress != addr {
			_ = conn.Close()
			target = info.LeaderAddress
			conn, err = grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				c.logger.Warn().Err(err).Str("leader", target).Msg("dial to leader failed")
				continue
			}
			stub = chatpb.NewClientServiceClient(conn)
		}

		c.swapConnection(conn, stub)
		c.logger.Info().Str("server", target).Bool("leader_known", info.IsLeaderKnown).Msg("connected")
		return nil
	}
	return errors.New("no server reachable")
}

func (c *client) swapConnection(conn *grpc.ClientConn, stub chatpb.ClientServiceClient) {
	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.stub = stub
	c.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

func (c *client) currentStub() chatpb.ClientServiceClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stub
}

// reconnect retries discovery with capped exponential backoff.
func (c *client) reconnect(ctx context.Context) bool {
	for attempt := 0; attempt < maxReconnects; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Duration(1<<attempt) * time.Second):
		}
		if err := c.connectToLeader(ctx); err == nil {
			return true
		}
		c.logger.Warn().Int("attempt", attempt+1).Int("max", maxReconnects).Msg("reconnect failed")
	}
	return false
}

// recvLoop keeps a subscription stream open, following redirects and
// reconnecting when the stream breaks.
func (c *client) recvLoop(ctx context.Context) {
	for ctx.Err() == nil {
		stream, err := c.currentStub().SubscribeToServerEvents(ctx, &chatpb.Empty{})
		if err != nil {
			c.logger.Warn().Err(err).Msg("subscribe failed")
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		for {
			msg, err := stream.Recv()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Warn().Err(err).Msg("stream lost")
				if !c.reconnect(ctx) {
					return
				}
				break
			}

			if c.handle(msg) {
				// Redirected: the old stream closes, reopen on the leader.
				break
			}
		}
	}
}

// handle processes one stream message and reports whether the client was
// redirected to a new leader.
func (c *client) handle(msg *chatpb.TextMessage) (redirected bool) {
	switch {
	case strings.HasPrefix(msg.Content, chatpb.RedirectPrefix):
		addr := strings.TrimPrefix(msg.Content, chatpb.RedirectPrefix)
		c.logger.Info().Str("leader", addr).Msg("redirected to leader")
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			c.logger.Warn().Err(err).Msg("redirect dial failed")
			return false
		}
		c.swapConnection(conn, chatpb.NewClientServiceClient(conn))
		return true
	case strings.HasPrefix(msg.Content, chatpb.AssignedIDPrefix):
		raw := strings.TrimPrefix(msg.Content, chatpb.AssignedIDPrefix)
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.logger.Warn().Str("content", msg.Content).Msg("unparseable id assignment")
			return false
		}
		c.mu.Lock()
		c.clientID = uint32(id)
		c.mu.Unlock()
		c.logger.Info().Uint64("client_id", id).Msg("id assigned")
	default:
		c.clock.Observe(msg.LamportTimestamp)
		fmt.Printf("[ts=%d] client %d: %s\n", msg.LamportTimestamp, msg.ClientIdFrom, msg.Content)
	}
	return false
}

// send ticks the local clock and delivers one message, retrying once after
// a reconnect when the leader has moved.
func (c *client) send(ctx context.Context, content string) error {
	c.mu.Lock()
	from := c.clientID
	c.mu.Unlock()

	msg := &chatpb.TextMessage{
		ClientIdFrom:     from,
		Content:          content,
		LamportTimestamp: c.clock.Tick(),
	}

	if _, err := c.currentStub().SendMessageToServer(ctx, msg); err != nil {
		c.logger.Warn().Err(err).Msg("send failed, re-resolving leader")
		if !c.reconnect(ctx) {
			return err
		}
		_, err = c.currentStub().SendMessageToServer(ctx, msg)
		return err
	}
	return nil
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func parseServers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{"localhost:50051"}
	}
	var out []string
	for _, addr := range strings.Split(s, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func main() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Logger()

	servers := parseServers(os.Getenv("CHAT_SERVERS"))
	logger.Info().Strs("servers", servers).Msg("known servers")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newClient(servers, logger)
	if err := c.connectToLeader(ctx); err != nil {
		logger.Fatal().Err(err).Msg("could not reach any server")
	}
	defer c.close()

	go c.recvLoop(ctx)

	fmt.Println("Type a message and press enter. Ctrl+C to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := c.send(ctx, text); err != nil {
			logger.Error().Err(err).Msg("message not delivered")
		}
	}
}
