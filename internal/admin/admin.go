// Package admin serves the HTTP observability endpoints of a replica.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/distchat/chat-cluster/internal/broadcast"
	"github.com/distchat/chat-cluster/internal/cluster"
	"github.com/distchat/chat-cluster/internal/election"
)

// Handler exposes leader status, liveness and the retained history.
type Handler struct {
	registry *cluster.Registry
	elector  *election.Elector
	history  *broadcast.History
	logger   zerolog.Logger
}

// NewHandler builds the admin handler.
func NewHandler(registry *cluster.Registry, elector *election.Elector, history *broadcast.History, logger zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		elector:  elector,
		history:  history,
		logger:   logger.With().Str("component", "admin").Logger(),
	}
}

// Router mounts the admin endpoints.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/leader", h.leader).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/history", h.historyDump).Methods(http.MethodGet)
	return r
}

// LeaderResponse is the payload of GET /leader.
type LeaderResponse struct {
	ServerID      uint32 `json:"server_id"`
	LeaderID      uint32 `json:"leader_id"`
	LeaderAddress string `json:"leader_address,omitempty"`
	IsLeader      bool   `json:"is_leader"`
	IsLeaderKnown bool   `json:"is_leader_known"`
}

func (h *Handler) leader(w http.ResponseWriter, r *http.Request) {
	leaderID, known := h.elector.Leader()
	resp := LeaderResponse{
		ServerID:      h.registry.SelfID(),
		LeaderID:      leaderID,
		IsLeader:      h.elector.IsLeader(),
		IsLeaderKnown: known,
	}
	if known {
		if addr, ok := h.registry.Address(leaderID); ok {
			resp.LeaderAddress = addr
		}
	}
	h.writeJSON(w, resp)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}

// HistoryEntry is one element of the GET /history payload.
type HistoryEntry struct {
	From    uint32 `json:"from"`
	Content string `json:"content"`
	Lamport uint64 `json:"lamport_timestamp"`
}

func (h *Handler) historyDump(w http.ResponseWriter, r *http.Request) {
	msgs := h.history.Snapshot()
	out := make([]HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, HistoryEntry{
			From:    m.ClientIdFrom,
			Content: m.Content,
			Lamport: m.LamportTimestamp,
		})
	}
	h.writeJSON(w, out)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
		http.Error(w, "encoding failure", http.StatusInternalServerError)
	}
}
